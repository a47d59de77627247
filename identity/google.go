package identity

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/twiller-app/authkit"
)

// A TokenGetter produces the OAuth token for a federated sign-in attempt,
// typically by walking the agent through the provider's consent flow.
// Return [authkit.ErrCancelled] (wrapped or not) when the agent abandons it.
type TokenGetter func(ctx context.Context) (*oauth2.Token, error)

// GoogleVerifier resolves an OAuth token into the Google account behind it.
type GoogleVerifier struct {
	config *oauth2.Config
}

// NewGoogleVerifier constructs a GoogleVerifier for the given client credentials.
func NewGoogleVerifier(clientID, clientSecret string) (*GoogleVerifier, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf(`%w: config cannot be ""`, authkit.ErrBadConfig)
	}

	return &GoogleVerifier{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{goauth2.UserinfoEmailScope, goauth2.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
	}, nil
}

// FetchUser retrieves the Google account the token authenticates.
func (v *GoogleVerifier) FetchUser(ctx context.Context, token *oauth2.Token) (*goauth2.Userinfo, error) {
	service, err := goauth2.NewService(ctx, option.WithTokenSource(v.config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	user, err := service.Userinfo.Get().Do()
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Resolve turns a federated OAuth token into a Session.
func (v *GoogleVerifier) Resolve(ctx context.Context, token *oauth2.Token) (Session, error) {
	user, err := v.FetchUser(ctx, token)
	if err != nil {
		return Session{}, fmt.Errorf("%w: fetching google account: %s", authkit.ErrUnexpected, err)
	}

	return Session{
		Email:       user.Email,
		DisplayName: user.Name,
		AvatarURL:   user.Picture,
		Token:       token.AccessToken,
	}, nil
}
