package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/twiller-app/authkit"
)

const defaultTimeout = 10 * time.Second

// Config provides the required values for a RestProvider.
type Config struct {
	// BaseURL locates the identity provider's REST surface,
	// e.g. https://identitytoolkit.googleapis.com/v1.
	BaseURL string

	// APIKey is the project API key sent with every call.
	APIKey string

	// Timeout bounds each call to the provider. Defaults to 10s.
	Timeout time.Duration
}

// A RestProvider implements Provider over an identity toolkit style REST API,
// the kind backing email/password sign-in for hosted identity platforms.
//
// It tracks the session it last established and notifies the registered
// subscriber whenever that session changes.
type RestProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client

	google *GoogleVerifier
	tokens TokenGetter

	mu      sync.Mutex
	current *Session
	notify  func(*Session)
}

var _ Provider = (*RestProvider)(nil)

// A RestProviderOpt configures the provided *RestProvider,
// returning an error if unable to.
type RestProviderOpt func(*RestProvider) error

// WithGoogle equips the RestProvider for federated sign-in:
// tokens runs the consent flow, verifier resolves its result into an account.
func WithGoogle(verifier *GoogleVerifier, tokens TokenGetter) RestProviderOpt {
	return func(p *RestProvider) error {
		if verifier == nil || tokens == nil {
			return fmt.Errorf("%w: google sign-in needs a verifier and a token getter", authkit.ErrBadConfig)
		}

		p.google = verifier
		p.tokens = tokens
		return nil
	}
}

// WithHTTPClient swaps the *http.Client the RestProvider calls out with.
func WithHTTPClient(c *http.Client) RestProviderOpt {
	return func(p *RestProvider) error {
		p.client = c
		return nil
	}
}

// NewRestProvider constructs a RestProvider from cfg and opts.
func NewRestProvider(cfg Config, opts ...RestProviderOpt) (*RestProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf(`%w: BaseURL cannot be ""`, authkit.ErrBadConfig)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	p := &RestProvider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// SignInWithPassword exchanges an email/password pair for a Session.
func (p *RestProvider) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	s, err := p.credentialExchange(ctx, "accounts:signInWithPassword", email, password)
	if err != nil {
		return Session{}, err
	}

	p.setSession(&s)
	return s, nil
}

// CreateAccount registers a new email/password account and signs it in.
func (p *RestProvider) CreateAccount(ctx context.Context, email, password string) (Session, error) {
	s, err := p.credentialExchange(ctx, "accounts:signUp", email, password)
	if err != nil {
		return Session{}, err
	}

	p.setSession(&s)
	return s, nil
}

// SignInWithGoogle runs the federated consent flow and resolves a Session from it.
func (p *RestProvider) SignInWithGoogle(ctx context.Context) (Session, error) {
	if p.google == nil || p.tokens == nil {
		return Session{}, fmt.Errorf("%w: google sign-in is not configured", authkit.ErrBadConfig)
	}

	token, err := p.tokens(ctx)
	if err != nil {
		return Session{}, err
	}

	s, err := p.google.Resolve(ctx, token)
	if err != nil {
		return Session{}, err
	}

	p.setSession(&s)
	return s, nil
}

// SignOut drops the current session. The credential itself simply falls out
// of use; revocation is the provider's side of the interface.
func (p *RestProvider) SignOut(ctx context.Context) error {
	p.setSession(nil)
	return nil
}

// OnSessionChange registers fn as the sole subscriber to session changes,
// replacing any prior registration. fn fires immediately with the current
// session and again on every subsequent change, in order.
func (p *RestProvider) OnSessionChange(fn func(*Session)) Unsubscribe {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.notify = fn
	fn(p.current)

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.notify = nil
	}
}

// setSession records the session and delivers it to the subscriber, if any.
func (p *RestProvider) setSession(s *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = s
	if p.notify != nil {
		p.notify(s)
	}
}

// credentialExchange posts an email/password pair to the named endpoint
// and shapes the issued ID token into a Session.
func (p *RestProvider) credentialExchange(ctx context.Context, endpoint, email, password string) (Session, error) {
	body, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return Session{}, fmt.Errorf("%w: %s", authkit.ErrUnexpected, err)
	}

	url := p.baseURL + "/" + endpoint
	if p.apiKey != "" {
		url += "?key=" + p.apiKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %s", authkit.ErrUnexpected, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("%w: calling identity provider: %s", authkit.ErrUnexpected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Session{}, decodeProviderError(resp)
	}

	var res struct {
		IDToken     string `json:"idToken"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Session{}, fmt.Errorf("%w: decoding identity provider response: %s", authkit.ErrUnexpected, err)
	}

	s := Session{
		Email:       res.Email,
		DisplayName: res.DisplayName,
		Token:       res.IDToken,
	}

	// ID token claims fill in attributes the exchange response leaves out.
	if claims, err := ParseIDToken(res.IDToken); err == nil {
		if s.Email == "" {
			s.Email = claims.Email
		}
		if s.DisplayName == "" {
			s.DisplayName = claims.Name
		}
		s.AvatarURL = claims.Picture
	}

	return s, nil
}

// decodeProviderError maps the provider's error codes onto the package's sentinels.
func decodeProviderError(resp *http.Response) error {
	var res struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return fmt.Errorf("%w: identity provider returned %d", authkit.ErrUnexpected, resp.StatusCode)
	}

	code, _, _ := strings.Cut(res.Error.Message, " ")
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return fmt.Errorf("%w: %s", authkit.ErrInvalidCredentials, res.Error.Message)
	case "EMAIL_EXISTS":
		return fmt.Errorf("%w: %s", authkit.ErrAccountExists, res.Error.Message)
	default:
		return fmt.Errorf("%w: %s", authkit.ErrUnexpected, res.Error.Message)
	}
}
