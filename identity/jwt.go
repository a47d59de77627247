package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/twiller-app/authkit"
)

// IDTokenClaims are the profile attributes an identity provider
// embeds in the ID tokens it issues.
type IDTokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`

	jwt.RegisteredClaims
}

// ParseIDToken decodes the claims out of a provider-issued ID token.
//
// The token's signature is not checked here: the token arrived over the
// provider's own TLS channel in direct response to a credential exchange, and
// the provider - not this client - is the party that must verify it on use.
func ParseIDToken(raw string) (IDTokenClaims, error) {
	var claims IDTokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return IDTokenClaims{}, fmt.Errorf("%w: cannot parse ID token: %s", authkit.ErrNotValid, err)
	}

	return claims, nil
}
