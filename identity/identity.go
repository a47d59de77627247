package identity

import (
	"context"
)

// A Session is an authenticated identity provider credential bound to an email,
// independent of the application's UserProfile record.
//
// All attributes other than Token are optional; federated accounts in
// particular may expose no email.
type Session struct {
	Email       string
	DisplayName string
	AvatarURL   string

	// Token is the opaque credential the provider issued for the session.
	Token string
}

// An Unsubscribe tears down a session change registration.
type Unsubscribe func()

// The Provider interface is the capability an identity provider exposes
// to the session controller. Credential verification, token issuance, and
// federated handshakes all happen on the provider's side of this interface.
//
// OnSessionChange registers the single subscriber to the provider's session
// change stream. The callback fires once immediately with the current session
// (nil when there is none) and again, in order, whenever the underlying
// session is established or torn down.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)
	CreateAccount(ctx context.Context, email, password string) (Session, error)
	SignInWithGoogle(ctx context.Context) (Session, error)
	SignOut(ctx context.Context) error
	OnSessionChange(fn func(*Session)) Unsubscribe
}
