package authkit

import "errors"

var (
	ErrBadConfig = errors.New("bad config")

	// ErrInvalidCredentials surfaces when the identity provider
	// rejects an email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountExists surfaces when the identity provider
	// already holds an account for the email.
	ErrAccountExists = errors.New("account exists")

	// ErrCancelled surfaces when the user abandons a federated sign-in flow.
	ErrCancelled = errors.New("cancelled")

	// ErrMissingEmail surfaces when a federated account
	// exposes no email to key the profile record with.
	ErrMissingEmail = errors.New("missing email")

	ErrMissingData = errors.New("missing data")
	ErrNoUser      = errors.New("no user")
	ErrNotFound    = errors.New("not found")
	ErrNotValid    = errors.New("invalid")
	ErrUnexpected  = errors.New("unexpected")
)
