package authkit

type Key string

const (
	// CurrentUserKey stashes the currently authenticated UserProfile.
	CurrentUserKey Key = "CurrentUserKey"

	// RequestIDKey stashes a unique UUID for each profile service request.
	RequestIDKey Key = "RequestIDKey"

	// SessionControllerKey stashes the session controller scoped to an app's lifetime.
	SessionControllerKey Key = "SessionControllerKey"

	// SessionKey stashes the identity provider session.
	SessionKey Key = "SessionKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "authkit context key: " + string(k)
}

// CacheKey is the fixed namespace the last-known UserProfile is stored under
// in client-local storage.
const CacheKey = "twiller-user"
