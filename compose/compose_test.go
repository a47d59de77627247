package compose_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/twiller-app/authkit"
	"github.com/twiller-app/authkit/cache"
	"github.com/twiller-app/authkit/compose"
	"github.com/twiller-app/authkit/identity"
	"github.com/twiller-app/authkit/logger"
	"github.com/twiller-app/authkit/session"
)

type noopProfiles struct{}

func (noopProfiles) FetchByEmail(context.Context, string) (authkit.UserProfile, error) {
	return authkit.UserProfile{}, authkit.ErrNotFound
}

func (noopProfiles) Create(context.Context, authkit.Registration) (authkit.UserProfile, error) {
	return authkit.UserProfile{}, authkit.ErrUnexpected
}

func (noopProfiles) Update(context.Context, string, authkit.UserProfile) (authkit.UserProfile, error) {
	return authkit.UserProfile{}, authkit.ErrUnexpected
}

func quietLogger() logger.Logger {
	return logger.New(logger.WithLogger(log.New(io.Discard, "", 0)))
}

func TestNew(t *testing.T) {
	// Arrange + Act: Testing env stubs the provider and memory-backs the cache
	t.Setenv("IDENTITY_BASE_URL", "")
	t.Setenv("REDIS_URL", "")
	k, err := compose.New(
		compose.WithEnv(authkit.Testing),
		compose.WithLogger(quietLogger()),
		compose.WithProfiles(noopProfiles{}),
	)

	// Assert
	require.Nil(t, err)
	t.Cleanup(k.Close)
	require.NotNil(t, k.Controller)
	require.Equal(t, authkit.Testing, k.Env())
	require.Nil(t, k.Controller.CurrentUser())
	require.False(t, k.Controller.Loading())
}

func TestNewExplicitCollaborators(t *testing.T) {
	// Arrange
	store := cache.NewMemStore()
	provider := identity.NewStub(nil)

	// Act
	k, err := compose.New(
		compose.WithEnv(authkit.Testing),
		compose.WithLogger(quietLogger()),
		compose.WithProvider(provider),
		compose.WithProfiles(noopProfiles{}),
		compose.WithCache(store),
	)

	// Assert
	require.Nil(t, err)
	t.Cleanup(k.Close)
	require.NotNil(t, k.Controller)
}

func TestNewMissingProfileService(t *testing.T) {
	// Arrange: Production cannot fall back to a stub or defaults
	t.Setenv("PROFILE_SERVICE_URL", "")
	t.Setenv("IDENTITY_BASE_URL", "https://identity.example.com/v1")

	// Act
	_, err := compose.New(
		compose.WithEnv(authkit.Production),
		compose.WithLogger(quietLogger()),
	)

	// Assert
	require.ErrorIs(t, err, authkit.ErrBadConfig)
}

func TestNewProductionRequiresIdentityBaseURL(t *testing.T) {
	// Arrange
	t.Setenv("IDENTITY_BASE_URL", "")

	// Act
	_, err := compose.New(
		compose.WithEnv(authkit.Production),
		compose.WithLogger(quietLogger()),
		compose.WithProfiles(noopProfiles{}),
		compose.WithCache(cache.NewMemStore()),
	)

	// Assert
	require.ErrorIs(t, err, authkit.ErrBadConfig)
}

func TestNewBadEnv(t *testing.T) {
	_, err := compose.New(compose.WithEnv(authkit.Environment("NOPE")))
	require.ErrorIs(t, err, authkit.ErrBadConfig)
}

var _ session.Notifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) Alert(string, error) {}

func TestWithNotifier(t *testing.T) {
	// Act
	t.Setenv("IDENTITY_BASE_URL", "")
	t.Setenv("REDIS_URL", "")
	k, err := compose.New(
		compose.WithEnv(authkit.Testing),
		compose.WithLogger(quietLogger()),
		compose.WithProfiles(noopProfiles{}),
		compose.WithNotifier(noopNotifier{}),
	)

	// Assert
	require.Nil(t, err)
	t.Cleanup(k.Close)
	require.NotNil(t, k.Controller)
}
