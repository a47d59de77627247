package middleware_test

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/twiller-app/authkit"
	"github.com/twiller-app/authkit/cache"
	"github.com/twiller-app/authkit/identity"
	"github.com/twiller-app/authkit/logger"
	"github.com/twiller-app/authkit/middleware"
	"github.com/twiller-app/authkit/profiles"
	"github.com/twiller-app/authkit/session"
)

func newLoggedInController(t *testing.T) *session.Controller {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_id":"1","username":"a","displayName":"Ada B","avatar":"x","joinedDate":"April 2024","email":"a@b.com","website":"","location":""}`))
	}))
	t.Cleanup(srv.Close)

	client, err := profiles.New(profiles.Config{BaseURL: srv.URL})
	require.Nil(t, err)

	c, err := session.NewController(session.Config{
		Provider: identity.NewStub(&identity.Session{Email: "a@b.com"}),
		Profiles: client,
		Cache:    cache.NewMemStore(),
		Logger:   logger.New(logger.WithLogger(log.New(io.Discard, "", 0))),
	})
	require.Nil(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestCurrentUser(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	actual := middleware.CurrentUser(nil)

	// Assert
	actual(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		_, ok := rx.Context().Value(authkit.CurrentUserKey).(authkit.UserProfile)
		require.False(t, ok)
	})).ServeHTTP(w, r)

	// Arrange
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	c := newLoggedInController(t)

	// Act
	actual = middleware.CurrentUser(c)

	// Assert
	actual(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		user, ok := rx.Context().Value(authkit.CurrentUserKey).(authkit.UserProfile)
		require.True(t, ok)
		require.Equal(t, "a@b.com", user.Email)
	})).ServeHTTP(w, r)
	require.Equal(t, "no-store", w.Header().Get("Cache-control"))
}

func TestRequireAuthed(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	middleware.RequireAuthed()(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		t.Fatal("handler reached without a user")
	})).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Arrange
	w = httptest.NewRecorder()
	ctx := context.WithValue(r.Context(), authkit.CurrentUserKey, authkit.UserProfile{ID: "1"})
	r = r.Clone(ctx)
	reached := false

	// Act
	middleware.RequireAuthed()(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		reached = true
	})).ServeHTTP(w, r)

	// Assert
	require.True(t, reached)
}

func TestRequireUnauthed(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	ctx := context.WithValue(r.Context(), authkit.CurrentUserKey, authkit.UserProfile{ID: "1"})
	r = r.Clone(ctx)

	// Act
	middleware.RequireUnauthed()(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		t.Fatal("handler reached with a user")
	})).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChain(t *testing.T) {
	// Arrange
	var order []string
	mk := func(name string) middleware.Adapter {
		return func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				handler.ServeHTTP(w, r)
			})
		}
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	middleware.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mk("first"), mk("second")).ServeHTTP(w, r)

	// Assert
	require.Equal(t, []string{"first", "second", "handler"}, order)
}
