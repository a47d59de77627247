package middleware

import (
	"context"
	"net/http"

	"github.com/twiller-app/authkit"
	"github.com/twiller-app/authkit/session"
)

// CurrentUser stashes the session controller's current user in the
// *http.Request.Context under [authkit.CurrentUserKey].
//
// No current user is not an error here; whether an anonymous request may
// proceed is for RequireAuthed to decide further down the chain.
func CurrentUser(c *session.Controller) Adapter {
	if c == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := c.CurrentUser()
			if user == nil {
				handler.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Cache-control", "no-store")
			w.Header().Add("Pragma", "no-cache")

			ctx := context.WithValue(r.Context(), authkit.CurrentUserKey, *user)
			handler.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

// RequireAuthed checks whether a current user is set in the request context
// and requires one be. Anonymous requests receive 401.
func RequireAuthed() Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(authkit.CurrentUserKey).(authkit.UserProfile); !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

// RequireUnauthed checks whether a current user is set in the request context
// and requires one not be. Authenticated requests receive 400.
func RequireUnauthed() Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(authkit.CurrentUserKey).(authkit.UserProfile); ok {
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}
