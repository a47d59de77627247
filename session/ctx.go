package session

import (
	"context"

	"github.com/twiller-app/authkit"
)

// NewContext stashes the Controller in ctx under [authkit.SessionControllerKey],
// scoping it to the application composition the context threads through.
func NewContext(ctx context.Context, c *Controller) context.Context {
	return context.WithValue(ctx, authkit.SessionControllerKey, c)
}

// FromContext retrieves the Controller stashed in ctx.
//
// Calling FromContext outside a context NewContext produced is a programming
// error and panics rather than returning a zero-value controller.
func FromContext(ctx context.Context) *Controller {
	c, ok := ctx.Value(authkit.SessionControllerKey).(*Controller)
	if !ok {
		panic("session.FromContext must be called within a context wrapping a Controller")
	}

	return c
}
