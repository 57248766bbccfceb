package auth

import (
	"context"

	"github.com/dmanalytics/miniapp/internal/store"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// callerContextKey is the context key for the authenticated user.
	callerContextKey contextKey = "caller"
)

// ContextWithCaller adds the authenticated user to the context.
func ContextWithCaller(ctx context.Context, u *store.User) context.Context {
	return context.WithValue(ctx, callerContextKey, u)
}

// CallerFromContext retrieves the authenticated user.
// Returns nil if not present.
func CallerFromContext(ctx context.Context) *store.User {
	u, ok := ctx.Value(callerContextKey).(*store.User)
	if !ok {
		return nil
	}
	return u
}

// MustCallerFromContext retrieves the authenticated user.
// Panics if not present (use only when the init data middleware has run).
func MustCallerFromContext(ctx context.Context) *store.User {
	u := CallerFromContext(ctx)
	if u == nil {
		panic("caller not found - ensure init data middleware is applied")
	}
	return u
}
