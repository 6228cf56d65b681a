package auth

import (
	"context"

	"github.com/goaltracker/goaltracker/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userContextKey is the context key for the resolved caller.
	userContextKey contextKey = "auth_user"
)

// ContextWithUser adds the resolved caller to the context.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the resolved caller from the context.
// Returns nil if not present.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// MustUserFromContext retrieves the resolved caller from the context.
// Panics if not present (use only when auth middleware has run).
func MustUserFromContext(ctx context.Context) *model.User {
	user := UserFromContext(ctx)
	if user == nil {
		panic("auth user not found - ensure auth middleware is applied")
	}
	return user
}
