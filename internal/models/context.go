package models

import (
	"context"
	"time"
)

type authContextKey struct{}

// AuthenticatedContext is the request-scoped identity produced by a
// successful bearer token check. It is never persisted.
type AuthenticatedContext struct {
	User      *User
	IssuedAt  time.Time
	ExpiresAt time.Time
	Claims    map[string]any
}

// Username returns the authenticated username
func (a *AuthenticatedContext) Username() string {
	if a == nil || a.User == nil {
		return ""
	}
	return a.User.Username
}

// ClaimString returns a string claim, or fallback when absent or not a string.
func (a *AuthenticatedContext) ClaimString(name, fallback string) string {
	if a != nil {
		if v, ok := a.Claims[name].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}

// WithAuthContext returns a copy of ctx carrying auth
func WithAuthContext(ctx context.Context, auth *AuthenticatedContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// AuthFromContext returns the AuthenticatedContext stored in ctx, or nil
func AuthFromContext(ctx context.Context) *AuthenticatedContext {
	auth, _ := ctx.Value(authContextKey{}).(*AuthenticatedContext)
	return auth
}
