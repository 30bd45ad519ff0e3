package common

import (
	"context"
)

// UserContext holds the authenticated user for a request, populated by the
// bearer-token middleware from JWT claims. When absent (nil), the request is
// anonymous and protected handlers must reject it.
type UserContext struct {
	UID         string
	Email       string
	DisplayName string
	Role        string
}

type contextKey int

const userContextKey contextKey = iota

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUID returns the authenticated user's UID, or "" for anonymous requests.
func ResolveUID(ctx context.Context) string {
	if uc := UserContextFromContext(ctx); uc != nil {
		return uc.UID
	}
	return ""
}

// IsAdmin reports whether the request carries an admin user.
func IsAdmin(ctx context.Context) bool {
	uc := UserContextFromContext(ctx)
	return uc != nil && uc.Role == "admin"
}
