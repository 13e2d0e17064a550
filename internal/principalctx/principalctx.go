package principalctx

import (
	"context"
	"strings"
)

// PrincipalContextKey is the request context key for the authenticated user ID.
type PrincipalContextKey struct{}

// WithUserID stores the authenticated user ID in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, PrincipalContextKey{}, strings.TrimSpace(userID))
}

// UserIDFromContext returns the authenticated user ID from context, if set.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(PrincipalContextKey{}).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
