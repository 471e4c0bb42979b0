package auth

import (
	"context"
)

type contextKey string

const claimsContextKey contextKey = "claims"

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, c)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsContextKey).(*Claims)
	return c, ok && c != nil
}

// MustClaims panics if no claims are present (for use behind the auth middleware)
func MustClaims(ctx context.Context) *Claims {
	c, ok := ClaimsFrom(ctx)
	if !ok {
		panic("claims not found in context - ensure auth middleware is applied")
	}
	return c
}
