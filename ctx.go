package mboardweb

import (
	"context"

	"github.com/goliatone/go-router"
)

var claimsCtxKey = &contextKey{"claims"}
var bearerCtxKey = &contextKey{"bearer"}

type contextKey struct {
	name string
}

// ClaimsLocalsKey is the router locals key the guard stores decoded
// claims under.
var ClaimsLocalsKey = "session_claims"

// WithClaimsContext sets the UnverifiedClaims in the given context
func WithClaimsContext(r context.Context, claims *UnverifiedClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the UnverifiedClaims from the standard context
func GetClaims(ctx context.Context) (*UnverifiedClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*UnverifiedClaims)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// WithBearerContext sets the session's access token in the given context
func WithBearerContext(r context.Context, token string) context.Context {
	return context.WithValue(r, bearerCtxKey, token)
}

// BearerFromContext extracts the session's access token from the context
func BearerFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(bearerCtxKey).(string)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

// SetRouterClaims stores decoded claims in the router context for
// handlers and templates downstream.
func SetRouterClaims(ctx router.Context, claims *UnverifiedClaims) {
	if claims == nil {
		return
	}
	ctx.Locals(ClaimsLocalsKey, claims)
}

// GetRouterClaims extracts the UnverifiedClaims from the router context
func GetRouterClaims(ctx router.Context) (*UnverifiedClaims, bool) {
	raw := ctx.Locals(ClaimsLocalsKey)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(*UnverifiedClaims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}
