package mboardweb

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds web front end options
type Config interface {
	GetDirectoryBaseURL() string
	GetTokenCookieName() string
	GetCookieSecure() bool
	GetTokenExpiration() int
	GetAuthScheme() string
	GetLoginRoute() string
	GetHomeRoute() string
	GetReturnParam() string
	GetProtectedPrefixes() []string
	GetAuthRoutes() []string
}

// SessionRevoker notifies the directory service that a refresh token
// should stop working. SessionStore treats failures as advisory.
type SessionRevoker interface {
	RevokeSession(ctx context.Context, refreshToken string) error
}

// SessionRevokerFunc adapts a function into a SessionRevoker.
type SessionRevokerFunc func(ctx context.Context, refreshToken string) error

// RevokeSession satisfies the SessionRevoker interface.
func (f SessionRevokerFunc) RevokeSession(ctx context.Context, refreshToken string) error {
	if f == nil {
		return nil
	}
	return f(ctx, refreshToken)
}

// Confirmer answers the destructive-action prompt for a user deletion.
// A false answer means the operation never starts.
type Confirmer interface {
	ConfirmDelete(username string) bool
}

// ConfirmerFunc adapts a function into a Confirmer.
type ConfirmerFunc func(username string) bool

// ConfirmDelete satisfies the Confirmer interface.
func (f ConfirmerFunc) ConfirmDelete(username string) bool {
	if f == nil {
		return false
	}
	return f(username)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] WEB "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] WEB "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] WEB "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
