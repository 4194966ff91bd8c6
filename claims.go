package mboardweb

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UnverifiedClaims carries the payload of a bearer token WITHOUT any
// signature or expiry verification. It exists for display and navigation
// decisions only; authorization always belongs to the directory service.
type UnverifiedClaims struct {
	jwt.RegisteredClaims
	Username string   `json:"username,omitempty"`
	UserRole UserRole `json:"role,omitempty"`
}

// Role returns the global role
func (c *UnverifiedClaims) Role() UserRole {
	return c.UserRole
}

// IsAdmin reports whether the claims carry the admin role.
func (c *UnverifiedClaims) IsAdmin() bool {
	return c.UserRole.IsAdmin()
}

// DisplayName returns the username, falling back to the subject claim.
func (c *UnverifiedClaims) DisplayName() string {
	if c.Username != "" {
		return c.Username
	}
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time
func (c *UnverifiedClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *UnverifiedClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// DecodeToken extracts claims from a JWT without verifying it. Any
// malformed input, wrong segment count, broken base64, or invalid JSON
// yields nil. It never panics and never returns an error.
func DecodeToken(token string) *UnverifiedClaims {
	if token == "" {
		return nil
	}

	claims := &UnverifiedClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	return claims
}
