package mboardweb_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	mboardweb "github.com/mboardhq/go-mboard-web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, username string, role mboardweb.UserRole) string {
	t.Helper()

	claims := &mboardweb.UnverifiedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: username,
		UserRole: role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestDecodeToken_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"single word", "garbage"},
		{"two segments", "aaaa.bbbb"},
		{"four segments", "aaaa.bbbb.cccc.dddd"},
		{"invalid base64", "!!!.%%%.###"},
		{"valid base64 invalid json", "bm90anNvbg.bm90anNvbg.bm90anNvbg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, mboardweb.DecodeToken(tt.token))
		})
	}
}

func TestDecodeToken_NeverPanics(t *testing.T) {
	inputs := []string{
		strings.Repeat(".", 100),
		"\x00\x01\x02",
		strings.Repeat("a", 1<<16),
		"..",
	}

	for _, input := range inputs {
		assert.NotPanics(t, func() {
			mboardweb.DecodeToken(input)
		})
	}
}

func TestDecodeToken_ValidToken(t *testing.T) {
	token := signedToken(t, "admin", mboardweb.RoleAdmin)

	claims := mboardweb.DecodeToken(token)
	require.NotNil(t, claims)

	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, mboardweb.RoleAdmin, claims.UserRole)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, "admin", claims.DisplayName())
}

func TestDecodeToken_IgnoresSignature(t *testing.T) {
	token := signedToken(t, "eve", mboardweb.RoleUser)

	// Break the signature segment; decoding is presence-not-validity.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA"

	claims := mboardweb.DecodeToken(tampered)
	require.NotNil(t, claims)
	assert.Equal(t, "eve", claims.Username)
}

func TestDecodeToken_ExpiredTokenStillDecodes(t *testing.T) {
	claims := &mboardweb.UnverifiedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "old-user",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		Username: "old-user",
		UserRole: mboardweb.RoleUser,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	decoded := mboardweb.DecodeToken(token)
	require.NotNil(t, decoded)
	assert.Equal(t, "old-user", decoded.Username)
	assert.True(t, decoded.Expires().Before(time.Now()))
}

func TestUnverifiedClaims_DisplayName(t *testing.T) {
	t.Run("prefers username", func(t *testing.T) {
		claims := &mboardweb.UnverifiedClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "42"},
			Username:         "birb",
		}
		assert.Equal(t, "birb", claims.DisplayName())
	})

	t.Run("falls back to subject", func(t *testing.T) {
		claims := &mboardweb.UnverifiedClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "42"},
		}
		assert.Equal(t, "42", claims.DisplayName())
	})
}
