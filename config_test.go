package mboardweb_test

import (
	"testing"

	mboardweb "github.com/mboardhq/go-mboard-web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := mboardweb.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, "accessToken", cfg.GetTokenCookieName())
	assert.Equal(t, "http://localhost:3000/api", cfg.GetDirectoryBaseURL())
	assert.Equal(t, []string{"/dashboard", "/threads/create"}, cfg.GetProtectedPrefixes())
	assert.Equal(t, []string{"/login", "/register"}, cfg.GetAuthRoutes())
	assert.Equal(t, 24, cfg.GetTokenExpiration())
	assert.False(t, cfg.GetCookieSecure())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PROTECTED_PREFIXES", "/admin,/private")

	cfg, err := mboardweb.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Address)
	assert.True(t, cfg.GetCookieSecure())
	assert.Equal(t, []string{"/admin", "/private"}, cfg.GetProtectedPrefixes())
}
