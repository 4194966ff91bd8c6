package mboardweb

import (
	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// AppConfig is the env-driven configuration for the web front end. It
// satisfies the Config interface consumed by the package constructors.
type AppConfig struct {
	Address           string   `env:"LISTEN_ADDR" envDefault:":8080"`
	Environment       string   `env:"APP_ENV" envDefault:"development"`
	DSN               string   `env:"SESSIONS_DSN" envDefault:"file:mboard_sessions.db?cache=shared"`
	DirectoryBaseURL  string   `env:"DIRECTORY_BASE_URL" envDefault:"http://localhost:3000/api"`
	TokenCookieName   string   `env:"TOKEN_COOKIE" envDefault:"accessToken"`
	TokenExpiration   int      `env:"TOKEN_EXPIRATION_HOURS" envDefault:"24"`
	AuthScheme        string   `env:"AUTH_SCHEME" envDefault:"Bearer"`
	LoginRoute        string   `env:"LOGIN_ROUTE" envDefault:"/login"`
	HomeRoute         string   `env:"HOME_ROUTE" envDefault:"/"`
	ReturnParam       string   `env:"RETURN_PARAM" envDefault:"from"`
	ProtectedPrefixes []string `env:"PROTECTED_PREFIXES" envDefault:"/dashboard,/threads/create"`
	AuthRoutes        []string `env:"AUTH_ROUTES" envDefault:"/login,/register"`
	ViewsDir          string   `env:"VIEWS_DIR" envDefault:"views"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to parse environment config")
	}
	return cfg, nil
}

var _ Config = (*AppConfig)(nil)

func (c *AppConfig) GetDirectoryBaseURL() string { return c.DirectoryBaseURL }

func (c *AppConfig) GetTokenCookieName() string { return c.TokenCookieName }

// GetCookieSecure reports whether session cookies require HTTPS. Only
// production-like environments do; local development stays on HTTP.
func (c *AppConfig) GetCookieSecure() bool {
	return c.Environment == "production"
}

func (c *AppConfig) GetTokenExpiration() int { return c.TokenExpiration }

func (c *AppConfig) GetAuthScheme() string { return c.AuthScheme }

func (c *AppConfig) GetLoginRoute() string { return c.LoginRoute }

func (c *AppConfig) GetHomeRoute() string { return c.HomeRoute }

func (c *AppConfig) GetReturnParam() string { return c.ReturnParam }

func (c *AppConfig) GetProtectedPrefixes() []string { return c.ProtectedPrefixes }

func (c *AppConfig) GetAuthRoutes() []string { return c.AuthRoutes }
