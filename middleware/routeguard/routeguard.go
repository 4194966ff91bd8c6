package routeguard

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-router"
)

// RouteClass is the static classification the guard assigns a path.
type RouteClass int

const (
	// Public routes pass through regardless of session state.
	Public RouteClass = iota
	// Protected routes require a session token.
	Protected
	// AuthOnly routes bounce visitors that already have a session.
	AuthOnly
)

func (c RouteClass) String() string {
	switch c {
	case Protected:
		return "protected"
	case AuthOnly:
		return "auth-only"
	default:
		return "public"
	}
}

type Config struct {
	// Filter defines a function to skip the middleware
	Filter func(router.Context) bool

	// TokenCookie is the cookie the session token lives in
	TokenCookie string
	// AuthScheme is the Authorization header scheme, "Bearer" by default
	AuthScheme string

	// ProtectedPrefixes are matched as path prefixes
	ProtectedPrefixes []string
	// AuthRoutes are matched exactly
	AuthRoutes []string

	// LoginRoute is where unauthenticated protected traffic goes
	LoginRoute string
	// HomeRoute is where authenticated auth-only traffic goes
	HomeRoute string
	// ReturnParam carries the original path on the login redirect
	ReturnParam string
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenCookie == "" {
		cfg.TokenCookie = "accessToken"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if len(cfg.ProtectedPrefixes) == 0 {
		cfg.ProtectedPrefixes = []string{"/dashboard", "/threads/create"}
	}

	if len(cfg.AuthRoutes) == 0 {
		cfg.AuthRoutes = []string{"/login", "/register"}
	}

	if cfg.LoginRoute == "" {
		cfg.LoginRoute = "/login"
	}

	if cfg.HomeRoute == "" {
		cfg.HomeRoute = "/"
	}

	if cfg.ReturnParam == "" {
		cfg.ReturnParam = "from"
	}

	return cfg
}

// New returns the guard middleware. It classifies every request path
// against static tables and redirects synchronously; it never touches
// the network or the durable store.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			path := ctx.Path()
			hasToken := cfg.extractToken(ctx) != ""

			switch cfg.Classify(path) {
			case Protected:
				if !hasToken {
					target := cfg.LoginRoute + "?" + cfg.ReturnParam + "=" + url.QueryEscape(path)
					return ctx.Redirect(target, redirectStatus(ctx))
				}
			case AuthOnly:
				if hasToken {
					return ctx.Redirect(cfg.HomeRoute, redirectStatus(ctx))
				}
			}

			return ctx.Next()
		}
	}
}

// Classify assigns a path its route class: exact auth routes first,
// then protected prefixes, everything else public.
func (cfg Config) Classify(path string) RouteClass {
	for _, route := range cfg.AuthRoutes {
		if path == route {
			return AuthOnly
		}
	}

	for _, prefix := range cfg.ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return Protected
		}
	}

	return Public
}

// extractToken reads the session token from the cookie or the
// Authorization header. Presence only, no validation.
func (cfg Config) extractToken(ctx router.Context) string {
	if token := ctx.Cookies(cfg.TokenCookie); token != "" {
		return token
	}

	header := ctx.GetString(router.HeaderAuthorization, "")
	scheme := strings.TrimSpace(cfg.AuthScheme)
	l := len(scheme)
	if l > 0 && len(header) > l+1 && strings.EqualFold(header[:l], scheme) {
		return strings.TrimSpace(header[l:])
	}

	return ""
}

func redirectStatus(ctx router.Context) int {
	if ctx.Method() == string(router.GET) {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
