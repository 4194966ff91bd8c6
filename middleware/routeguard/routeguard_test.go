package routeguard_test

import (
	"net/http"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/mboardhq/go-mboard-web/middleware/routeguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routerContext aliases router.Context so it can be embedded without the
// field name colliding with the interface's Context() method.
type routerContext = router.Context

type guardContext struct {
	routerContext

	path    string
	method  string
	cookies map[string]string
	headers map[string]string

	nextCalled     bool
	redirectPath   string
	redirectStatus int
}

func newGuardContext(method, path string) *guardContext {
	return &guardContext{
		path:    path,
		method:  method,
		cookies: map[string]string{},
		headers: map[string]string{},
	}
}

func (c *guardContext) Path() string   { return c.path }
func (c *guardContext) Method() string { return c.method }

func (c *guardContext) Cookies(key string, defaultValue ...string) string {
	if v, ok := c.cookies[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (c *guardContext) GetString(key string, defaultValue string) string {
	if v, ok := c.headers[key]; ok {
		return v
	}
	return defaultValue
}

func (c *guardContext) Next() error {
	c.nextCalled = true
	return nil
}

func (c *guardContext) Redirect(path string, status ...int) error {
	c.redirectPath = path
	if len(status) > 0 {
		c.redirectStatus = status[0]
	} else {
		c.redirectStatus = http.StatusFound
	}
	return nil
}

func runGuard(t *testing.T, ctx router.Context, config ...routeguard.Config) {
	t.Helper()

	handler := routeguard.New(config...)(func(c router.Context) error {
		return nil
	})
	require.NoError(t, handler(ctx))
}

func TestGuard_ProtectedWithoutToken(t *testing.T) {
	ctx := newGuardContext(string(router.GET), "/dashboard")
	runGuard(t, ctx)

	assert.False(t, ctx.nextCalled)
	assert.Equal(t, "/login?from=%2Fdashboard", ctx.redirectPath)
	assert.Equal(t, http.StatusFound, ctx.redirectStatus)
}

func TestGuard_ProtectedPostWithoutToken(t *testing.T) {
	ctx := newGuardContext(string(router.POST), "/threads/create")
	runGuard(t, ctx)

	assert.Equal(t, "/login?from=%2Fthreads%2Fcreate", ctx.redirectPath)
	assert.Equal(t, http.StatusSeeOther, ctx.redirectStatus)
}

func TestGuard_ProtectedWithCookie(t *testing.T) {
	ctx := newGuardContext(string(router.GET), "/dashboard")
	ctx.cookies["accessToken"] = "tok"
	runGuard(t, ctx)

	assert.True(t, ctx.nextCalled)
	assert.Empty(t, ctx.redirectPath)
}

func TestGuard_ProtectedWithBearerHeader(t *testing.T) {
	ctx := newGuardContext(string(router.GET), "/dashboard")
	ctx.headers[router.HeaderAuthorization] = "Bearer tok"
	runGuard(t, ctx)

	assert.True(t, ctx.nextCalled)
}

func TestGuard_AuthRouteWithToken(t *testing.T) {
	ctx := newGuardContext(string(router.GET), "/login")
	ctx.cookies["accessToken"] = "tok"
	runGuard(t, ctx)

	assert.False(t, ctx.nextCalled)
	assert.Equal(t, "/", ctx.redirectPath)
	assert.Equal(t, http.StatusFound, ctx.redirectStatus)
}

func TestGuard_AuthRouteWithoutToken(t *testing.T) {
	ctx := newGuardContext(string(router.GET), "/register")
	runGuard(t, ctx)

	assert.True(t, ctx.nextCalled)
}

func TestGuard_PublicRoute(t *testing.T) {
	for _, path := range []string{"/", "/threads/42", "/static/app.css"} {
		ctx := newGuardContext(string(router.GET), path)
		runGuard(t, ctx)
		assert.True(t, ctx.nextCalled, path)
	}
}

func TestGuard_PublicRouteWithExpiredGarbageToken(t *testing.T) {
	// presence only: any cookie value counts as a session
	ctx := newGuardContext(string(router.GET), "/threads/42")
	ctx.cookies["accessToken"] = "not-even-a-jwt"
	runGuard(t, ctx)

	assert.True(t, ctx.nextCalled)
}

func TestGuard_FilterSkips(t *testing.T) {
	ctx := newGuardContext(string(router.GET), "/dashboard")
	runGuard(t, ctx, routeguard.Config{
		Filter: func(c router.Context) bool { return true },
	})

	assert.True(t, ctx.nextCalled)
	assert.Empty(t, ctx.redirectPath)
}

func TestGuard_CustomRoutes(t *testing.T) {
	cfg := routeguard.Config{
		TokenCookie:       "session",
		ProtectedPrefixes: []string{"/admin"},
		AuthRoutes:        []string{"/signin"},
		LoginRoute:        "/signin",
		ReturnParam:       "next",
	}

	ctx := newGuardContext(string(router.GET), "/admin/users")
	runGuard(t, ctx, cfg)

	assert.Equal(t, "/signin?next=%2Fadmin%2Fusers", ctx.redirectPath)
}

func TestClassify(t *testing.T) {
	cfg := routeguard.GetDefaultConfig()

	tests := []struct {
		path  string
		class routeguard.RouteClass
	}{
		{"/", routeguard.Public},
		{"/threads/42", routeguard.Public},
		{"/login", routeguard.AuthOnly},
		{"/register", routeguard.AuthOnly},
		{"/dashboard", routeguard.Protected},
		{"/dashboard/users", routeguard.Protected},
		{"/threads/create", routeguard.Protected},
		{"/loginx", routeguard.Public},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.class, cfg.Classify(tt.path))
		})
	}
}

func TestRouteClass_String(t *testing.T) {
	assert.Equal(t, "public", routeguard.Public.String())
	assert.Equal(t, "protected", routeguard.Protected.String())
	assert.Equal(t, "auth-only", routeguard.AuthOnly.String())
}
