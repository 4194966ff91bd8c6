package mboardweb_test

import (
	"context"
	"time"

	"github.com/goliatone/go-router"
)

// routerContext aliases router.Context so it can be embedded without the
// field name colliding with the interface's Context() method.
type routerContext = router.Context

// fakeContext is a stateful router.Context test double. It embeds the
// interface so only the methods the session and controller paths touch
// need real behavior; anything else panics loudly if a test wanders
// into it.
type fakeContext struct {
	routerContext

	ctx     context.Context
	path    string
	method  string
	cookies map[string]string
	headers map[string]string
	queries map[string]string
	params  map[string]int
	locals  map[any]any

	bindErr     error
	bindPayload func(any)

	status         int
	redirectPath   string
	redirectStatus int
	renderedView   string
	renderedBind   any
	nextCalled     bool
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		ctx:     context.Background(),
		method:  "GET",
		path:    "/",
		cookies: map[string]string{},
		headers: map[string]string{},
		queries: map[string]string{},
		params:  map[string]int{},
		locals:  map[any]any{},
	}
}

func (f *fakeContext) Next() error {
	f.nextCalled = true
	return nil
}

func (f *fakeContext) Context() context.Context {
	if f.ctx == nil {
		return context.Background()
	}
	return f.ctx
}

func (f *fakeContext) SetContext(ctx context.Context) {
	f.ctx = ctx
}

func (f *fakeContext) Path() string {
	return f.path
}

func (f *fakeContext) Method() string {
	return f.method
}

func (f *fakeContext) Cookie(cookie *router.Cookie) {
	if cookie.Expires.Before(time.Now()) {
		delete(f.cookies, cookie.Name)
		return
	}
	f.cookies[cookie.Name] = cookie.Value
}

func (f *fakeContext) Cookies(key string, defaultValue ...string) string {
	if val, ok := f.cookies[key]; ok {
		return val
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) GetString(key string, defaultValue string) string {
	if val, ok := f.headers[key]; ok {
		return val
	}
	return defaultValue
}

func (f *fakeContext) Query(key string, defaultValue ...string) string {
	if val, ok := f.queries[key]; ok {
		return val
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) ParamsInt(key string, defaultValue int) int {
	if val, ok := f.params[key]; ok {
		return val
	}
	return defaultValue
}

func (f *fakeContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		f.locals[key] = value[0]
	}
	return f.locals[key]
}

func (f *fakeContext) Status(code int) router.Context {
	f.status = code
	return f
}

func (f *fakeContext) Render(name string, bind any, layout ...string) error {
	f.renderedView = name
	f.renderedBind = bind
	return nil
}

func (f *fakeContext) Redirect(path string, status ...int) error {
	f.redirectPath = path
	if len(status) > 0 {
		f.redirectStatus = status[0]
	}
	return nil
}

func (f *fakeContext) Bind(i any) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	if f.bindPayload != nil {
		f.bindPayload(i)
	}
	return nil
}

func (f *fakeContext) OriginalURL() string {
	return f.path
}
