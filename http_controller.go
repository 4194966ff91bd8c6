package mboardweb

import (
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

// SessionContext decodes the session token on every request and exposes
// it to handlers: claims in the router locals, the raw bearer in the
// standard context. Decoding never fails a request; a garbage token
// just yields no claims.
func SessionContext(sessions *SessionStore) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if token := sessions.AccessToken(ctx); token != "" {
				ctx.SetContext(WithBearerContext(ctx.Context(), token))
				if claims := DecodeToken(token); claims != nil {
					SetRouterClaims(ctx, claims)
				}
			}
			return ctx.Next()
		}
	}
}

func RegisterWebRoutes[T any](app router.Router[T], opts ...WebControllerOption) {

	controller := NewWebController(opts...)

	app.Get(controller.Routes.Home, controller.Home).SetName("home.get")

	app.Get(controller.Routes.Thread, controller.ThreadShow).SetName("thread.get")

	app.
		Get(controller.Routes.ThreadCreate, controller.ThreadCreateShow).
		SetName("thread-create.get")
	app.
		Post(controller.Routes.ThreadCreate, controller.ThreadCreatePost).
		SetName("thread-create.post")

	app.
		Get(controller.Routes.Login, controller.LoginShow).
		SetName("sign-in.get")
	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("sign-in.post")

	app.Get(controller.Routes.Logout, controller.LogOut).SetName("sign-out.get")

	app.Get(controller.Routes.Register, controller.RegistrationShow).
		SetName("register.get")
	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("register.post")

	app.Get(controller.Routes.Dashboard, controller.Dashboard).
		SetName("dashboard.get")

	app.Post(controller.Routes.Users, controller.UserCreate).
		SetName("users.post")
	app.Post(fmt.Sprintf("%s/:id", controller.Routes.Users), controller.UserUpdate).
		SetName("users-update.post")
	app.Post(fmt.Sprintf("%s/:id/delete", controller.Routes.Users), controller.UserDelete).
		SetName("users-delete.post")
}

type WebControllerRoutes struct {
	Home         string
	Thread       string
	ThreadCreate string
	Login        string
	Logout       string
	Register     string
	Dashboard    string
	Users        string
}

type WebControllerViews struct {
	Home         string
	Thread       string
	ThreadCreate string
	Login        string
	Register     string
	Dashboard    string
	AccessDenied string
}

type WebController struct {
	Logger       Logger
	Sessions     *SessionStore
	Client       DirectoryAPI
	Directory    *AdminDirectory
	Feed         *Feed
	Routes       *WebControllerRoutes
	Views        *WebControllerViews
	ReturnParam  string
	ErrorHandler router.ErrorHandler
}

type WebControllerOption func(*WebController) *WebController

func NewWebController(opts ...WebControllerOption) *WebController {
	c := &WebController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		ReturnParam:  "from",
		Routes: &WebControllerRoutes{
			Home:         "/",
			Thread:       "/threads/:id",
			ThreadCreate: "/threads/create",
			Login:        "/login",
			Logout:       "/logout",
			Register:     "/register",
			Dashboard:    "/dashboard",
			Users:        "/dashboard/users",
		},
		Views: &WebControllerViews{
			Home:         "home",
			Thread:       "thread",
			ThreadCreate: "thread_create",
			Login:        "login",
			Register:     "register",
			Dashboard:    "dashboard",
			AccessDenied: "access_denied",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Sessions == nil {
		panic("Missing SessionStore in web controller...")
	}

	if c.Client == nil {
		panic("Missing DirectoryAPI in web controller...")
	}

	if c.Directory == nil {
		panic("Missing AdminDirectory in web controller...")
	}

	if c.Feed == nil {
		c.Feed = NewFeed()
	}

	return c
}

func (a *WebController) Home(ctx router.Context) error {
	return ctx.Render(a.Views.Home, MergeTemplateData(ctx, router.ViewContext{
		"threads": a.Feed.Threads(),
	}))
}

func (a *WebController) ThreadShow(ctx router.Context) error {
	id := ctx.ParamsInt("id", 0)

	thread, ok := a.Feed.Thread(int64(id))
	if !ok {
		return ctx.Status(http.StatusNotFound).Render("errors/404", MergeTemplateData(ctx, router.ViewContext{
			"message": fmt.Sprintf("Thread #%d not found", id),
		}))
	}

	return ctx.Render(a.Views.Thread, MergeTemplateData(ctx, router.ViewContext{
		"thread": thread,
	}))
}

func (a *WebController) ThreadCreateShow(ctx router.Context) error {
	return ctx.Render(a.Views.ThreadCreate, MergeTemplateData(ctx, router.ViewContext{
		"errors": nil,
		"record": nil,
	}))
}

// ThreadCreatePayload is the new-thread form
type ThreadCreatePayload struct {
	Content string `form:"content" json:"content"`
}

// Validate will run validation rules
func (r ThreadCreatePayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(
				&r.Content,
				validation.Required,
				validation.Length(1, 500),
			),
		)
	}, "Invalid thread payload")
}

func (a *WebController) ThreadCreatePost(ctx router.Context) error {
	payload := new(ThreadCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Message,
			"system_message": "Error validating payload",
		}).Render(a.Views.ThreadCreate, MergeTemplateData(ctx, router.ViewContext{
			"record":     payload,
			"validation": err.ValidationMap(),
		}))
	}

	author := "anonymous"
	if claims, ok := GetRouterClaims(ctx); ok {
		author = claims.DisplayName()
	}

	thread := a.Feed.Add(author, payload.Content)

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Thread posted",
	}).Redirect(fmt.Sprintf("/threads/%d", thread.ID), fiber.StatusSeeOther)
}

func (a *WebController) LoginShow(ctx router.Context) error {
	return ctx.Render(a.Views.Login, MergeTemplateData(ctx, router.ViewContext{
		"errors": nil,
		"record": nil,
		"from":   ctx.Query(a.ReturnParam, ""),
	}))
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	From     string `form:"from" json:"from"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(
				&r.Username,
				validation.Required,
			),
			validation.Field(
				&r.Password,
				validation.Required,
			),
		)
	}, "Invalid login request payload")
}

func (a *WebController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Login, MergeTemplateData(ctx, router.ViewContext{
			"record": payload,
		}))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Message,
			"system_message": "Error validating payload",
		}).Render(a.Views.Login, MergeTemplateData(ctx, router.ViewContext{
			"record":     payload,
			"validation": err.ValidationMap(),
			"from":       payload.From,
		}))
	}

	tokens, err := a.Client.Login(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		a.Logger.Error("login directory call: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  messageOf(err),
			"system_message": "Authentication Error",
		}).Status(fiber.StatusUnauthorized).Render(a.Views.Login, MergeTemplateData(ctx, router.ViewContext{
			"record": payload,
			"errors": map[string]string{"authentication": messageOf(err)},
			"from":   payload.From,
		}))
	}

	if err := a.Sessions.SaveSession(ctx, tokens.AccessToken, tokens.RefreshToken); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Redirect(sanitizeReturnPath(payload.From), router.StatusSeeOther)
}

func (a *WebController) LogOut(ctx router.Context) error {
	a.Sessions.ClearSession(ctx)
	return ctx.Redirect("/", router.StatusTemporaryRedirect)
}

func (a *WebController) RegistrationShow(ctx router.Context) error {
	return ctx.Render(a.Views.Register, MergeTemplateData(ctx, router.ViewContext{
		"errors": map[string]string{},
		"record": RegistrationCreatePayload{},
	}))
}

// RegistrationCreatePayload is the form paylaod
type RegistrationCreatePayload struct {
	Username        string `form:"username" json:"username"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Username, validation.Required, validation.Length(3, 30)),
			validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
			validation.Field(
				&r.ConfirmPassword,
				validation.Required,
				validation.By(ValidateStringEquals(r.Password)),
			),
		)
	}, "Invalid registration payload")
}

func (a *WebController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Register, MergeTemplateData(ctx, router.ViewContext{
			"errors": map[string]string{"form": "Failed to parse form"},
			"record": payload,
		}))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Message,
			"system_message": "Error validating payload",
		}).Render(a.Views.Register, MergeTemplateData(ctx, router.ViewContext{
			"record":     payload,
			"validation": err.ValidationMap(),
		}))
	}

	tokens, err := a.Client.Register(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		a.Logger.Error("register directory call: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  messageOf(err),
			"system_message": "Registration Error",
		}).Render(a.Views.Register, MergeTemplateData(ctx, router.ViewContext{
			"record": payload,
			"errors": map[string]string{"registration": messageOf(err)},
		}))
	}

	if err := a.Sessions.SaveSession(ctx, tokens.AccessToken, tokens.RefreshToken); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Successful user registration",
	}).Redirect("/", fiber.StatusSeeOther)
}

// Dashboard renders the admin console. A signed-in non-admin gets the
// access-denied view rather than a redirect.
func (a *WebController) Dashboard(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx)
	if !ok || !claims.IsAdmin() {
		return ctx.Status(http.StatusForbidden).Render(a.Views.AccessDenied, MergeTemplateData(ctx, router.ViewContext{}))
	}

	if _, err := a.Directory.List(ctx.Context()); err != nil {
		a.Logger.Error("dashboard list: ", "error", err)
	}

	return ctx.Render(a.Views.Dashboard, MergeTemplateData(ctx, router.ViewContext{
		"users":   a.Directory.Users(),
		"busy":    a.Directory.Busy(),
		"message": a.Directory.Message(),
	}))
}

func (a *WebController) UserCreate(ctx router.Context) error {
	if ok, err := a.requireAdmin(ctx); !ok {
		return err
	}

	payload := CreateUserPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Directory.Create(ctx.Context(), payload); err != nil {
		a.Logger.Error("user create: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  a.Directory.Message(),
			"system_message": "Error creating user",
		}).Redirect(a.Routes.Dashboard, fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": a.Directory.Message(),
	}).Redirect(a.Routes.Dashboard, fiber.StatusSeeOther)
}

// UserUpdatePayload is the role/status edit form
type UserUpdatePayload struct {
	Role   string `form:"role" json:"role"`
	Status string `form:"status" json:"status"`
}

func (a *WebController) UserUpdate(ctx router.Context) error {
	if ok, err := a.requireAdmin(ctx); !ok {
		return err
	}

	id := ctx.ParamsInt("id", 0)

	payload := UserUpdatePayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	update := UserUpdate{}
	if payload.Role != "" {
		role := UserRole(payload.Role)
		update.Role = &role
	}
	if payload.Status != "" {
		status := UserStatus(payload.Status)
		update.Status = &status
	}

	if err := a.Directory.Update(ctx.Context(), int64(id), update); err != nil {
		a.Logger.Error("user update: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  a.Directory.Message(),
			"system_message": "Error updating user",
		}).Redirect(a.Routes.Dashboard, fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": a.Directory.Message(),
	}).Redirect(a.Routes.Dashboard, fiber.StatusSeeOther)
}

// UserDeletePayload is the delete form. The confirmation box is the
// destructive-action gate; without it the delete never starts.
type UserDeletePayload struct {
	Username string `form:"username" json:"username"`
	Confirm  string `form:"confirm" json:"confirm"`
}

func (a *WebController) UserDelete(ctx router.Context) error {
	if ok, err := a.requireAdmin(ctx); !ok {
		return err
	}

	id := ctx.ParamsInt("id", 0)

	payload := UserDeletePayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	confirmed := payload.Confirm == "yes" || payload.Confirm == "on" || payload.Confirm == "true"
	confirm := ConfirmerFunc(func(username string) bool {
		return confirmed
	})

	if err := a.Directory.Delete(ctx.Context(), int64(id), payload.Username, confirm); err != nil {
		a.Logger.Error("user delete: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  a.Directory.Message(),
			"system_message": "Error deleting user",
		}).Redirect(a.Routes.Dashboard, fiber.StatusSeeOther)
	}

	if !confirmed {
		return ctx.Redirect(a.Routes.Dashboard, router.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": a.Directory.Message(),
	}).Redirect(a.Routes.Dashboard, fiber.StatusSeeOther)
}

func (a *WebController) requireAdmin(ctx router.Context) (bool, error) {
	claims, ok := GetRouterClaims(ctx)
	if !ok {
		return false, ctx.Status(http.StatusUnauthorized).Render(a.Views.AccessDenied, MergeTemplateData(ctx, router.ViewContext{}))
	}
	if !claims.IsAdmin() {
		return false, ctx.Status(http.StatusForbidden).Render(a.Views.AccessDenied, MergeTemplateData(ctx, router.ViewContext{}))
	}
	return true, nil
}

// sanitizeReturnPath keeps login redirects on-site: relative paths
// only, no protocol-relative tricks.
func sanitizeReturnPath(from string) string {
	if from == "" {
		return "/"
	}
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return "/"
	}
	return from
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match", errors.CategoryValidation)
		}
		return nil
	}
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
