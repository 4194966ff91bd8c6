package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-router"
	mflash "github.com/goliatone/go-router/middleware/flash"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	mboardweb "github.com/mboardhq/go-mboard-web"
	"github.com/mboardhq/go-mboard-web/middleware/routeguard"
)

type App struct {
	config   *mboardweb.AppConfig
	bunDB    *bun.DB
	store    mboardweb.TokenStore
	sessions *mboardweb.SessionStore
	client   *mboardweb.DirectoryClient
	srv      router.Server[*fiber.App]
}

func main() {
	cfg, err := mboardweb.LoadConfig()
	if err != nil {
		panic(err)
	}

	app := &App{config: cfg}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	WithDirectory(app)
	WithHTTPServer(app)

	app.srv.Serve(cfg.Address)

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.config.DSN)
	if err != nil {
		return err
	}

	app.bunDB = bun.NewDB(db, sqlitedialect.New())

	store := mboardweb.NewBunTokenStore(app.bunDB)
	if err := store.CreateTable(ctx); err != nil {
		return err
	}

	app.store = store
	return nil
}

func WithDirectory(app *App) {
	app.client = mboardweb.NewDirectoryClient(app.config.GetDirectoryBaseURL())

	app.sessions = mboardweb.NewSessionStore(app.store, app.config,
		mboardweb.WithRevoker(app.client),
	)
}

func WithHTTPServer(app *App) {
	engine := django.New(app.config.ViewsDir, ".html")

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			PassLocalsToViews: true,
			Views:             engine,
		}))
	})

	srv.Router().Use(mflash.New(mflash.ConfigDefault))

	srv.Router().Use(routeguard.New(routeguard.Config{
		TokenCookie:       app.config.GetTokenCookieName(),
		AuthScheme:        app.config.GetAuthScheme(),
		ProtectedPrefixes: app.config.GetProtectedPrefixes(),
		AuthRoutes:        app.config.GetAuthRoutes(),
		LoginRoute:        app.config.GetLoginRoute(),
		HomeRoute:         app.config.GetHomeRoute(),
		ReturnParam:       app.config.GetReturnParam(),
	}))

	srv.Router().Use(mboardweb.SessionContext(app.sessions))

	directory := mboardweb.NewAdminDirectory(app.client, mboardweb.BearerSourceFunc(
		func(ctx context.Context) string {
			token, _ := mboardweb.BearerFromContext(ctx)
			return token
		},
	))

	mboardweb.RegisterWebRoutes(srv.Router().Group("/"),
		func(wc *mboardweb.WebController) *mboardweb.WebController {
			wc.Sessions = app.sessions
			wc.Client = app.client
			wc.Directory = directory
			wc.ReturnParam = app.config.GetReturnParam()
			return wc
		})

	app.srv = srv
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
