// Package folio serves a single-page personal portfolio built with Go, Echo
// and templ, and lets one configured admin edit its content in place.
//
// Sites may provide their own templ components via the ViewFuncs struct;
// folio handles the content store, sign-in, edit sessions and the contact
// form.
package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/contact"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/docstore"
	"github.com/eringen/folio/editor"
	"github.com/eringen/folio/identity"
	"github.com/eringen/folio/views"
)

// ViewFuncs holds the templ components folio calls when rendering pages.
// Nil entries fall back to the default views.
type ViewFuncs struct {
	Home        func(p views.Page) templ.Component
	Section     func(p views.Page, s content.Section) templ.Component
	Contact     func(p views.Page) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

func (v *ViewFuncs) setDefaults() {
	if v.Home == nil {
		v.Home = views.Home
	}
	if v.Section == nil {
		v.Section = views.Section
	}
	if v.Contact == nil {
		v.Contact = views.Contact
	}
	if v.NotFound == nil {
		v.NotFound = views.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = views.ServerError
	}
}

// App is the central folio application. It wires together the document
// store, the held site content, identity, edit sessions and templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   docstore.Store
	Content *content.Adapter
	Site    *editor.Site
	Auth    identity.Authenticator // nil when sign-in is unavailable
	Tokens  *identity.Tokens
	Contact *contact.Service
	Views   ViewFuncs

	defaults    content.Content
	hasDefaults bool
	adminEmail  string

	ownedStore     docstore.Store
	users          *identity.Users
	workspaces     *workspaces
	loginLimiter   *LoginLimiter
	contactLimiter *LoginLimiter
	customRoutes   []func(*App)
	staticDir      string
	initialized    bool
}

// New creates a new folio App with the given configuration and view functions.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.ApplyDefaults()
	v.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     v,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store and the user database, loads or seeds the content
// and registers middleware and routes. A store or user database that
// cannot be opened is logged and replaced so the page still renders.
func (a *App) Init(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}
	logger := a.Echo.Logger

	if !a.hasDefaults {
		a.defaults = content.Default()
		if a.Config.SeedPath != "" {
			seed, err := content.LoadSeed(a.Config.SeedPath)
			if err != nil {
				return fmt.Errorf("folio: %w", err)
			}
			a.defaults = seed
		}
	}
	a.adminEmail = a.Config.adminEmail(a.defaults)

	if a.Store == nil {
		store, err := docstore.Open(ctx, docstore.Options{
			Driver:   a.Config.StoreDriver,
			Path:     a.Config.DatabasePath,
			RedisURL: a.Config.RedisURL,
		})
		if err != nil {
			logger.Warnf("document store unavailable, serving default content: %v", err)
			a.Store = docstore.Unavailable{Cause: err}
		} else {
			a.ownedStore = store
			a.Store = store
		}
	}

	if a.Auth == nil && !a.Config.AuthDisabled {
		users, err := identity.NewUsers(a.Config.AuthDatabasePath)
		if err != nil {
			logger.Warnf("sign-in unavailable: %v", err)
		} else {
			a.users = users
			a.Auth = users
		}
	}
	if a.Auth != nil && a.adminEmail == "" {
		logger.Warnf("no admin email configured; nobody can edit the site")
	}

	a.Content = content.NewAdapter(a.Store, a.Config.AppID, a.Config.DocID)
	loaded, seeded, err := a.Content.LoadOrSeed(ctx, a.defaults)
	switch {
	case err != nil:
		logger.Warnf("load content from %s: %v", a.Content.Path(), err)
		loaded = a.defaults.Clone()
	case seeded:
		logger.Infof("seeded default content at %s", a.Content.Path())
	}
	a.Site = editor.NewSite(loaded, a.Content)

	a.Contact = contact.NewService(a.Store, a.Config.AppID)
	a.Tokens = identity.NewTokens(a.Config.TokenSecret, a.Config.TokenTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.contactLimiter = NewLoginLimiter(5, 10*time.Minute)
	a.workspaces = newWorkspaces(a.Site, a.Auth, a.adminEmail, a.Config.WorkspaceTTL, logger)

	a.setupMiddleware()
	a.setupRoutes()
	a.setupAPI()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.initialized = true
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(context.Background()); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets, then the embedded defaults.
	e.GET("/public/*", a.handleStatic)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.POST("/contact/", a.handleContact)

	// Admin routes
	e.POST("/admin/login/", a.handleLogin)
	e.POST("/admin/logout/", a.handleLogout)
	e.POST("/admin/edit/:section/", a.handleEditOpen)
	e.POST("/admin/draft/field/", a.handleDraftField)
	e.POST("/admin/draft/projects/", a.handleDraftAddProject)
	e.POST("/admin/draft/remove/:index/", a.handleDraftRemove)
	e.POST("/admin/draft/photo/", a.handleDraftPhoto)
	e.POST("/admin/draft/cancel/", a.handleDraftCancel)
	e.POST("/admin/draft/save/", a.handleDraftSave)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.workspaces != nil {
		a.workspaces.flush()
	}
	var errs []error
	if a.ownedStore != nil {
		errs = append(errs, a.ownedStore.Close())
	}
	if a.users != nil {
		errs = append(errs, a.users.Close())
	}
	return errors.Join(errs...)
}
