// Package pubcollection is a blog content collection served with Go, Echo,
// and templ. Markdown and MDX documents are read from a content directory,
// their frontmatter is validated, and the valid posts are stored in SQLite
// and served with RSS, sitemap, and an admin view of rejected documents.
//
// Users provide their own templ templates via the ViewFuncs struct,
// and pubcollection handles the handler logic, middleware, and storage.
package pubcollection

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/eringen/pubcollection/logging"
	"github.com/eringen/pubcollection/placeholder"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	Home           func(posts []BlogPost, activeTag string, tags []string, siteURL string) templ.Component
	Post           func(post BlogPost, series, related []BlogPost, siteURL string) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(posts []BlogPost, rejections []Rejection, message string, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central pubcollection application. It wires together the
// store, cache, content sync, handlers, middleware, and user templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs

	log          zerolog.Logger
	picker       *placeholder.Picker
	loginLimiter *LoginLimiter
	registry     *prometheus.Registry
	metrics      *metrics
	syncMu       sync.Mutex
	customRoutes []func(*App)
}

// New creates a new pubcollection App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	reg := prometheus.NewRegistry()
	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Views:    views,
		log:      logging.WithComponent("pubcollection"),
		picker:   placeholder.NewPicker(nil),
		registry: reg,
		metrics:  newMetrics(reg),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Open validates the configuration, opens the store and cache, and runs
// the first content sync. Start calls it; tests and the CLI may call it
// directly to get a ready App without serving.
func (a *App) Open(ctx context.Context) error {
	if err := a.Config.Validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("pubcollection: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if _, err := a.Sync(ctx); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start opens the App, optionally watches the content directory, and serves
// until ctx is cancelled or the server fails.
func (a *App) Start(ctx context.Context) error {
	if err := a.Open(ctx); err != nil {
		return err
	}

	if a.Config.Watch {
		go func() {
			if err := a.Watch(ctx); err != nil && ctx.Err() == nil {
				a.log.Error().Err(err).Msg("content watcher stopped")
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			a.log.Error().Err(err).Msg("shutdown")
		}
	}()

	a.log.Info().Str("addr", a.Config.Addr).Str("content", a.Config.ContentDir).Msg("listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.Static("/images", a.Config.StaticDir+"/images")
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/api/posts/", a.handleAPIPosts)
	e.GET("/api/rejections/", a.handleAPIRejections, a.requireAdmin)
	e.GET("/placeholder/", a.handlePlaceholder)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/*", a.handlePost)

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/sync/", a.handleAdminSync, a.requireAdmin)
	e.GET("/admin/preview/*", a.handleAdminPreview, a.requireAdmin)

	if a.Config.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
