package pubcollection

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eringen/pubcollection/placeholder"
)

// SiteConfig holds all configuration for a pubcollection site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`                         // Site name (default "Blog")
	URL         string `mapstructure:"url" validate:"required,url"`  // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"`                  // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`                       // Author name for JSON-LD

	Addr         string `mapstructure:"addr" validate:"required"`          // Listen address (default ":3000")
	DatabasePath string `mapstructure:"database_path" validate:"required"` // SQLite path (default "data/blog.db")
	ContentDir   string `mapstructure:"content_dir" validate:"required"`   // Markdown/MDX root (default "content/blog")
	StaticDir    string `mapstructure:"static_dir" validate:"required"`    // Public assets (default "public")

	AdminPassword string `mapstructure:"admin_password" validate:"required"`        // Required: admin login password
	SessionSecret string `mapstructure:"session_secret" validate:"required,min=16"` // Required: session encryption secret
	CookieSecure  bool   `mapstructure:"cookie_secure"`                             // Set true for HTTPS

	PostCacheTTL time.Duration `mapstructure:"post_cache_ttl"` // Post cache TTL (default 5min)

	Watch          bool `mapstructure:"watch"`   // Resync when the content dir changes
	MetricsEnabled bool `mapstructure:"metrics"` // Serve Prometheus metrics at /metrics

	LogLevel  string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"omitempty,oneof=json console"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/blog"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that required settings are present and well-formed.
func (c SiteConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("pubcollection: invalid config: %s", strings.Join(msgs, ", "))
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithPicker sets the placeholder picker used for posts without a cover.
func WithPicker(p *placeholder.Picker) Option {
	return func(a *App) {
		a.picker = p
	}
}
