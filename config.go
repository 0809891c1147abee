package folio

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/docstore"
	"github.com/eringen/folio/identity"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Portfolio")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Meta and RSS description

	Addr string `yaml:"addr"` // Listen address (default ":3000")

	AppID string `yaml:"app_id"` // Document namespace (default "folio")
	DocID string `yaml:"doc_id"` // Content document id (default "main")

	StoreDriver  string `yaml:"store_driver"`  // "sqlite" (default) or "redis"
	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/folio.db")
	RedisURL     string `yaml:"redis_url"`     // Used when StoreDriver is "redis"
	SeedPath     string `yaml:"seed_path"`     // Optional YAML/JSON default content

	AuthDisabled     bool   `yaml:"auth_disabled"`      // Run without sign-in; nobody is admin
	AuthDatabasePath string `yaml:"auth_database_path"` // Users SQLite path (default "data/auth.db")
	AdminEmail       string `yaml:"admin_email"`        // Defaults to the default content's email

	SessionSecret string        `yaml:"session_secret"` // Required: cookie signing secret
	CookieSecure  bool          `yaml:"cookie_secure"`  // Set true for HTTPS
	TokenSecret   string        `yaml:"token_secret"`   // API token secret (default SessionSecret)
	TokenTTL      time.Duration `yaml:"token_ttl"`      // API token lifetime (default 12h)

	CORSOrigins  []string      `yaml:"cors_origins"`  // Origins allowed to call /api/ (default none)
	WorkspaceTTL time.Duration `yaml:"workspace_ttl"` // Idle edit session lifetime (default 30m)
}

// ApplyDefaults fills every unset field with its default.
func (c *SiteConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.AppID == "" {
		c.AppID = "folio"
	}
	if c.DocID == "" {
		c.DocID = "main"
	}
	if c.StoreDriver == "" {
		c.StoreDriver = docstore.DriverSQLite
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.AuthDatabasePath == "" {
		c.AuthDatabasePath = "data/auth.db"
	}
	if c.TokenSecret == "" {
		c.TokenSecret = c.SessionSecret
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 12 * time.Hour
	}
	if c.WorkspaceTTL == 0 {
		c.WorkspaceTTL = 30 * time.Minute
	}
}

// adminEmail returns the configured admin email, falling back to the
// contact email of the default content.
func (c *SiteConfig) adminEmail(defaults content.Content) string {
	if c.AdminEmail != "" {
		return c.AdminEmail
	}
	return defaults.PersonalInfo.Social.EmailAddress()
}

// LoadConfig reads a YAML config file, when path is not empty, and applies
// FOLIO_* environment overrides on top.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *SiteConfig) error {
	str := map[string]*string{
		"FOLIO_NAME":               &cfg.Name,
		"FOLIO_URL":                &cfg.URL,
		"FOLIO_DESCRIPTION":        &cfg.Description,
		"FOLIO_ADDR":               &cfg.Addr,
		"FOLIO_APP_ID":             &cfg.AppID,
		"FOLIO_DOC_ID":             &cfg.DocID,
		"FOLIO_STORE_DRIVER":       &cfg.StoreDriver,
		"FOLIO_DATABASE_PATH":      &cfg.DatabasePath,
		"FOLIO_REDIS_URL":          &cfg.RedisURL,
		"FOLIO_SEED_PATH":          &cfg.SeedPath,
		"FOLIO_AUTH_DATABASE_PATH": &cfg.AuthDatabasePath,
		"FOLIO_ADMIN_EMAIL":        &cfg.AdminEmail,
		"FOLIO_SESSION_SECRET":     &cfg.SessionSecret,
		"FOLIO_TOKEN_SECRET":       &cfg.TokenSecret,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	flags := map[string]*bool{
		"FOLIO_AUTH_DISABLED": &cfg.AuthDisabled,
		"FOLIO_COOKIE_SECURE": &cfg.CookieSecure,
	}
	for key, dst := range flags {
		if v, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	durations := map[string]*time.Duration{
		"FOLIO_TOKEN_TTL":     &cfg.TokenTTL,
		"FOLIO_WORKSPACE_TTL": &cfg.WorkspaceTTL,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	if v, ok := os.LookupEnv("FOLIO_CORS_ORIGINS"); ok {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	return nil
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

// WithStaticDir sets the directory for user-owned static assets (default "public").
// Uploaded profile pictures are written below it.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithStore uses s instead of opening the configured document store. The
// App does not close it.
func WithStore(s docstore.Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithAuthenticator uses auth instead of the SQLite user database.
func WithAuthenticator(auth identity.Authenticator) Option {
	return func(a *App) {
		a.Auth = auth
	}
}

// WithDefaultContent sets the content seeded into an empty store.
func WithDefaultContent(c content.Content) Option {
	return func(a *App) {
		a.defaults = c.Clone()
		a.hasDefaults = true
	}
}
