package folio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/folio/content"
)

func TestLoadConfigYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	yml := `name: Jane Doe
url: https://jane.example
store_driver: redis
redis_url: redis://localhost:6379/0
token_ttl: 2h
cors_origins:
  - https://app.example
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOLIO_SESSION_SECRET", "s3cret")
	t.Setenv("FOLIO_COOKIE_SECURE", "true")
	t.Setenv("FOLIO_WORKSPACE_TTL", "5m")
	t.Setenv("FOLIO_CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "Jane Doe" || cfg.URL != "https://jane.example" {
		t.Errorf("site = %q %q", cfg.Name, cfg.URL)
	}
	if cfg.StoreDriver != "redis" || cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("store = %q %q", cfg.StoreDriver, cfg.RedisURL)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.SessionSecret != "s3cret" || !cfg.CookieSecure || cfg.WorkspaceTTL != 5*time.Minute {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("FOLIO_TOKEN_TTL", "soon")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := SiteConfig{SessionSecret: "s"}
	cfg.ApplyDefaults()

	if cfg.Addr != ":3000" || cfg.AppID != "folio" || cfg.DocID != "main" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.TokenSecret != "s" {
		t.Errorf("TokenSecret should default to SessionSecret, got %q", cfg.TokenSecret)
	}
	if got := cfg.adminEmail(content.Default()); got != "admin@example.com" {
		t.Errorf("admin email fallback = %q", got)
	}
	cfg.AdminEmail = "owner@example.com"
	if got := cfg.adminEmail(content.Default()); got != "owner@example.com" {
		t.Errorf("admin email = %q", got)
	}
}
