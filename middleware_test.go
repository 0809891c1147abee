package folio

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestPathClassifiers(t *testing.T) {
	tests := []struct {
		path       string
		api, asset bool
	}{
		{"/api/content", true, false},
		{"/public/folio.css", false, true},
		{"/favicon.svg", false, true},
		{"/feed.xml", false, true},
		{"/admin/login", false, false},
		{"/", false, false},
	}
	for _, tt := range tests {
		if got := isAPIPath(tt.path); got != tt.api {
			t.Errorf("isAPIPath(%q) = %v", tt.path, got)
		}
		if got := isAssetPath(tt.path); got != tt.asset {
			t.Errorf("isAssetPath(%q) = %v", tt.path, got)
		}
	}
}

func TestCacheControl(t *testing.T) {
	e := echo.New()
	h := cacheControlMiddleware(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	tests := map[string]string{
		"/public/uploads/me.jpg": "public, max-age=86400",
		"/public/folio.css":      "public, max-age=31536000, immutable",
		"/sitemap.xml":           "public, max-age=3600",
		"/":                      "no-store",
	}
	for path, want := range tests {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), rec)
		if err := h(c); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if got := rec.Header().Get("Cache-Control"); got != want {
			t.Errorf("%s: Cache-Control = %q, want %q", path, got, want)
		}
	}
}

func TestCSRFCookieIssued(t *testing.T) {
	s := setupTestApp(t, nil)
	s.get(t, "/")
	if s.csrfToken(t) == "" {
		t.Fatalf("no %s cookie", csrfCookieName)
	}
}
