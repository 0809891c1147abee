package folio

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/contact"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/editor"
	"github.com/eringen/folio/views"
)

// pageState is the per-request part of a rendered page.
type pageState struct {
	loginError string
	message    string
	contact    views.ContactState
}

func (a *App) page(c echo.Context, st pageState) (views.Page, error) {
	ws, err := a.signedInWorkspace(c)
	if err != nil {
		return views.Page{}, err
	}
	cnt := a.Site.Content()
	p := views.Page{
		Site: views.SiteConfig{
			Name:        a.Config.Name,
			URL:         a.Config.URL,
			Description: a.Config.Description,
		},
		Meta: views.PageMeta{
			Title:       pageTitle(a.Config.Name, cnt),
			Description: a.Config.Description,
			URL:         BuildURL(a.Config.URL),
			Image:       absoluteURL(a.Config.URL, cnt.PersonalInfo.ProfilePic),
		},
		Content:     cnt,
		AuthEnabled: a.Auth != nil,
		LoginError:  st.loginError,
		Message:     st.message,
		Contact:     st.contact,
		CSRFToken:   CsrfToken(c),
	}
	if ws == nil {
		return p, nil
	}
	if id, ok := ws.gate.Current(); ok {
		p.SignedIn = true
		p.Email = id.Email
	}
	p.IsAdmin = ws.gate.IsAdmin()
	if p.IsAdmin {
		if snap := ws.editor.Snapshot(); snap.Draft != nil {
			p.Editor = &views.EditorState{
				Section: snap.Section,
				Draft:   snap.Draft,
				Saving:  snap.State == editor.Saving,
			}
		}
	}
	return p, nil
}

func pageTitle(site string, c content.Content) string {
	name := c.PersonalInfo.Name
	switch {
	case name == "":
		return site
	case c.PersonalInfo.Role == "":
		return name
	}
	return name + " · " + c.PersonalInfo.Role
}

func (a *App) renderHome(c echo.Context, st pageState) error {
	p, err := a.page(c, st)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(p))
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func (a *App) handleHome(c echo.Context) error {
	return a.renderHome(c, pageState{})
}

func (a *App) handleContact(c echo.Context) error {
	form := contact.Form{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Message: c.FormValue("message"),
	}
	st := pageState{}
	if !a.contactLimiter.Allow(c.RealIP()) {
		st.contact = views.ContactState{Form: form, Error: "Too many messages. Try again later."}
		return a.renderContact(c, http.StatusTooManyRequests, st)
	}

	_, err := a.Contact.Submit(c.Request().Context(), a.submitterID(c), form)
	switch {
	case errors.Is(err, contact.ErrMissingField):
		st.contact = views.ContactState{Form: form, Error: "Please fill in every field."}
		return a.renderContact(c, http.StatusUnprocessableEntity, st)
	case err != nil:
		c.Logger().Errorf("contact submit: %v", err)
		st.contact = views.ContactState{Form: form, Error: "Your message could not be sent. Please try again."}
		return a.renderContact(c, http.StatusServiceUnavailable, st)
	}
	// The form resets on success.
	st.contact = views.ContactState{Sent: true}
	return a.renderContact(c, http.StatusOK, st)
}

func (a *App) renderContact(c echo.Context, code int, st pageState) error {
	p, err := a.page(c, st)
	if err != nil {
		return err
	}
	if isHTMX(c) {
		return RenderStatus(c, code, a.Views.Contact(p))
	}
	return RenderStatus(c, code, a.Views.Home(p))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Site.UpdatedAt())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Site.Content(), a.Site.UpdatedAt())
}

// handleStatic serves the site's static dir, falling back to the embedded
// default assets.
func (a *App) handleStatic(c echo.Context) error {
	name := path.Clean("/" + c.Param("*"))
	if name == "/" {
		return echo.ErrNotFound
	}
	local := filepath.Join(a.staticDir, filepath.FromSlash(name))
	if fi, err := os.Stat(local); err == nil && !fi.IsDir() {
		return c.File(local)
	}
	return a.embeddedFile(c, strings.TrimPrefix(name, "/"))
}

func (a *App) embeddedFile(c echo.Context, name string) error {
	sub, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return err
	}
	if fi, err := fs.Stat(sub, name); err != nil || fi.IsDir() {
		return echo.ErrNotFound
	}
	http.ServeFileFS(c.Response(), c.Request(), sub, name)
	return nil
}

func (a *App) handleFavicon(c echo.Context) error {
	local := filepath.Join(a.staticDir, "favicon.svg")
	if _, err := os.Stat(local); err == nil {
		return c.File(local)
	}
	return a.embeddedFile(c, "favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	local := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(local); err == nil {
		return c.File(local)
	}
	body := "User-agent: *\nAllow: /\nDisallow: /admin/\nDisallow: /api/\n\nSitemap: " +
		strings.TrimSuffix(a.Config.URL, "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if isAPIPath(c.Request().URL.Path) {
		a.apiErrorHandler(err, c)
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
