package folio

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/cors"

	"github.com/eringen/folio/contact"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/docstore"
	"github.com/eringen/folio/editor"
	"github.com/eringen/folio/identity"
)

const maxDraftBody = 1 << 20

type apiError struct {
	Error string `json:"error"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token   string `json:"token"`
	UID     string `json:"uid"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type contentResponse struct {
	Content   content.Content `json:"content"`
	UpdatedAt string          `json:"updatedAt"`
}

// corsMiddleware applies CORS to /api/ requests, answering preflights
// before routing. Without configured origins the API is same-origin only.
func (a *App) corsMiddleware() echo.MiddlewareFunc {
	if len(a.Config.CORSOrigins) == 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	cc := cors.New(cors.Options{
		AllowedOrigins: a.Config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         600,
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !isAPIPath(c.Request().URL.Path) {
				return next(c)
			}
			var err error
			cc.ServeHTTP(c.Response(), c.Request(), func(w http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)
				err = next(c)
			})
			return err
		}
	}
}

func (a *App) setupAPI() {
	g := a.Echo.Group("/api")
	g.GET("/content", a.handleAPIContent)
	g.POST("/auth/signin", a.handleAPISignIn)
	g.PUT("/content/:section", a.handleAPISaveSection)
	g.POST("/contact", a.handleAPIContact)
}

// bearerIdentity returns the identity of a valid bearer token, nil when
// the request carries none.
func (a *App) bearerIdentity(c echo.Context) (*identity.Identity, error) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return nil, nil
	}
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	id, err := a.Tokens.Parse(strings.TrimSpace(tok))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (a *App) handleAPIContent(c echo.Context) error {
	return c.JSON(http.StatusOK, contentResponse{
		Content:   a.Site.Content(),
		UpdatedAt: a.Site.UpdatedAt().UTC().Format(time.RFC3339),
	})
}

func (a *App) handleAPISignIn(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many sign-in attempts")
	}
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	gate := identity.NewGate(a.Auth, a.adminEmail)
	if err := gate.SignIn(c.Request().Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			a.loginLimiter.Record(ip)
		}
		return err
	}
	id, _ := gate.Current()
	tok, err := a.Tokens.Issue(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, signInResponse{
		Token:   tok,
		UID:     id.UID,
		Email:   id.Email,
		IsAdmin: gate.IsAdmin(),
	})
}

// handleAPISaveSection replaces one section with the request body: open,
// replace the draft, save.
func (a *App) handleAPISaveSection(c echo.Context) error {
	sec, err := content.ParseSection(c.Param("section"))
	if err != nil {
		return err
	}
	id, err := a.bearerIdentity(c)
	if err != nil {
		return err
	}
	gate := identity.NewGate(a.Auth, a.adminEmail)
	if id != nil {
		gate.Restore(*id)
	}
	ctrl := editor.NewController(a.Site, gate)
	if err := ctrl.Open(sec); err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxDraftBody))
	if err != nil {
		return err
	}
	d, err := content.DecodeDraft(sec, body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := ctrl.SetDraft(d); err != nil {
		return err
	}
	saved, err := ctrl.Save(c.Request().Context())
	if err != nil {
		return err
	}
	c.Logger().Infof("api: %s saved section %s", id.Email, sec)
	return c.JSON(http.StatusOK, contentResponse{
		Content:   saved,
		UpdatedAt: a.Site.UpdatedAt().UTC().Format(time.RFC3339),
	})
}

func (a *App) handleAPIContact(c echo.Context) error {
	if !a.contactLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many messages")
	}
	var form contact.Form
	if err := c.Bind(&form); err != nil {
		return err
	}
	submitter := ""
	if id, err := a.bearerIdentity(c); err == nil && id != nil {
		submitter = id.UID
	}
	msg, err := a.Contact.Submit(c.Request().Context(), submitter, form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}

func apiStatus(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, editor.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, editor.ErrSaveInFlight):
		return http.StatusConflict
	case errors.Is(err, content.ErrUnknownSection),
		errors.Is(err, content.ErrUnknownField),
		errors.Is(err, content.ErrIndexOutOfRange),
		errors.Is(err, editor.ErrNotApplicable),
		errors.Is(err, contact.ErrMissingField):
		return http.StatusBadRequest
	case errors.Is(err, docstore.ErrUnavailable),
		errors.Is(err, identity.ErrAuthUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (a *App) apiErrorHandler(err error, c echo.Context) {
	code := apiStatus(err)
	msg := http.StatusText(code)
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	case code < 500:
		msg = err.Error()
	}
	if code >= 500 {
		c.Logger().Errorf("api: %v", err)
	}
	if err := c.JSON(code, apiError{Error: msg}); err != nil {
		c.Logger().Errorf("api: write error: %v", err)
	}
}
