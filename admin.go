package folio

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/identity"
)

const sessionName = "folio_session"

const workspaceKey = "folio.workspace"

func getSession(c echo.Context) (*sessions.Session, error) {
	return session.Get(sessionName, c)
}

// sessionID returns the visitor's session id, issuing one on first use.
// Signed-out visitors are identified by it as contact submitters.
func sessionID(c echo.Context) (string, error) {
	sess, err := getSession(c)
	if err != nil {
		return "", err
	}
	if sid, ok := sess.Values["sid"].(string); ok && sid != "" {
		return sid, nil
	}
	sid := uuid.NewString()
	sess.Values["sid"] = sid
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", err
	}
	return sid, nil
}

// sessionIdentity returns the identity stored at sign-in, if any.
func sessionIdentity(c echo.Context) *identity.Identity {
	sess, err := getSession(c)
	if err != nil {
		return nil
	}
	uid, _ := sess.Values["uid"].(string)
	email, _ := sess.Values["email"].(string)
	if uid == "" {
		return nil
	}
	return &identity.Identity{UID: uid, Email: email}
}

func setSessionIdentity(c echo.Context, id identity.Identity) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	sess.Values["uid"] = id.UID
	sess.Values["email"] = id.Email
	return sess.Save(c.Request(), c.Response())
}

func clearSessionIdentity(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	delete(sess.Values, "uid")
	delete(sess.Values, "email")
	return sess.Save(c.Request(), c.Response())
}

// workspace returns the request's workspace, memoized on the context.
func (a *App) workspace(c echo.Context) (*workspace, error) {
	if ws, ok := c.Get(workspaceKey).(*workspace); ok {
		return ws, nil
	}
	sid, err := sessionID(c)
	if err != nil {
		return nil, err
	}
	ws := a.workspaces.get(c.Request().Context(), sid, sessionIdentity(c))
	c.Set(workspaceKey, ws)
	return ws, nil
}

// signedInWorkspace returns the workspace of a session that carries an
// identity, and nil for anonymous visitors, who never get one.
func (a *App) signedInWorkspace(c echo.Context) (*workspace, error) {
	if sessionIdentity(c) == nil {
		return nil, nil
	}
	return a.workspace(c)
}

// IsAdmin reports whether the request's session belongs to the admin.
func (a *App) IsAdmin(c echo.Context) bool {
	ws, err := a.signedInWorkspace(c)
	if err != nil || ws == nil {
		return false
	}
	return ws.gate.IsAdmin()
}

// submitterID identifies the sender of a contact message: the signed-in
// uid, else the anonymous session id, else "anonymous" when sign-in is off.
func (a *App) submitterID(c echo.Context) string {
	if a.Auth == nil {
		return ""
	}
	if id := sessionIdentity(c); id != nil {
		return id.UID
	}
	sid, err := sessionID(c)
	if err != nil {
		return ""
	}
	return sid
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	// The session's workspace follows the new identity on the next request.
	gate := identity.NewGate(a.Auth, a.adminEmail)
	err := gate.SignIn(c.Request().Context(), c.FormValue("email"), c.FormValue("password"))
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		a.loginLimiter.Record(ip)
		return a.renderHome(c, pageState{loginError: "Invalid email or password."})
	case errors.Is(err, identity.ErrAuthUnavailable):
		return a.renderHome(c, pageState{loginError: "Sign-in is not available."})
	case err != nil:
		return err
	}
	id, _ := gate.Current()
	if err := setSessionIdentity(c, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleLogout(c echo.Context) error {
	ws, err := a.signedInWorkspace(c)
	if err != nil {
		return err
	}
	if ws != nil {
		if err := ws.gate.SignOut(c.Request().Context()); err != nil {
			return err
		}
	}
	if err := clearSessionIdentity(c); err != nil {
		return err
	}
	if sid, err := sessionID(c); err == nil {
		a.workspaces.remove(sid)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(csrfContextKey).(string)
	return token
}
