package folio

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"github.com/eringen/folio/editor"
	"github.com/eringen/folio/identity"
)

// workspace is one browser session's identity gate and edit controller.
type workspace struct {
	gate   *identity.Gate
	editor *editor.Controller
}

// workspaces keeps workspaces by session id and expires idle ones.
type workspaces struct {
	cache      *cache.Cache
	site       *editor.Site
	auth       identity.Authenticator
	adminEmail string
	logger     echo.Logger
}

func newWorkspaces(site *editor.Site, auth identity.Authenticator, adminEmail string, ttl time.Duration, logger echo.Logger) *workspaces {
	return &workspaces{
		cache:      cache.New(ttl, 2*ttl),
		site:       site,
		auth:       auth,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// get returns the workspace for sid, creating it on a miss, and brings its
// gate in line with the identity proven by the session cookie.
func (w *workspaces) get(ctx context.Context, sid string, id *identity.Identity) *workspace {
	var ws *workspace
	if v, ok := w.cache.Get(sid); ok {
		ws = v.(*workspace)
	} else {
		ws = w.create(sid)
		if err := w.cache.Add(sid, ws, cache.DefaultExpiration); err != nil {
			// Lost a race with a concurrent request for the same session.
			if v, ok := w.cache.Get(sid); ok {
				ws = v.(*workspace)
			}
		}
	}
	// Sliding expiration.
	w.cache.Set(sid, ws, cache.DefaultExpiration)

	cur, signedIn := ws.gate.Current()
	switch {
	case id == nil && signedIn:
		if err := ws.gate.SignOut(ctx); err != nil {
			w.logger.Warnf("session %s: sign out: %v", shortID(sid), err)
		}
	case id != nil && (!signedIn || cur != *id):
		ws.gate.Restore(*id)
	}
	return ws
}

func (w *workspaces) create(sid string) *workspace {
	gate := identity.NewGate(w.auth, w.adminEmail)
	ws := &workspace{gate: gate, editor: editor.NewController(w.site, gate)}
	gate.OnChange(func(ch identity.Change) {
		if ch.Admin {
			w.logger.Infof("session %s: admin %s signed in", shortID(sid), ch.Identity.Email)
			return
		}
		// Losing admin discards any open draft.
		if err := ws.editor.Cancel(); err != nil {
			w.logger.Warnf("session %s: discard draft: %v", shortID(sid), err)
		}
	})
	return ws
}

func (w *workspaces) remove(sid string) {
	w.cache.Delete(sid)
}

func (w *workspaces) flush() {
	w.cache.Flush()
}

func shortID(sid string) string {
	if len(sid) > 8 {
		return sid[:8]
	}
	return sid
}
