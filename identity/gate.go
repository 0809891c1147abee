package identity

import (
	"context"
	"sync"
)

// Change is delivered to OnChange listeners.
type Change struct {
	Identity *Identity // nil when signed out
	Admin    bool
}

// Gate holds the current identity and derives the admin flag from it. A
// Gate with a nil Authenticator never reports an admin.
type Gate struct {
	auth       Authenticator
	adminEmail string

	mu        sync.RWMutex
	current   *Identity
	admin     bool
	listeners map[int]func(Change)
	nextID    int
}

// NewGate returns a signed-out gate that grants admin to adminEmail.
func NewGate(auth Authenticator, adminEmail string) *Gate {
	return &Gate{
		auth:       auth,
		adminEmail: adminEmail,
		listeners:  make(map[int]func(Change)),
	}
}

// IsAdmin reports whether the current identity's email is exactly the
// admin email.
func (g *Gate) IsAdmin() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.admin
}

// Current returns the signed-in identity, if any.
func (g *Gate) Current() (Identity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return Identity{}, false
	}
	return *g.current, true
}

// SignIn authenticates with email and password and makes the result the
// current identity. On failure the gate is left unchanged.
func (g *Gate) SignIn(ctx context.Context, email, password string) error {
	if g.auth == nil {
		return ErrAuthUnavailable
	}
	id, err := g.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	g.set(&id)
	return nil
}

// SignOut clears the current identity.
func (g *Gate) SignOut(ctx context.Context) error {
	cur, ok := g.Current()
	if ok && g.auth != nil {
		if err := g.auth.SignOut(ctx, cur); err != nil {
			return err
		}
	}
	g.set(nil)
	return nil
}

// Restore sets an identity that was already proven elsewhere, such as a
// signed session cookie or API token.
func (g *Gate) Restore(id Identity) {
	g.set(&id)
}

// OnChange registers fn and calls it right away with the current state,
// then after every identity change. The returned func unregisters it.
func (g *Gate) OnChange(fn func(Change)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	ch := g.changeLocked()
	g.mu.Unlock()

	fn(ch)
	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

func (g *Gate) set(id *Identity) {
	g.mu.Lock()
	g.current = id
	g.admin = id != nil && g.auth != nil && g.adminEmail != "" && id.Email == g.adminEmail
	ch := g.changeLocked()
	fns := make([]func(Change), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(ch)
	}
}

func (g *Gate) changeLocked() Change {
	ch := Change{Admin: g.admin}
	if g.current != nil {
		id := *g.current
		ch.Identity = &id
	}
	return ch
}
