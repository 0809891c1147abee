package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/eringen/folio/content"
)

var (
	ErrNotAdmin      = errors.New("editor: admin sign-in required")
	ErrNotEditing    = errors.New("editor: no section is open")
	ErrSaveInFlight  = errors.New("editor: save in progress")
	ErrNotApplicable = errors.New("editor: operation does not apply to this section")
)

// State is the controller's position in the edit cycle.
type State int

const (
	Viewing State = iota
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Authorizer reports whether the caller may edit right now.
type Authorizer interface {
	IsAdmin() bool
}

// Snapshot is a consistent view of a controller.
type Snapshot struct {
	State   State
	Section content.Section
	Draft   content.Draft // copy; nil while Viewing
}

// Controller runs one admin's edit session against a Site.
type Controller struct {
	site *Site
	auth Authorizer

	mu      sync.Mutex
	state   State
	section content.Section
	draft   content.Draft
}

// NewController returns a controller in the Viewing state.
func NewController(site *Site, auth Authorizer) *Controller {
	return &Controller{site: site, auth: auth}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Section returns the open section, if any.
func (c *Controller) Section() (content.Section, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.section, c.state != Viewing
}

// Draft returns a copy of the open draft.
func (c *Controller) Draft() (content.Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Viewing {
		return nil, ErrNotEditing
	}
	return c.draft.Clone(), nil
}

// Snapshot returns state, section and draft under one lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{State: c.state}
	if c.state != Viewing {
		s.Section = c.section
		s.Draft = c.draft.Clone()
	}
	return s
}

// Open starts editing sec with a fresh copy of the held content. Opening
// while another section is open replaces that draft.
func (c *Controller) Open(sec content.Section) error {
	if !sec.Valid() {
		return fmt.Errorf("%w: %q", content.ErrUnknownSection, sec)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Saving {
		return ErrSaveInFlight
	}
	if c.auth == nil || !c.auth.IsAdmin() {
		return ErrNotAdmin
	}
	d, err := c.site.Draft(sec)
	if err != nil {
		return err
	}
	c.state = Editing
	c.section = sec
	c.draft = d
	return nil
}

// SetField edits one field of the draft.
func (c *Controller) SetField(field, value string) error {
	return c.edit(func(d content.Draft) error {
		return d.Set(field, value)
	})
}

// AddProject appends a blank project to a projects draft.
func (c *Controller) AddProject() error {
	return c.edit(func(d content.Draft) error {
		p, ok := d.(*content.ProjectsDraft)
		if !ok {
			return fmt.Errorf("%w: add project to %s", ErrNotApplicable, d.Section())
		}
		p.Add()
		return nil
	})
}

// RemoveEntry deletes one entry from a skills or projects draft.
func (c *Controller) RemoveEntry(index int) error {
	return c.edit(func(d content.Draft) error {
		l, ok := d.(content.EntryList)
		if !ok {
			return fmt.Errorf("%w: remove entry from %s", ErrNotApplicable, d.Section())
		}
		return l.Remove(index)
	})
}

// SetDraft replaces the open draft. d must be for the open section.
func (c *Controller) SetDraft(d content.Draft) error {
	return c.edit(func(cur content.Draft) error {
		if d == nil || d.Section() != cur.Section() {
			return fmt.Errorf("%w: draft is not for %s", ErrNotApplicable, cur.Section())
		}
		c.draft = d.Clone()
		return nil
	})
}

// Cancel discards the draft without writing.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case Saving:
		return ErrSaveInFlight
	case Viewing:
		return nil
	}
	c.reset()
	return nil
}

// Save writes the held content with the draft's section replaced. On
// failure the controller stays in Editing with the draft intact.
func (c *Controller) Save(ctx context.Context) (content.Content, error) {
	c.mu.Lock()
	switch c.state {
	case Viewing:
		c.mu.Unlock()
		return content.Content{}, ErrNotEditing
	case Saving:
		c.mu.Unlock()
		return content.Content{}, ErrSaveInFlight
	}
	if c.auth == nil || !c.auth.IsAdmin() {
		c.mu.Unlock()
		return content.Content{}, ErrNotAdmin
	}
	c.state = Saving
	d := c.draft.Clone()
	c.mu.Unlock()

	saved, err := c.site.Commit(ctx, d)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = Editing
		return content.Content{}, err
	}
	c.reset()
	return saved, nil
}

func (c *Controller) edit(fn func(content.Draft) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case Viewing:
		return ErrNotEditing
	case Saving:
		return ErrSaveInFlight
	}
	return fn(c.draft)
}

func (c *Controller) reset() {
	c.state = Viewing
	c.section = ""
	c.draft = nil
}
