package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/eringen/folio/docstore"
)

// ErrNotFound reports that the site has no content document yet.
var ErrNotFound = docstore.ErrNotFound

// Adapter reads and writes the content document at one fixed path.
type Adapter struct {
	store docstore.Store
	path  docstore.Path
}

// NewAdapter binds the adapter to the content document of appID.
func NewAdapter(store docstore.Store, appID, docID string) *Adapter {
	return &Adapter{store: store, path: docstore.ContentPath(appID, docID)}
}

// Path returns the document path the adapter reads and writes.
func (a *Adapter) Path() docstore.Path {
	return a.path
}

// Load fetches the document. It returns ErrNotFound when none exists and an
// error wrapping docstore.ErrUnavailable when the store fails.
func (a *Adapter) Load(ctx context.Context) (Content, error) {
	doc, err := a.store.GetDocument(ctx, a.path)
	if err != nil {
		return Content{}, err
	}
	var c Content
	if err := doc.Decode(&c); err != nil {
		return Content{}, fmt.Errorf("content: decode %s: %w", a.path, err)
	}
	return c.Clone(), nil
}

// Write replaces every field of the document with c.
func (a *Adapter) Write(ctx context.Context, c Content) error {
	c = c.Clone()
	err := a.store.UpdateDocument(ctx, a.path, map[string]any{
		"personalInfo":    c.PersonalInfo,
		"skillCategories": c.SkillCategories,
		"projects":        c.Projects,
	})
	if errors.Is(err, docstore.ErrNotFound) {
		err = a.store.SetDocument(ctx, a.path, c)
	}
	if err != nil {
		return fmt.Errorf("content: write %s: %w", a.path, err)
	}
	return nil
}

// LoadOrSeed loads the document, writing defaults first when none exists.
// A loaded document without a profile picture gets the default one.
func (a *Adapter) LoadOrSeed(ctx context.Context, defaults Content) (Content, bool, error) {
	c, err := a.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		seed := defaults.Clone()
		if err := a.store.SetDocument(ctx, a.path, seed); err != nil {
			return Content{}, false, fmt.Errorf("content: seed %s: %w", a.path, err)
		}
		return seed, true, nil
	}
	if err != nil {
		return Content{}, false, err
	}
	if c.PersonalInfo.ProfilePic == "" {
		c.PersonalInfo.ProfilePic = defaults.PersonalInfo.ProfilePic
	}
	return c, false, nil
}
