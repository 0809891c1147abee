// Package editor holds the site content in memory and drives admin edit
// sessions over it.
package editor

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/folio/content"
)

// Writer persists a whole content document. *content.Adapter implements it.
type Writer interface {
	Write(ctx context.Context, c content.Content) error
}

// Site is the in-memory content shown to visitors. Reads return deep
// copies; commits reach the Writer one at a time and replace the held
// content only after the write succeeded.
type Site struct {
	mu      sync.RWMutex
	content content.Content
	updated time.Time

	commitMu sync.Mutex
	writer   Writer
}

// NewSite returns a Site holding c and persisting through w.
func NewSite(c content.Content, w Writer) *Site {
	return &Site{content: c.Clone(), updated: time.Now(), writer: w}
}

// Content returns a copy of the held content.
func (s *Site) Content() content.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content.Clone()
}

// UpdatedAt returns when the held content last changed.
func (s *Site) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

// Draft returns an independent copy of one section.
func (s *Site) Draft(sec content.Section) (content.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content.DraftOf(sec)
}

// Replace swaps the held content without writing it, e.g. after a reload.
func (s *Site) Replace(c content.Content) {
	s.mu.Lock()
	s.content = c.Clone()
	s.updated = time.Now()
	s.mu.Unlock()
}

// Commit writes the held content with d's section replaced and, on
// success, holds the result.
func (s *Site) Commit(ctx context.Context, d content.Draft) (content.Content, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	updated := s.Content().With(d)
	if err := s.writer.Write(ctx, updated); err != nil {
		return content.Content{}, err
	}
	s.Replace(updated)
	return updated.Clone(), nil
}
