package docstore

import (
	"context"
	"fmt"
)

// Unavailable is a Store whose every call fails with ErrUnavailable. It
// stands in for a backend that could not be opened so the site can still
// render its default content.
type Unavailable struct {
	Cause error
}

func (u Unavailable) err() error {
	if u.Cause == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, u.Cause)
}

func (u Unavailable) GetDocument(context.Context, Path) (Document, error) {
	return Document{}, u.err()
}

func (u Unavailable) SetDocument(context.Context, Path, any) error {
	return u.err()
}

func (u Unavailable) UpdateDocument(context.Context, Path, map[string]any) error {
	return u.err()
}

func (u Unavailable) AppendToCollection(context.Context, Path, map[string]any) (string, error) {
	return "", u.err()
}

func (u Unavailable) Close() error { return nil }
