// Package contact stores messages sent through the site's contact form.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eringen/folio/docstore"
)

// Anonymous is the submitter id used when no identity system is active.
const Anonymous = "anonymous"

// ErrMissingField is returned when a required form field is blank.
var ErrMissingField = errors.New("contact: missing field")

// Form is what a visitor fills in.
type Form struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// Message is a stored submission.
type Message struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
	SubmitterID string    `json:"submitterId"`
}

// Validate checks that every field is present.
func (f Form) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(f.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// Service appends contact messages to the site's messages collection.
type Service struct {
	store docstore.Store
	path  docstore.Path
}

// NewService returns a Service writing to the messages collection of appID.
func NewService(store docstore.Store, appID string) *Service {
	return &Service{store: store, path: docstore.MessagesPath(appID)}
}

// Submit stores f. The creation time is assigned by the store; the
// returned Message carries the local clock as an approximation.
func (s *Service) Submit(ctx context.Context, submitterID string, f Form) (Message, error) {
	if err := f.Validate(); err != nil {
		return Message{}, err
	}
	if submitterID == "" {
		submitterID = Anonymous
	}
	id, err := s.store.AppendToCollection(ctx, s.path, map[string]any{
		"name":        f.Name,
		"email":       f.Email,
		"message":     f.Message,
		"createdAt":   docstore.ServerTimestamp,
		"submitterId": submitterID,
	})
	if err != nil {
		return Message{}, fmt.Errorf("contact: submit: %w", err)
	}
	return Message{
		ID:          id,
		Name:        f.Name,
		Email:       f.Email,
		Message:     f.Message,
		CreatedAt:   time.Now().UTC(),
		SubmitterID: submitterID,
	}, nil
}
