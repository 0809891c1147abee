// Package docstore is the document database behind a folio site: one JSON
// document per path plus append-only record collections.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no document exists at a path.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrUnavailable wraps every failure of the backing store itself.
	ErrUnavailable = errors.New("docstore: store unavailable")
)

// Store reads and writes documents and appends records to collections.
type Store interface {
	GetDocument(ctx context.Context, path Path) (Document, error)
	SetDocument(ctx context.Context, path Path, v any) error
	UpdateDocument(ctx context.Context, path Path, fields map[string]any) error
	AppendToCollection(ctx context.Context, path Path, record map[string]any) (string, error)
	Close() error
}

// Document is a stored JSON object and the time it was last written.
type Document struct {
	Path      Path
	Data      json.RawMessage
	UpdatedAt time.Time
}

// Decode unmarshals the document data into v.
func (d Document) Decode(v any) error {
	return json.Unmarshal(d.Data, v)
}

const (
	rootNamespace = "artifacts"
	publicMarker  = "public"
	dataMarker    = "data"

	ContentCollection  = "content"
	MessagesCollection = "messages"
)

// Path addresses a collection (DocID empty) or a document inside it.
type Path struct {
	AppID      string
	Collection string
	DocID      string
}

// ContentPath is the path of the single page content document.
func ContentPath(appID, docID string) Path {
	return Path{AppID: appID, Collection: ContentCollection, DocID: docID}
}

// MessagesPath is the path of the contact message collection.
func MessagesPath(appID string) Path {
	return Path{AppID: appID, Collection: MessagesCollection}
}

// IsDocument reports whether p points at a document rather than a collection.
func (p Path) IsDocument() bool {
	return p.DocID != ""
}

// Validate checks that every required segment is present and slash free.
func (p Path) Validate() error {
	if p.AppID == "" || p.Collection == "" {
		return fmt.Errorf("docstore: incomplete path %q", p.String())
	}
	for _, seg := range []string{p.AppID, p.Collection, p.DocID} {
		if strings.Contains(seg, "/") {
			return fmt.Errorf("docstore: invalid path segment %q", seg)
		}
	}
	return nil
}

func (p Path) String() string {
	s := rootNamespace + "/" + p.AppID + "/" + publicMarker + "/" + dataMarker + "/" + p.Collection
	if p.DocID != "" {
		s += "/" + p.DocID
	}
	return s
}

// collection returns the path of the collection p belongs to.
func (p Path) collection() Path {
	return Path{AppID: p.AppID, Collection: p.Collection}
}

type serverTimestamp struct{}

// ServerTimestamp is a record value the store replaces with its own clock
// when the record is written.
var ServerTimestamp = serverTimestamp{}

// resolveServerValues returns a copy of record with every ServerTimestamp
// replaced by now.
func resolveServerValues(record map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now.UTC().Format(time.RFC3339Nano)
			continue
		}
		out[k] = v
	}
	return out
}

// encodeObject marshals v and rejects anything that is not a JSON object.
func encodeObject(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode document: %w", err)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("docstore: document must be a JSON object")
	}
	return b, nil
}

// mergeFields applies top-level fields onto the stored object data.
func mergeFields(data []byte, fields map[string]any) ([]byte, error) {
	obj := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("docstore: decode stored document: %w", err)
		}
	}
	for k, v := range fields {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("docstore: encode field %q: %w", k, err)
		}
		obj[k] = b
	}
	return json.Marshal(obj)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
