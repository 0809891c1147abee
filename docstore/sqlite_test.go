package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "data", "docs.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetDocumentNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetDocument(context.Background(), ContentPath("site", "main"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetAndGetDocument(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	path := ContentPath("site", "main")

	in := map[string]any{"title": "hello", "tags": []string{"a", "b"}}
	if err := s.SetDocument(ctx, path, in); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}

	doc, err := s.GetDocument(ctx, path)
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	var got struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}
	if err := doc.Decode(&got); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Title != "hello" || len(got.Tags) != 2 {
		t.Errorf("got %+v", got)
	}
	if doc.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
}

func TestSetDocumentRejectsNonObject(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SetDocument(context.Background(), ContentPath("site", "main"), []string{"x"}); err == nil {
		t.Fatal("expected error for array document")
	}
}

func TestUpdateDocumentMergesTopLevelFields(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	path := ContentPath("site", "main")

	if err := s.SetDocument(ctx, path, map[string]any{"a": 1, "b": "keep"}); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}
	if err := s.UpdateDocument(ctx, path, map[string]any{"a": 2, "c": true}); err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}

	doc, err := s.GetDocument(ctx, path)
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(doc.Data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["a"] != float64(2) || got["b"] != "keep" || got["c"] != true {
		t.Errorf("merged document = %v", got)
	}
}

func TestUpdateDocumentNotFound(t *testing.T) {
	s := setupTestStore(t)

	err := s.UpdateDocument(context.Background(), ContentPath("site", "missing"), map[string]any{"a": 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendToCollectionResolvesServerTimestamp(t *testing.T) {
	s := setupTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()
	path := MessagesPath("site")

	id, err := s.AppendToCollection(ctx, path, map[string]any{
		"name":      "A",
		"createdAt": ServerTimestamp,
	})
	if err != nil {
		t.Fatalf("AppendToCollection failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected record id")
	}

	var data string
	if err := s.db.QueryRow(`SELECT data FROM records WHERE id = ?`, id).Scan(&data); err != nil {
		t.Fatalf("query record: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if rec["createdAt"] != fixed.Format(time.RFC3339Nano) {
		t.Errorf("createdAt = %v, want %s", rec["createdAt"], fixed.Format(time.RFC3339Nano))
	}
	if rec["name"] != "A" {
		t.Errorf("name = %v", rec["name"])
	}
	if rec["id"] != id {
		t.Errorf("stored id = %v, want %s", rec["id"], id)
	}
}

func TestPathKinds(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.AppendToCollection(ctx, ContentPath("site", "main"), map[string]any{}); err == nil {
		t.Error("append to a document path should fail")
	}
	if _, err := s.GetDocument(ctx, MessagesPath("site")); err == nil {
		t.Error("get on a collection path should fail")
	}
	if got := ContentPath("site", "main").String(); got != "artifacts/site/public/data/content/main" {
		t.Errorf("ContentPath = %q", got)
	}
	if got := MessagesPath("site").String(); got != "artifacts/site/public/data/messages" {
		t.Errorf("MessagesPath = %q", got)
	}
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	s.Close()

	_, err = s.GetDocument(context.Background(), ContentPath("site", "main"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestUnavailableStore(t *testing.T) {
	var s Store = Unavailable{Cause: errors.New("boom")}

	if err := s.SetDocument(context.Background(), ContentPath("site", "main"), map[string]any{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
