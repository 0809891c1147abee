package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a local SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (or creates) the database at path, ensures the data
// directory exists and creates the schema.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, unavailable("create data dir", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, unavailable("open", err)
	}
	// WAL lets page reads proceed while a save is being written; the busy
	// timeout makes concurrent writers wait instead of failing.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, unavailable("pragmas", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLite{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, unavailable("schema", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    path TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    collection TEXT NOT NULL,
    data TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);
`)
	return err
}

// GetDocument returns the document at path or ErrNotFound.
func (s *SQLite) GetDocument(ctx context.Context, path Path) (Document, error) {
	if err := documentPath(path); err != nil {
		return Document{}, err
	}
	var data, updated string
	err := s.db.QueryRowContext(ctx, `SELECT data, updated_at FROM documents WHERE path = ?`, path.String()).
		Scan(&data, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, unavailable("get document", err)
	}
	doc := Document{Path: path, Data: []byte(data)}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		doc.UpdatedAt = t
	}
	return doc, nil
}

// SetDocument replaces the document at path with v.
func (s *SQLite) SetDocument(ctx context.Context, path Path, v any) error {
	if err := documentPath(path); err != nil {
		return err
	}
	data, err := encodeObject(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO documents (path, data, updated_at) VALUES (?, ?, ?)`,
		path.String(), string(data), s.stamp())
	if err != nil {
		return unavailable("set document", err)
	}
	return nil
}

// UpdateDocument merges fields into the existing document at path.
func (s *SQLite) UpdateDocument(ctx context.Context, path Path, fields map[string]any) error {
	if err := documentPath(path); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin update", err)
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx, `SELECT data FROM documents WHERE path = ?`, path.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return unavailable("read for update", err)
	}
	merged, err := mergeFields([]byte(data), fields)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE documents SET data = ?, updated_at = ? WHERE path = ?`,
		string(merged), s.stamp(), path.String()); err != nil {
		return unavailable("update document", err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit update", err)
	}
	return nil
}

// AppendToCollection stores record under a new id in the collection at path.
func (s *SQLite) AppendToCollection(ctx context.Context, path Path, record map[string]any) (string, error) {
	if err := collectionPath(path); err != nil {
		return "", err
	}
	now := s.now()
	id := ulid.Make().String()
	rec := resolveServerValues(record, now)
	rec["id"] = id
	data, err := encodeObject(rec)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO records (id, collection, data, created_at) VALUES (?, ?, ?, ?)`,
		id, path.String(), string(data), now.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", unavailable("append record", err)
	}
	return id, nil
}

func (s *SQLite) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func documentPath(p Path) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.IsDocument() {
		return fmt.Errorf("docstore: %q is a collection, not a document", p.String())
	}
	return nil
}

func collectionPath(p Path) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.IsDocument() {
		return fmt.Errorf("docstore: %q is a document, not a collection", p.String())
	}
	return nil
}
