package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

var (
	ErrEmailTaken   = errors.New("identity: email already registered")
	ErrUserNotFound = errors.New("identity: user not found")
)

// Users is an email/password Authenticator stored in SQLite.
type Users struct {
	db *sql.DB
}

// NewUsers opens (or creates) the user database at path.
func NewUsers(path string) (*Users, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open users db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	u := &Users{db: db}
	if err := u.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return u, nil
}

// Close closes the database connection.
func (u *Users) Close() error {
	return u.db.Close()
}

func (u *Users) ensureSchema() error {
	_, err := u.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    uid TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`)
	return err
}

// CreateUser registers email with a bcrypt hash of password.
func (u *Users) CreateUser(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Identity{}, errors.New("identity: email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}
	id := Identity{UID: uuid.NewString(), Email: email}
	_, err = u.db.ExecContext(ctx, `INSERT INTO users (uid, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		id.UID, id.Email, string(hash), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return Identity{}, ErrEmailTaken
		}
		return Identity{}, err
	}
	return id, nil
}

// SetPassword replaces the password of an existing user.
func (u *Users) SetPassword(ctx context.Context, email, password string) error {
	if password == "" {
		return errors.New("identity: password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := u.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE email = ?`, string(hash), email)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SignInWithPassword checks the password for email. Unknown emails and
// wrong passwords both return ErrInvalidCredentials.
func (u *Users) SignInWithPassword(ctx context.Context, email, password string) (Identity, error) {
	var id Identity
	var hash string
	err := u.db.QueryRowContext(ctx, `SELECT uid, email, password_hash FROM users WHERE email = ?`, email).
		Scan(&id.UID, &id.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return id, nil
}

// SignOut has nothing to revoke server side; sessions and tokens are
// dropped by their holders.
func (u *Users) SignOut(context.Context, Identity) error {
	return nil
}
