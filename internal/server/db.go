package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a session or document does not exist
var ErrNotFound = errors.New("not found")

// DB wraps the SQLite database holding sessions and per-user documents
type DB struct {
	*sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	display    TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

CREATE TABLE IF NOT EXISTS user_data (
	user_id    TEXT NOT NULL,
	collection TEXT NOT NULL,
	data       BLOB NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, collection)
);
`

// OpenDB opens (and migrates) the database at path. ":memory:" keeps it in memory.
func OpenDB(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers; a single connection also
	// keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &DB{db}, nil
}

// Session is a stored backend session
type Session struct {
	ID          string
	UserID      string
	DisplayName string
	Email       string
	ExpiresAt   time.Time
}

func (db *DB) CreateSession(ctx context.Context, s Session, now time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, display, email, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.DisplayName, s.Email, now.Unix(), s.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// LookupSession returns an unexpired session or ErrNotFound
func (db *DB) LookupSession(ctx context.Context, id string, now time.Time) (*Session, error) {
	var (
		s       Session
		expires int64
	)
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, display, email, expires_at FROM sessions WHERE id = ?`, id).
		Scan(&s.ID, &s.UserID, &s.DisplayName, &s.Email, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lookup session: %w", err)
	}
	s.ExpiresAt = time.Unix(expires, 0)
	if !now.Before(s.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (db *DB) DeleteSession(ctx context.Context, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PruneSessions deletes expired sessions and reports how many were removed
func (db *DB) PruneSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return res.RowsAffected()
}

// UserData returns the stored document or ErrNotFound
func (db *DB) UserData(ctx context.Context, userID, collection string) ([]byte, error) {
	var data []byte
	err := db.QueryRowContext(ctx,
		`SELECT data FROM user_data WHERE user_id = ? AND collection = ?`, userID, collection).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user data: %w", err)
	}
	return data, nil
}

func (db *DB) PutUserData(ctx context.Context, userID, collection string, data []byte, now time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO user_data (user_id, collection, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, collection) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, collection, data, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to write user data: %w", err)
	}
	return nil
}
