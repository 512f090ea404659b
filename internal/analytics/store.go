// Package analytics records which shortcuts fire in a SQLite database.
package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dshills/keychord/internal/input/keymap"
)

const schemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fired (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	shortcut_id TEXT NOT NULL,
	keys        TEXT NOT NULL,
	scope       TEXT NOT NULL,
	fired_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fired_shortcut ON fired(shortcut_id, keys, scope);
`

// ErrClosed is returned when using a closed store.
var ErrClosed = errors.New("analytics store is closed")

// Usage summarizes how often one shortcut fired.
type Usage struct {
	ID       string
	Keys     string
	Scope    string
	Count    int
	LastUsed time.Time
}

// Store persists fired shortcuts.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path. ":memory:" opens a private
// in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create analytics dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps in-memory databases shared and
	// serializes writers.
	db.SetMaxOpenConns(1)

	ver, err := currentSchemaVersion(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("check schema version: %w", err)
	}
	if ver < schemaVersion {
		if err := migrateSchema(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
	}

	return &Store{db: db, now: time.Now}, nil
}

// currentSchemaVersion returns the version in schema_meta, or 0 for a
// fresh database.
func currentSchemaVersion(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_meta'
	`).Scan(&count)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	var ver int
	err = db.QueryRow("SELECT version FROM schema_meta LIMIT 1").Scan(&ver)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return ver, err
}

func migrateSchema(db *sql.DB) error {
	for _, stmt := range []string{
		"DROP TABLE IF EXISTS fired",
		"DROP TABLE IF EXISTS schema_meta",
	} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	if _, err := db.Exec(schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec("INSERT INTO schema_meta (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("insert schema version: %w", err)
	}
	return nil
}

// Record stores one firing of s. Sided modifier variants are recorded
// under their display form so they aggregate together.
func (s *Store) Record(ctx context.Context, sc *keymap.Shortcut) error {
	if s.db == nil {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fired (shortcut_id, keys, scope, fired_at)
		VALUES (?, ?, ?, ?)
	`, sc.ID, keymap.DisplayKeys(sc.Keys, sc.Sequential()), sc.Scope(), s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("record fired shortcut: %w", err)
	}
	return nil
}

// Top returns the n most used shortcuts, most used first. Ties are broken
// by most recent use. n <= 0 returns every shortcut.
func (s *Store) Top(ctx context.Context, n int) ([]Usage, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	if n <= 0 {
		n = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT shortcut_id, keys, scope, COUNT(*) AS uses, MAX(fired_at) AS last
		FROM fired
		GROUP BY shortcut_id, keys, scope
		ORDER BY uses DESC, last DESC, shortcut_id ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	var out []Usage
	for rows.Next() {
		var (
			u    Usage
			last int64
		)
		if err := rows.Scan(&u.ID, &u.Keys, &u.Scope, &u.Count, &last); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.LastUsed = time.Unix(0, last)
		out = append(out, u)
	}
	return out, rows.Err()
}

// Total returns the number of recorded firings.
func (s *Store) Total(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fired").Scan(&n); err != nil {
		return 0, fmt.Errorf("count fired: %w", err)
	}
	return n, nil
}

// Reset deletes every recorded firing.
func (s *Store) Reset(ctx context.Context) error {
	if s.db == nil {
		return ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM fired"); err != nil {
		return fmt.Errorf("reset usage: %w", err)
	}
	return nil
}

// Recorder returns a fired hook that records into s and logs failures.
func (s *Store) Recorder(logger *slog.Logger) func(*keymap.Shortcut) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(sc *keymap.Shortcut) {
		if err := s.Record(context.Background(), sc); err != nil {
			logger.Warn("recording shortcut usage", "id", sc.ID, "error", err)
		}
	}
}

// Close closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
