package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/taproot/pkg/adapters/kv/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements Store on a single sqlite table. Each Put replaces
// the whole payload for its key in one statement, so the key stays the
// consistency boundary just like the file adapter.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// SQLiteConfig holds the configuration for the sqlite-backed store.
type SQLiteConfig struct {
	// Path is a database file path, or ":memory:" for tests.
	Path   string
	Logger *slog.Logger
}

// NewSQLiteStore opens the database, applies pending migrations and
// returns a ready store.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("kv: database path is required")
	}
	db, err := openConnection(cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("kv: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{db: db, path: cfg.Path, logger: logger}, nil
}

// openConnection opens and configures a sqlite connection with the
// appropriate PRAGMAs.
func openConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("kv: failed to open database: %w", err)
	}

	// SQLite ships with foreign keys off for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("kv: failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("kv: failed to set busy timeout: %w", err)
	}

	// A single connection keeps writes serialized and makes ":memory:"
	// databases behave: the pool would otherwise hand out fresh, empty
	// in-memory databases per connection.
	db.SetMaxOpenConns(1)

	return db, nil
}

// Get returns the payload stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv: failed to read key %q: %w", key, err)
	}
	return value, nil
}

// Put stores the payload under key, replacing any previous value.
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("kv: failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Absent keys are ignored.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("kv: failed to delete key %q: %w", key, err)
	}
	return nil
}

// Keys lists stored keys matching a doublestar glob pattern.
func (s *SQLiteStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("kv: failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("kv: failed to scan key: %w", err)
		}
		if pattern != "" {
			ok, err := doublestar.Match(pattern, key)
			if err != nil {
				return nil, fmt.Errorf("kv: bad key pattern %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SQLiteStoreState exposes internal state for observability.
type SQLiteStoreState struct {
	Path string `json:"path"`
}

// State implements introspection.Introspectable.
func (s *SQLiteStore) State() any {
	return SQLiteStoreState{Path: s.path}
}

// ComponentType implements introspection.Component.
func (s *SQLiteStore) ComponentType() string {
	return "kv-sqlite"
}

var _ Store = (*SQLiteStore)(nil)
var _ introspection.Introspectable = (*SQLiteStore)(nil)
var _ introspection.Component = (*SQLiteStore)(nil)
