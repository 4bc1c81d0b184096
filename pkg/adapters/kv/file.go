package kv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"
)

// FileStore persists each key as a single file inside a data directory.
// Writes go through a temp-file + rename swap, so a reader never observes
// a partially written payload.
type FileStore struct {
	dir    string
	logger *slog.Logger

	mu            sync.RWMutex
	watcherActive bool
}

// FileConfig holds the configuration for the file-backed store.
type FileConfig struct {
	Dir    string
	Logger *slog.Logger
}

// NewFileStore creates the data directory if needed and returns a store.
func NewFileStore(cfg FileConfig) (*FileStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("kv: data directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("kv: failed to create data directory: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileStore{dir: cfg.Dir, logger: logger}, nil
}

// validateKey rejects keys that would escape the data directory.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("kv: key cannot be empty")
	}
	if strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return fmt.Errorf("kv: invalid key %q", key)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Get returns the payload stored under key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv: failed to read key %q: %w", key, err)
	}
	return data, nil
}

// Put stores the payload under key via an atomic file swap.
func (s *FileStore) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := writeFileAtomic(s.path(key), value, 0644); err != nil {
		return fmt.Errorf("kv: failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Absent keys are ignored.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("kv: failed to delete key %q: %w", key, err)
	}
	return nil
}

// Keys lists stored keys matching a doublestar glob pattern.
func (s *FileStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("kv: failed to list keys: %w", err)
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), tempFilePrefix) {
			continue
		}
		if pattern != "" {
			ok, err := doublestar.Match(pattern, e.Name())
			if err != nil {
				return nil, fmt.Errorf("kv: bad key pattern %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
		}
		keys = append(keys, e.Name())
	}
	return keys, nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

// FileStoreState exposes internal state for observability.
type FileStoreState struct {
	Dir           string `json:"dir"`
	WatcherActive bool   `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (s *FileStore) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FileStoreState{
		Dir:           s.dir,
		WatcherActive: s.watcherActive,
	}
}

// ComponentType implements introspection.Component.
func (s *FileStore) ComponentType() string {
	return "kv-file"
}

var _ Store = (*FileStore)(nil)
var _ introspection.Introspectable = (*FileStore)(nil)
var _ introspection.Component = (*FileStore)(nil)

func (s *FileStore) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}
