// Package kv provides durable key-value adapters for whole-collection
// persistence. One logical key holds one serialized payload; every write
// replaces the payload for its key in a single operation, which makes the
// key the consistency boundary.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get for absent keys.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is the contract for durable key-value storage.
type Store interface {
	// Get returns the payload stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores the payload under key, replacing any previous value.
	// The replacement is atomic from a reader's perspective.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists stored keys matching a doublestar glob pattern.
	// An empty pattern matches every key.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Close releases underlying resources.
	Close() error
}

// EventType classifies an external change to a watched key.
type EventType string

const (
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event reports an out-of-process change to a stored key.
type Event struct {
	Type      EventType
	Key       string
	Timestamp time.Time
}

// Watchable is implemented by adapters that can observe external changes
// to their backing storage (e.g. another process or a file sync tool).
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
