// Package taproot is a personal note-taking engine with hierarchical
// notes, tagging, and per-note reminders, persisted to local on-device
// storage.
//
//	app, err := taproot.New("/path/to/data", taproot.WithAdapter("file"))
package taproot

import (
	"log/slog"

	"github.com/aretw0/taproot/internal/platform"
	"github.com/aretw0/taproot/pkg/adapters/kv"
	"github.com/aretw0/taproot/pkg/core"
	"github.com/aretw0/taproot/pkg/hierarchy"
	"github.com/aretw0/taproot/pkg/notes"
)

// --- Types ---

// Note is the central entity of the engine.
type Note = core.Note

// Draft carries the caller-supplied fields for a new sub-note.
type Draft = notes.Draft

// Limits holds the hierarchy ceilings enforced on note creation.
type Limits = hierarchy.Limits

// --- Configuration ---

// Option defines a functional option for configuring taproot.
type Option = platform.Option

// App bundles the wired note store, reminder service and kv adapter.
type App = platform.App

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the storage adapter by name ("file" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithKV injects a custom key-value store.
func WithKV(store kv.Store) Option {
	return platform.WithKV(store)
}

// WithLimits overrides the hierarchy ceilings.
func WithLimits(limits hierarchy.Limits) Option {
	return platform.WithLimits(limits)
}

// WithReminders injects a custom reminder gateway.
func WithReminders(gateway core.ReminderGateway) Option {
	return platform.WithReminders(gateway)
}

// WithClock injects a clock (useful for tests).
func WithClock(clock core.Clock) Option {
	return platform.WithClock(clock)
}

// --- Factory ---

// New creates a ready App rooted at the given data directory.
func New(path string, opts ...Option) (*App, error) {
	return platform.New(path, opts...)
}
