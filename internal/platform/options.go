package platform

import (
	"log/slog"

	"github.com/aretw0/taproot/pkg/adapters/kv"
	"github.com/aretw0/taproot/pkg/core"
	"github.com/aretw0/taproot/pkg/hierarchy"
)

// options holds the internal configuration for the taproot app.
type options struct {
	logger    *slog.Logger
	adapter   string
	store     kv.Store
	limits    hierarchy.Limits
	reminders core.ReminderGateway
	clock     core.Clock
}

// Option defines a functional option for configuring taproot.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "file",
		limits:  hierarchy.DefaultLimits(),
	}
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the storage adapter by name ("file" or "sqlite").
// Defaults to "file".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithKV injects a custom key-value store. If provided, the named
// adapter is skipped.
func WithKV(store kv.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLimits overrides the hierarchy ceilings.
func WithLimits(limits hierarchy.Limits) Option {
	return func(o *options) {
		o.limits = limits
	}
}

// WithReminders injects a custom reminder gateway. By default the
// in-tree reminder service is wired, sharing the kv store.
func WithReminders(gateway core.ReminderGateway) Option {
	return func(o *options) {
		o.reminders = gateway
	}
}

// WithClock injects a clock (useful for tests).
func WithClock(clock core.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}
