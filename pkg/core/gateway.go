package core

import (
	"context"
	"time"
)

// ReminderGateway is the narrow interface the note store uses to keep the
// externally-owned reminder collection consistent with note lifecycle.
// Both calls are best-effort from the store's point of view: a failure is
// surfaced as a warning on the primary operation, never a rollback.
type ReminderGateway interface {
	// DeleteForNote removes every reminder referencing the given note id.
	DeleteForNote(ctx context.Context, noteID string) error

	// ReassignNote rekeys reminders from a temporary note id to the
	// permanent one assigned at persistence time (identity promotion).
	ReassignNote(ctx context.Context, oldID, newID string) error
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
