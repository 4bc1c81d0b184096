package notes

import (
	"context"
	"log/slog"

	"github.com/aretw0/taproot/pkg/core"
)

// Bridge keeps the externally-owned reminder collection consistent with
// note lifecycle through the narrow core.ReminderGateway interface. Every
// call is best-effort: by the time the bridge runs, the note mutation has
// already been persisted, and an orphaned reminder is preferable to a
// zombie note that failed to delete. Failures are logged and attached to
// the operation's outcome as warnings, never rolled back.
type Bridge struct {
	gateway core.ReminderGateway
	logger  *slog.Logger
}

// NewBridge creates a Bridge. A nil gateway disables cascades entirely.
func NewBridge(gateway core.ReminderGateway, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bridge{gateway: gateway, logger: logger}
}

// CascadeDelete requests reminder deletion for each removed note id.
func (b *Bridge) CascadeDelete(ctx context.Context, outcome *core.Outcome, noteIDs ...string) {
	if b.gateway == nil {
		return
	}
	for _, id := range noteIDs {
		if err := b.gateway.DeleteForNote(ctx, id); err != nil {
			b.logger.Warn("reminder cascade failed", "note", id, "error", err)
			outcome.Warn("reminders for note %q could not be deleted: %v", id, err)
		}
	}
}

// Rekey requests that reminders keyed to a temporary note id follow the
// note to its permanent id.
func (b *Bridge) Rekey(ctx context.Context, outcome *core.Outcome, oldID, newID string) {
	if b.gateway == nil {
		return
	}
	if err := b.gateway.ReassignNote(ctx, oldID, newID); err != nil {
		b.logger.Warn("reminder rekey failed", "from", oldID, "to", newID, "error", err)
		outcome.Warn("reminders for %q could not be rekeyed to %q: %v", oldID, newID, err)
	}
}
