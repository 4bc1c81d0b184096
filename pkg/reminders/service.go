package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/taproot/pkg/adapters/kv"
	"github.com/aretw0/taproot/pkg/core"
)

// StorageKey is the fixed key the reminder collection lives under.
const StorageKey = "reminders"

// ErrReminderNotFound is returned when an id matches no stored reminder.
var ErrReminderNotFound = errors.New("reminder not found")

// Service is the reminder repository. It shares the durable kv store with
// the note store but owns its own key, so the two collections never write
// over each other.
type Service struct {
	store  kv.Store
	logger *slog.Logger
	clock  core.Clock

	mu sync.Mutex // serializes load-modify-save cycles
}

// NewService creates a reminder service. A nil logger discards
// diagnostics; a nil clock uses the system clock.
func NewService(store kv.Store, logger *slog.Logger, clock core.Clock) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Service{store: store, logger: logger, clock: clock}
}

// load reads the full reminder collection. A corrupt payload self-heals
// to an empty collection, mirroring the note store's recovery policy.
func (s *Service) load(ctx context.Context) ([]Reminder, error) {
	data, err := s.store.Get(ctx, StorageKey)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reminders: load failed: %w", err)
	}

	var all []Reminder
	if err := json.Unmarshal(data, &all); err != nil {
		s.logger.Warn("reminder payload unreadable, starting empty", "error", err)
		return nil, nil
	}
	return all, nil
}

func (s *Service) save(ctx context.Context, all []Reminder) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("reminders: serialize failed: %w", err)
	}
	if err := s.store.Put(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("reminders: save failed: %w", err)
	}
	return nil
}

// Add stores a new reminder for a note and returns it with its id set.
func (s *Service) Add(ctx context.Context, noteID, message string, triggerAt time.Time, repeat string) (Reminder, error) {
	if noteID == "" {
		return Reminder{}, core.ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return Reminder{}, err
	}

	r := Reminder{
		ID:        uuid.NewString(),
		NoteID:    noteID,
		Message:   message,
		TriggerAt: triggerAt,
		Repeat:    repeat,
		Active:    true,
		CreatedAt: s.clock.Now(),
	}
	all = append(all, r)
	if err := s.save(ctx, all); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// List returns every stored reminder.
func (s *Service) List(ctx context.Context) ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// ListForNote returns the reminders referencing a note.
func (s *Service) ListForNote(ctx context.Context, noteID string) ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []Reminder
	for _, r := range all {
		if r.NoteID == noteID {
			out = append(out, r)
		}
	}
	return out, nil
}

// DueBefore returns active reminders with a trigger time at or before t.
func (s *Service) DueBefore(ctx context.Context, t time.Time) ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []Reminder
	for _, r := range all {
		if r.Due(t) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Deactivate marks a reminder inactive without deleting it.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == id {
			all[i].Active = false
			return s.save(ctx, all)
		}
	}
	return ErrReminderNotFound
}

// DeleteForNote removes every reminder referencing the note. It
// implements core.ReminderGateway.
func (s *Service) DeleteForNote(ctx context.Context, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := all[:0]
	removed := 0
	for _, r := range all {
		if r.NoteID == noteID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return nil
	}
	s.logger.Debug("cascading reminder deletion", "note", noteID, "removed", removed)
	return s.save(ctx, kept)
}

// ReassignNote rekeys reminders from a temporary note id to its permanent
// id. It implements core.ReminderGateway.
func (s *Service) ReassignNote(ctx context.Context, oldID, newID string) error {
	if oldID == "" || newID == "" {
		return core.ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return err
	}
	changed := 0
	for i := range all {
		if all[i].NoteID == oldID {
			all[i].NoteID = newID
			changed++
		}
	}
	if changed == 0 {
		return nil
	}
	s.logger.Debug("rekeyed reminders", "from", oldID, "to", newID, "count", changed)
	return s.save(ctx, all)
}

var _ core.ReminderGateway = (*Service)(nil)
