// Package notes implements the persistent note store: the single source
// of truth for the full note collection, kept under one durable key so
// every mutation is a whole-collection load-modify-save cycle.
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/google/uuid"

	"github.com/aretw0/taproot/pkg/adapters/kv"
	"github.com/aretw0/taproot/pkg/core"
	"github.com/aretw0/taproot/pkg/hierarchy"
)

const (
	// StorageKey is the fixed key the whole note collection lives under.
	StorageKey = "notes"

	// corruptKeyPrefix derives backup keys for unreadable payloads. The
	// timestamp suffix keeps every capture distinct.
	corruptKeyPrefix = "notes.corrupt."
)

// Config wires a Store. KV is required; everything else has a default.
type Config struct {
	KV        kv.Store
	Limits    hierarchy.Limits
	Reminders core.ReminderGateway
	Logger    *slog.Logger
	Clock     core.Clock
}

// Store is the durable note repository. A single in-process mutex
// serializes every load-modify-save cycle: without it, two overlapping
// mutations would race and the second save would silently win.
type Store struct {
	kv      kv.Store
	checker *hierarchy.Checker
	bridge  *Bridge
	logger  *slog.Logger
	clock   core.Clock

	mu sync.Mutex

	statsMu    sync.RWMutex
	lastLoad   *time.Time
	recoveries int
}

// NewStore creates a Store from the given configuration.
func NewStore(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = core.SystemClock{}
	}
	if cfg.Limits.MaxDepth <= 0 {
		cfg.Limits = hierarchy.DefaultLimits()
	}
	return &Store{
		kv:      cfg.KV,
		checker: hierarchy.NewChecker(cfg.Limits, logger),
		bridge:  NewBridge(cfg.Reminders, logger),
		logger:  logger,
		clock:   clock,
	}
}

// Checker exposes the hierarchy validator bound to this store's limits.
func (s *Store) Checker() *hierarchy.Checker {
	return s.checker
}

// load reads and deserializes the collection. It is fail-safe-empty: an
// unreadable payload is archived under a timestamped backup key, the
// primary key is cleared, and an empty collection is returned with a
// warning instead of an error. Entries missing mandatory fields are
// dropped, not failed. Callers must hold s.mu.
func (s *Store) load(ctx context.Context) ([]core.Note, core.Outcome, error) {
	var outcome core.Outcome

	s.statsMu.Lock()
	now := s.clock.Now()
	s.lastLoad = &now
	s.statsMu.Unlock()

	data, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, outcome, nil
	}
	if err != nil {
		return nil, outcome, fmt.Errorf("notes: load failed: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return s.recover(ctx, data, err)
	}

	notes := make([]core.Note, 0, len(raw))
	dropped := 0
	for _, entry := range raw {
		var n core.Note
		if err := json.Unmarshal(entry, &n); err != nil {
			dropped++
			continue
		}
		if n.ID == "" || n.CreatedAt.IsZero() {
			dropped++
			continue
		}
		notes = append(notes, n)
	}
	if dropped > 0 {
		s.logger.Warn("dropped malformed note entries on load", "count", dropped)
		outcome.Warn("dropped %d malformed note entries", dropped)
	}
	return notes, outcome, nil
}

// recover archives an unreadable payload and resets the collection.
func (s *Store) recover(ctx context.Context, data []byte, cause error) ([]core.Note, core.Outcome, error) {
	var outcome core.Outcome

	backupKey := corruptKeyPrefix + s.clock.Now().UTC().Format("20060102T150405.000000000Z")
	if err := s.kv.Put(ctx, backupKey, data); err != nil {
		// Archiving failed; keep the primary payload in place so the
		// unreadable data is not lost, and surface the original cause.
		return nil, outcome, fmt.Errorf("notes: corrupt payload and backup failed (%v): %w", err, cause)
	}
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return nil, outcome, fmt.Errorf("notes: failed to clear corrupt payload: %w", err)
	}

	s.statsMu.Lock()
	s.recoveries++
	s.statsMu.Unlock()

	s.logger.Warn("note payload unreadable, archived and reset",
		"backup", backupKey, "error", cause)
	outcome.Warn("note collection was unreadable; archived under %q and reset to empty", backupKey)
	return nil, outcome, nil
}

// save serializes and overwrites the whole collection in one write.
// Callers must hold s.mu.
func (s *Store) save(ctx context.Context, notes []core.Note) error {
	if notes == nil {
		notes = []core.Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("notes: serialize failed: %w", err)
	}
	if err := s.kv.Put(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("notes: save failed: %w", err)
	}
	return nil
}

// Load returns the full collection, applying the corrupt-payload
// recovery policy.
func (s *Store) Load(ctx context.Context) ([]core.Note, core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// SaveAll overwrites the entire collection. Hard I/O failures surface to
// the caller; no partial writes are attempted.
func (s *Store) SaveAll(ctx context.Context, notes []core.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, notes)
}

// GetAll returns every note.
func (s *Store) GetAll(ctx context.Context) ([]core.Note, error) {
	notes, _, err := s.Load(ctx)
	return notes, err
}

// GetByID returns one note or core.ErrNoteNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (core.Note, error) {
	notes, _, err := s.Load(ctx)
	if err != nil {
		return core.Note{}, err
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return core.Note{}, core.ErrNoteNotFound
}

// GetRoots returns the notes without a parent.
func (s *Store) GetRoots(ctx context.Context) ([]core.Note, error) {
	notes, _, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	var roots []core.Note
	for _, n := range notes {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots, nil
}

// GetChildren returns the direct children of a note, newest first.
func (s *Store) GetChildren(ctx context.Context, parentID string) ([]core.Note, error) {
	notes, _, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	var children []core.Note
	for _, n := range notes {
		if n.Parent() == parentID && parentID != "" {
			children = append(children, n)
		}
	}
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].CreatedAt.After(children[j].CreatedAt)
	})
	return children, nil
}

// GetChildCount returns the number of direct children of a note.
func (s *Store) GetChildCount(ctx context.Context, parentID string) (int, error) {
	children, err := s.GetChildren(ctx, parentID)
	return len(children), err
}

// Add appends a note without hierarchy validation; callers needing a
// validated creation path use CreateChild. A missing id or timestamp is
// filled in.
func (s *Store) Add(ctx context.Context, note core.Note) (core.Note, core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, outcome, err := s.load(ctx)
	if err != nil {
		return core.Note{}, outcome, err
	}

	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = s.clock.Now()
	}
	for _, n := range notes {
		if n.ID == note.ID {
			return core.Note{}, outcome, fmt.Errorf("notes: duplicate id %q", note.ID)
		}
	}

	notes = append(notes, note)
	if err := s.save(ctx, notes); err != nil {
		return core.Note{}, outcome, err
	}
	return note, outcome, nil
}

// Update replaces the stored note with the same id (full-record
// replacement, no field-level patching). Returns core.ErrNoteNotFound if
// no entry matches.
func (s *Store) Update(ctx context.Context, note core.Note) (core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, outcome, err := s.load(ctx)
	if err != nil {
		return outcome, err
	}

	for i := range notes {
		if notes[i].ID == note.ID {
			notes[i] = note
			return outcome, s.save(ctx, notes)
		}
	}
	return outcome, core.ErrNoteNotFound
}

// Remove deletes a single note and cascades reminder cleanup. It does
// not cascade to descendants: deleting a parent here leaves its children
// with a dangling ParentID (a known weak invariant, reported by Audit);
// callers wanting the cascade use RemoveWithDescendants.
func (s *Store) Remove(ctx context.Context, id string) (core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, outcome, err := s.load(ctx)
	if err != nil {
		return outcome, err
	}

	kept := make([]core.Note, 0, len(notes))
	found := false
	orphaned := 0
	for _, n := range notes {
		if n.ID == id {
			found = true
			continue
		}
		if n.Parent() == id {
			orphaned++
		}
		kept = append(kept, n)
	}
	if !found {
		return outcome, core.ErrNoteNotFound
	}
	if err := s.save(ctx, kept); err != nil {
		return outcome, err
	}
	if orphaned > 0 {
		s.logger.Warn("removed a parent without cascading", "note", id, "orphaned_children", orphaned)
		outcome.Warn("note %q had %d children, now orphaned", id, orphaned)
	}

	s.bridge.CascadeDelete(ctx, &outcome, id)
	return outcome, nil
}

// RemoveWithDescendants deletes a note and its entire subtree in a
// single save, then cascades reminder cleanup for every removed id.
func (s *Store) RemoveWithDescendants(ctx context.Context, id string) (core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, outcome, err := s.load(ctx)
	if err != nil {
		return outcome, err
	}

	doomed := map[string]bool{id: true}
	for _, d := range s.checker.Descendants(id, notes) {
		doomed[d.ID] = true
	}

	kept := make([]core.Note, 0, len(notes))
	found := false
	for _, n := range notes {
		if doomed[n.ID] {
			if n.ID == id {
				found = true
			}
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		return outcome, core.ErrNoteNotFound
	}
	if err := s.save(ctx, kept); err != nil {
		return outcome, err
	}

	removed := make([]string, 0, len(doomed))
	for did := range doomed {
		removed = append(removed, did)
	}
	sort.Strings(removed)
	s.bridge.CascadeDelete(ctx, &outcome, removed...)
	return outcome, nil
}

// Draft carries the caller-supplied fields for a new sub-note.
type Draft struct {
	Title     string
	Content   string
	Tags      []string
	ImageURIs []string
}

// CreateChild is the guarded creation path: the parent must exist and the
// depth and fan-out ceilings must hold before anything is written. The
// cycle re-check is defense in depth against corrupted data; a legitimate
// creation cannot introduce a cycle on its own. The single save happens
// once, after all validation passes, so the collection is never left
// half-updated.
func (s *Store) CreateChild(ctx context.Context, parentID string, draft Draft) (core.Note, core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, outcome, err := s.load(ctx)
	if err != nil {
		return core.Note{}, outcome, err
	}

	check := s.checker.CanCreateChild(parentID, notes)
	if !check.OK {
		return core.Note{}, outcome, check.Err(parentID)
	}
	for _, w := range check.Warnings {
		outcome.Warn("%s", w)
	}

	if s.checker.DetectCycle(parentID, notes) {
		return core.Note{}, outcome, core.Reject(core.ReasonWouldCycle, parentID,
			fmt.Sprintf("parent %q sits inside a corrupted cycle", parentID))
	}

	pid := parentID
	child := core.Note{
		ID:        uuid.NewString(),
		Title:     draft.Title,
		Content:   draft.Content,
		CreatedAt: s.clock.Now(),
		Tags:      append([]string(nil), draft.Tags...),
		ImageURIs: append([]string(nil), draft.ImageURIs...),
		ParentID:  &pid,
	}

	notes = append(notes, child)
	if err := s.save(ctx, notes); err != nil {
		return core.Note{}, outcome, fmt.Errorf("notes: failed to persist new sub-note under %q: %w", parentID, err)
	}
	return child, outcome, nil
}

// Reparent moves a note below a new parent (or to the root when
// newParentID is empty). It fails closed: self-parenting and moves below
// the note's own descendants are refused with no write. Depth and
// fan-out ceilings are deliberately not re-checked for the new position;
// an over-deep move surfaces through Audit warnings instead.
func (s *Store) Reparent(ctx context.Context, noteID, newParentID string) (core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, outcome, err := s.load(ctx)
	if err != nil {
		return outcome, err
	}

	var target *core.Note
	parentExists := false
	for i := range notes {
		if notes[i].ID == noteID {
			target = &notes[i]
		}
		if notes[i].ID == newParentID {
			parentExists = true
		}
	}
	if target == nil {
		return outcome, core.ErrNoteNotFound
	}
	if newParentID != "" && !parentExists {
		return outcome, core.Reject(core.ReasonParentNotFound, newParentID,
			fmt.Sprintf("new parent %q does not exist", newParentID))
	}
	if noteID == newParentID {
		return outcome, core.Reject(core.ReasonSelfParent, newParentID, "a note cannot be its own parent")
	}
	if !s.checker.CanReparent(noteID, newParentID, notes) {
		return outcome, core.Reject(core.ReasonWouldCycle, newParentID,
			fmt.Sprintf("%q is a descendant of %q", newParentID, noteID))
	}

	if newParentID == "" {
		target.ParentID = nil
	} else {
		pid := newParentID
		target.ParentID = &pid
	}
	return outcome, s.save(ctx, notes)
}

// PromoteID replaces a temporary note id with its permanent one: the
// note record, any children pointing at the temporary id, and the
// reminder foreign keys (via the bridge, best-effort) are all rekeyed.
func (s *Store) PromoteID(ctx context.Context, tempID, permanentID string) (core.Outcome, error) {
	if tempID == "" || permanentID == "" {
		return core.Outcome{}, core.ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes, outcome, err := s.load(ctx)
	if err != nil {
		return outcome, err
	}

	found := false
	for i := range notes {
		if notes[i].ID == permanentID {
			return outcome, fmt.Errorf("notes: duplicate id %q", permanentID)
		}
		if notes[i].ID == tempID {
			notes[i].ID = permanentID
			found = true
		}
		if notes[i].Parent() == tempID {
			pid := permanentID
			notes[i].ParentID = &pid
		}
	}
	if !found {
		return outcome, core.ErrNoteNotFound
	}
	if err := s.save(ctx, notes); err != nil {
		return outcome, err
	}

	s.bridge.Rekey(ctx, &outcome, tempID, permanentID)
	return outcome, nil
}

// Audit runs the full hierarchy audit over the current collection.
func (s *Store) Audit(ctx context.Context) (hierarchy.Report, error) {
	notes, _, err := s.Load(ctx)
	if err != nil {
		return hierarchy.Report{}, err
	}
	return s.checker.Audit(notes), nil
}

// StatsFor returns advisory subtree statistics for one note.
func (s *Store) StatsFor(ctx context.Context, id string) (hierarchy.Stats, error) {
	notes, _, err := s.Load(ctx)
	if err != nil {
		return hierarchy.Stats{}, err
	}
	return s.checker.Stats(id, notes), nil
}

// StoreState exposes internal state for observability.
type StoreState struct {
	StorageKey string     `json:"storage_key"`
	Limits     any        `json:"limits"`
	LastLoad   *time.Time `json:"last_load,omitempty"`
	Recoveries int        `json:"recoveries"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return StoreState{
		StorageKey: StorageKey,
		Limits:     s.checker.Limits(),
		LastLoad:   s.lastLoad,
		Recoveries: s.recoveries,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "note-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
