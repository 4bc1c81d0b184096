package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(FileConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return store
}

func TestFileStorePutGet(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "notes", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "notes")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"id":"a"}]` {
		t.Errorf("unexpected payload: %s", got)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	store := newTestFileStore(t)

	_, err := store.Get(context.Background(), "absent")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestFileStorePutReplaces(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "notes", []byte("first")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "notes", []byte("second")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "notes")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("expected replaced payload, got %s", got)
	}
}

func TestFileStoreDelete(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "notes", []byte("data")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Delete(ctx, "notes"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "notes"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}

	// Deleting again must not fail.
	if err := store.Delete(ctx, "notes"); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

func TestFileStoreKeys(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	payload := []byte("x")
	for _, key := range []string{"notes", "reminders", "notes.corrupt.20260101T000000.000000000Z"} {
		if err := store.Put(ctx, key, payload); err != nil {
			t.Fatalf("Put %q failed: %v", key, err)
		}
	}

	t.Run("All", func(t *testing.T) {
		keys, err := store.Keys(ctx, "")
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		if len(keys) != 3 {
			t.Errorf("expected 3 keys, got %v", keys)
		}
	})

	t.Run("Pattern", func(t *testing.T) {
		keys, err := store.Keys(ctx, "notes.corrupt.*")
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		if len(keys) != 1 || keys[0] != "notes.corrupt.20260101T000000.000000000Z" {
			t.Errorf("unexpected keys: %v", keys)
		}
	})

	t.Run("Ignores Temp Files", func(t *testing.T) {
		tmp := filepath.Join(store.dir, tempFilePrefix+"123")
		if err := os.WriteFile(tmp, []byte("partial"), 0644); err != nil {
			t.Fatalf("failed to plant temp file: %v", err)
		}
		keys, err := store.Keys(ctx, "")
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		for _, k := range keys {
			if k == tempFilePrefix+"123" {
				t.Errorf("temp file leaked into key listing: %v", keys)
			}
		}
	})
}

func TestFileStoreRejectsBadKeys(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "a/b", `a\b`, "../escape"} {
		if err := store.Put(ctx, key, []byte("x")); err == nil {
			t.Errorf("Put accepted invalid key %q", key)
		}
		if _, err := store.Get(ctx, key); err == nil {
			t.Errorf("Get accepted invalid key %q", key)
		}
	}
}

func TestFileStoreWatch(t *testing.T) {
	store := newTestFileStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx, "notes")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)

	if err := store.Put(ctx, "notes", []byte("v1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Key != "notes" {
			t.Errorf("expected event for key notes, got %q", ev.Key)
		}
		if ev.Type != EventModify {
			t.Errorf("expected MODIFY event, got %s", ev.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}
}

func TestFileStoreState(t *testing.T) {
	store := newTestFileStore(t)

	state, ok := store.State().(FileStoreState)
	if !ok {
		t.Fatalf("unexpected state type %T", store.State())
	}
	if state.Dir != store.dir {
		t.Errorf("state dir mismatch: %s", state.Dir)
	}
	if store.ComponentType() != "kv-file" {
		t.Errorf("unexpected component type %q", store.ComponentType())
	}
}
