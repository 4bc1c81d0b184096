package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

const debounceWindow = 50 * time.Millisecond

// Watch observes external changes to keys in the data directory, e.g. a
// sync tool rewriting the notes file while the process runs. Events are
// debounced per key. The channel closes when ctx is cancelled.
func (s *FileStore) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("kv: failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("kv: failed to watch %s: %w", s.dir, err)
	}

	events := make(chan Event, 16)
	deb := newDebouncer(debounceWindow)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer s.setWatcherActive(false)
		defer watcher.Close()
		defer deb.stopAndWait(5 * time.Second)
		defer close(events)

		for {
			select {
			case <-ctx.Done():
				return nil

			case fe, ok := <-watcher.Events:
				if !ok {
					return fmt.Errorf("watcher events channel closed")
				}
				s.handleFSEvent(ctx, fe, pattern, deb, events)

			case werr, ok := <-watcher.Errors:
				if !ok {
					return fmt.Errorf("watcher errors channel closed")
				}
				s.logger.Error("fsnotify error", "error", werr)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("kv watcher terminated", "error", err)
	}))

	return events, nil
}

func (s *FileStore) handleFSEvent(ctx context.Context, fe fsnotify.Event, pattern string, deb *debouncer, events chan<- Event) {
	key := filepath.Base(fe.Name)
	if strings.HasPrefix(key, tempFilePrefix) {
		return
	}
	if pattern != "" {
		if ok, err := doublestar.Match(pattern, key); err != nil || !ok {
			return
		}
	}

	var etype EventType
	switch {
	case fe.Has(fsnotify.Create) || fe.Has(fsnotify.Write):
		etype = EventModify
	case fe.Has(fsnotify.Remove) || fe.Has(fsnotify.Rename):
		etype = EventDelete
	default:
		return
	}

	s.logger.Debug("external change observed", "key", key, "type", string(etype))

	deb.add(Event{Type: etype, Key: key, Timestamp: time.Now()}, func(e Event) {
		defer func() {
			// The channel closes during shutdown; a racing timer must
			// not crash the process.
			_ = recover()
		}()
		select {
		case events <- e:
		case <-ctx.Done():
		}
	})
}

// debouncer collapses bursts of events per key into a single delivery.
type debouncer struct {
	window time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending sync.WaitGroup
	stopped bool
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window: window,
		timers: make(map[string]*time.Timer),
	}
}

// add schedules fire(e) after the debounce window, resetting any timer
// already pending for the same key.
func (d *debouncer) add(e Event, fire func(Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.timers[e.Key]; ok {
		// Stop reports false when the timer already fired; its callback
		// owns the pending slot in that case.
		if t.Stop() {
			d.pending.Done()
		}
	}
	d.pending.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(d.window, func() {
		defer d.pending.Done()
		d.mu.Lock()
		if d.timers[e.Key] == timer {
			delete(d.timers, e.Key)
		}
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fire(e)
		}
	})
	d.timers[e.Key] = timer
}

// stopAndWait refuses new events and waits for in-flight timers, bounded
// by the given timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
