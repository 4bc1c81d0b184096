// Package platform wires taproot's components together behind the root
// facade.
package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/taproot/pkg/adapters/kv"
	"github.com/aretw0/taproot/pkg/notes"
	"github.com/aretw0/taproot/pkg/reminders"
)

// App bundles the wired components. Close releases the kv store.
type App struct {
	Notes     *notes.Store
	Reminders *reminders.Service
	KV        kv.Store
}

// Close releases the underlying storage.
func (a *App) Close() error {
	return a.KV.Close()
}

// New builds a ready App rooted at the given data directory.
func New(path string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store := o.store
	if store == nil {
		var err error
		switch o.adapter {
		case "", "file":
			store, err = kv.NewFileStore(kv.FileConfig{Dir: path, Logger: o.logger})
		case "sqlite":
			if err = os.MkdirAll(path, 0755); err == nil {
				store, err = kv.NewSQLiteStore(kv.SQLiteConfig{
					Path:   filepath.Join(path, "taproot.db"),
					Logger: o.logger,
				})
			}
		default:
			err = fmt.Errorf("unknown adapter %q", o.adapter)
		}
		if err != nil {
			return nil, err
		}
	}

	reminderSvc := reminders.NewService(store, o.logger, o.clock)

	gateway := o.reminders
	if gateway == nil {
		gateway = reminderSvc
	}

	noteStore := notes.NewStore(notes.Config{
		KV:        store,
		Limits:    o.limits,
		Reminders: gateway,
		Logger:    o.logger,
		Clock:     o.clock,
	})

	return &App{
		Notes:     noteStore,
		Reminders: reminderSvc,
		KV:        store,
	}, nil
}
