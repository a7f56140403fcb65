// Package session ties settings, storage and the in-memory log together for
// one run of the CLI or TUI.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/faizmokh/worklog/internal/config"
	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/logbook"
	"github.com/faizmokh/worklog/internal/logger"
	"github.com/faizmokh/worklog/internal/sprint"
	"github.com/faizmokh/worklog/internal/storage"
)

// Session owns the loaded store. Callers that share a session across
// goroutines go through Read and Do; single-threaded callers may mutate
// entries directly and call Save.
type Session struct {
	mu       sync.Mutex
	manager  *files.Manager
	settings config.Settings
	provider storage.Provider
	store    *logbook.Store
	skipped  int
}

// Open loads settings and entries from the manager's base directory.
func Open(ctx context.Context, manager *files.Manager) (*Session, error) {
	if manager == nil {
		return nil, errors.New("session requires a file manager")
	}
	settings, err := config.Load(manager)
	if err != nil {
		return nil, err
	}
	provider, err := storage.Open(ctx, manager, settings.Storage.Backend)
	if err != nil {
		return nil, err
	}

	records, err := provider.LoadRecords(ctx)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("load entries: %w", err)
	}

	s := &Session{manager: manager, settings: settings, provider: provider}
	var onCorrupt func(int, error) error
	if settings.Storage.SkipCorrupt {
		onCorrupt = func(index int, err error) error {
			logger.Warn("skipping corrupt entry", "index", index, "err", err)
			s.skipped++
			return nil
		}
	}
	store, err := logbook.Restore(records, onCorrupt)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("load entries: %w", err)
	}
	store.ReconcileLogTypes(settings.Types())
	s.store = store

	logger.Debug("session opened", "backend", settings.Storage.Backend, "entries", store.Len(), "skipped", s.skipped)
	return s, nil
}

// Manager returns the file manager the session was opened with.
func (s *Session) Manager() *files.Manager {
	return s.manager
}

// Store returns the live entry store.
func (s *Session) Store() *logbook.Store {
	return s.store
}

// Settings returns a copy of the current settings.
func (s *Session) Settings() config.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSettings(s.settings)
}

// Types returns the configured log types.
func (s *Session) Types() logbook.LogTypes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Types()
}

// SprintConfig returns the parsed sprint settings.
func (s *Session) SprintConfig() (sprint.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.SprintConfig()
}

// Skipped reports how many corrupt records were dropped while loading.
func (s *Session) Skipped() int {
	return s.skipped
}

// Entry resolves a 1-based index into the date-sorted view.
func (s *Session) Entry(index int) (*logbook.Entry, error) {
	sorted := s.store.SortedByDate()
	if index < 1 || index > len(sorted) {
		return nil, fmt.Errorf("%w: %d (have %d entries)", logbook.ErrIndexOutOfRange, index, len(sorted))
	}
	return sorted[index-1], nil
}

// Read runs fn with exclusive access to the store.
func (s *Session) Read(fn func(*logbook.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.store)
}

// Do runs fn with exclusive access to the store and saves when fn succeeds.
func (s *Session) Do(ctx context.Context, fn func(*logbook.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.store); err != nil {
		return err
	}
	return s.saveLocked(ctx)
}

// Add appends entry and saves.
func (s *Session) Add(ctx context.Context, entry *logbook.Entry) error {
	return s.Do(ctx, func(store *logbook.Store) error {
		store.Add(entry)
		return nil
	})
}

// Delete removes entry and saves.
func (s *Session) Delete(ctx context.Context, entry *logbook.Entry) error {
	return s.Do(ctx, func(store *logbook.Store) error {
		return store.Remove(entry)
	})
}

// Save persists every entry through the configured backend.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Session) saveLocked(ctx context.Context) error {
	if err := s.provider.SaveRecords(ctx, s.store.Records()); err != nil {
		return fmt.Errorf("save entries: %w", err)
	}
	logger.Debug("entries saved", "count", s.store.Len())
	return nil
}

// UpdateSettings applies fn to a copy of the settings, persists the result
// and reconciles entries with the new log types. The settings are left
// untouched if fn or the save fails.
func (s *Session) UpdateSettings(ctx context.Context, fn func(*config.Settings) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneSettings(s.settings)
	if err := fn(&next); err != nil {
		return err
	}
	if err := config.Save(s.manager, next); err != nil {
		return err
	}
	s.settings = next
	s.store.ReconcileLogTypes(next.Types())
	return s.saveLocked(ctx)
}

// Close releases the storage backend.
func (s *Session) Close() error {
	if s.provider == nil {
		return nil
	}
	return s.provider.Close()
}

func cloneSettings(in config.Settings) config.Settings {
	out := in
	out.LogTypes = slices.Clone(in.LogTypes)
	return out
}
