package masterdata

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reloading.
const DefaultDebounce = 200 * time.Millisecond

// Store holds the current master data snapshot and swaps it on reload.
// Snapshots are never mutated after Load returns them.
type Store struct {
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	data    *Data
	version int
}

// NewStore loads dir and returns a store serving it.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{dir: dir, logger: logger.With("component", "masterdata")}
	s.Reload()
	return s
}

// Get returns the current snapshot.
func (s *Store) Get() *Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Version counts completed loads, starting at 1.
func (s *Store) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Reload re-reads the data directory.
func (s *Store) Reload() *Data {
	d := Load(s.dir, s.logger)
	s.mu.Lock()
	s.data = d
	s.version++
	s.mu.Unlock()
	return d
}

// Watch reloads the store whenever a master data file in the directory is
// written, created, removed or renamed. It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return err
	}
	s.logger.Info("watching master data", "dir", s.dir)

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsDataFile(filepath.Base(event.Name)) || event.Op == fsnotify.Chmod {
				continue
			}
			s.logger.Debug("master data changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case <-timer.C:
			s.Reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("master data watcher error", "error", err)
		}
	}
}
