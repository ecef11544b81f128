// Package watcher re-runs work when a graph file changes on disk.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches a file for changes
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a new file watcher
func New(path string, onChange func()) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		logger:   zap.NewNop(),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// WithLogger sets the logger
func (w *Watcher) WithLogger(l *zap.Logger) *Watcher {
	if l != nil {
		w.logger = l
	}
	return w
}

// Watch starts watching the file for changes.
// It blocks until the context is cancelled or an error occurs.
// onChange runs once per burst of writes, never concurrently with itself.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory containing the file
	// This handles cases where the file is replaced (e.g., by editors)
	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := watcher.Add(dir); err != nil {
		return err
	}

	w.logger.Info("watching for changes", zap.String("path", w.path))

	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
	)
	fire := func() {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		w.logger.Info("file changed", zap.String("path", w.path))
		w.onChange()
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Check if this event is for our file
			if filepath.Base(event.Name) != filename {
				continue
			}

			// Handle write or create events
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(w.debounce, fire)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return ctx.Err()
		}
	}
}
