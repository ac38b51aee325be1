// Package watch reruns a callback whenever a config file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/tweetsim/pkg/log"
)

// DefaultDebounce collapses the burst of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// ConfigWatcher monitors one file via fsnotify. The parent directory is
// watched so that editors replacing the file are noticed too.
type ConfigWatcher struct {
	path     string
	onChange func(ctx context.Context)
	delay    time.Duration
	logger   log.Logger

	mu       sync.Mutex
	debounce *time.Timer

	// runMu serializes callbacks; a timer firing while one runs waits for it.
	runMu sync.Mutex
}

// Option configures a ConfigWatcher.
type Option func(*ConfigWatcher)

// WithDebounce sets the quiet period after the last event before the
// callback runs.
func WithDebounce(d time.Duration) Option {
	return func(w *ConfigWatcher) {
		w.delay = d
	}
}

// WithLogger sets the logger. If not provided, nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(w *ConfigWatcher) {
		w.logger = logger
	}
}

// NewConfigWatcher creates a watcher calling onChange after path is written.
func NewConfigWatcher(path string, onChange func(ctx context.Context), opts ...Option) *ConfigWatcher {
	w := &ConfigWatcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		delay:    DefaultDebounce,
		logger:   log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is cancelled. It returns an error only when the
// watch cannot be set up.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching config", log.String("path", w.path))

	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("config event", log.String("op", event.Op.String()))
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", log.Err(err))
		}
	}
}

func (w *ConfigWatcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, func() {
		w.runMu.Lock()
		defer w.runMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		w.onChange(ctx)
	})
}

func (w *ConfigWatcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}
