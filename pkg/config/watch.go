package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the quiet period after the last file event before
// the configuration is reloaded.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watcher reloads the configuration file when it changes. The directory is
// watched rather than the file, so editors that replace the file on save are
// handled.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for the configuration file at path.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration path %q: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fw,
		logger:   logger.With("component", "config_watcher", "path", abs),
	}, nil
}

// Watch blocks until ctx is done. After each burst of changes to the file
// the configuration is reloaded with environment overrides, stored as the
// global configuration and passed to onReload. A file that fails to load or
// validate is logged and the previous configuration stays in effect.
func (w *Watcher) Watch(ctx context.Context, onReload func(*Config)) error {
	defer w.close()

	w.logger.Info("Configuration watcher started", "debounce_ms", w.debounce.Milliseconds())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Configuration watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Configuration file event", "op", event.Op.String())
			w.schedule(ctx, onReload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("Configuration watcher error", "error", err)
		}
	}
}

// relevant reports whether event touches the watched file's content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule(ctx context.Context, onReload func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		cfg, err := LoadConfigWithEnvOverrides(w.path)
		if err != nil {
			w.logger.Error("Configuration reload failed", "error", err)
			return
		}
		SetConfig(cfg)
		w.logger.Info("Configuration reloaded")
		if onReload != nil {
			onReload(cfg)
		}
	})
}

func (w *Watcher) close() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.watcher.Close()
}
