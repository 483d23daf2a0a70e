package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the bursts of events editors emit on save.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	watcher    *fsnotify.Watcher
	configPath string
	onReload   func(*Config, error)
	logger     *slog.Logger
	debounce   time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for configPath. onReload is called from the
// watcher goroutine with the freshly parsed config or the load error.
func NewWatcher(configPath string, logger *slog.Logger, onReload func(*Config, error)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		watcher:    watcher,
		configPath: filepath.Clean(configPath),
		onReload:   onReload,
		logger:     logger,
		debounce:   DefaultDebounce,
	}, nil
}

// SetDebounce changes the quiet period before a reload.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching. The parent directory is watched so that editors
// replacing the file by rename are seen too.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return fmt.Errorf("failed to watch config file: %w", err)
	}

	w.logger.Info("started watching config file", "path", w.configPath)
	go w.watch(ctx)
	return nil
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.configPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.logger.Debug("config file changed", "op", event.Op.String(), "path", event.Name)
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", "err", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.configPath)
	if err != nil {
		// a rename away leaves nothing to read until the new file lands
		w.logger.Debug("config file not readable", "err", err)
		return
	}

	cfg, err := Parse(w.configPath, data)
	if err != nil {
		w.logger.Error("failed to reload config", "err", err)
	} else {
		w.logger.Info("configuration reloaded successfully")
	}
	w.onReload(cfg, err)
}
