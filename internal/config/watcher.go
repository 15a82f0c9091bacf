package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is invoked after a config file change has been reloaded
// and validated.
type ChangeCallback func(oldConfig, newConfig *Config) error

// Watcher reloads Config whenever its backing file changes on disk, for
// the long-running "probe watch" mode where target/scenario selection
// can be edited without restarting the process.
type Watcher struct {
	config      *Config
	loader      *Loader
	watcher     *fsnotify.Watcher
	callbacks   []ChangeCallback
	mu          sync.RWMutex
	cancel      context.CancelFunc
	reloadDelay time.Duration
	lastReload  time.Time
}

// NewWatcher creates a watcher for the config file at configPath.
func NewWatcher(configPath string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	return &Watcher{
		loader:      NewLoader(filepath.Dir(configPath)),
		watcher:     fw,
		reloadDelay: time.Second,
	}, nil
}

// Start loads the initial config and begins watching for changes.
func (w *Watcher) Start(ctx context.Context) error {
	cfg, err := w.loader.Load()
	if err != nil {
		return fmt.Errorf("load initial config: %w", err)
	}
	w.mu.Lock()
	w.config = cfg
	w.mu.Unlock()

	configFile := w.loader.ConfigFileUsed()
	if configFile == "" {
		return fmt.Errorf("config file path is empty")
	}
	if err := w.watcher.Add(configFile); err != nil {
		return fmt.Errorf("watch config file %s: %w", configFile, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	go w.loop(ctx)
	return nil
}

// Stop ends the watch loop and releases the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	return w.watcher.Close()
}

// Config returns the most recently loaded configuration.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// OnChange registers a callback run after every successful reload.
func (w *Watcher) OnChange(cb ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	now := time.Now()
	if now.Sub(w.lastReload) < w.reloadDelay {
		return
	}
	w.lastReload = now
	time.AfterFunc(w.reloadDelay, w.reload)
}

func (w *Watcher) reload() {
	newCfg, err := w.loader.Load()
	if err != nil {
		return
	}

	w.mu.RLock()
	oldCfg := w.config
	w.mu.RUnlock()

	for _, cb := range w.callbacks {
		if err := cb(oldCfg, newCfg); err != nil {
			return
		}
	}

	w.mu.Lock()
	w.config = newCfg
	w.mu.Unlock()
}
