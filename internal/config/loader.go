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

// Loader loads the configuration once and watches the file afterwards.
// The locale registry is immutable for the process lifetime, so a change
// on disk is not hot-swapped: the watcher only tells the user a restart
// is needed, after checking that the edited file still parses.
type Loader struct {
	path    string
	log     *slog.Logger
	config  *Config
	mu      sync.RWMutex
	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewLoader creates a new configuration loader.
func NewLoader(path string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		path:   path,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Load reads, parses, and validates the configuration file.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg, err := Load(l.path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := ValidateSchema(cfg); err != nil {
		return nil, err
	}

	l.config = cfg
	return cfg, nil
}

// Config returns the loaded configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// Watch starts watching the configuration file for changes.
func (l *Loader) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	l.watcher = watcher

	// Watch the directory; editors often replace the file wholesale.
	dir := filepath.Dir(l.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go l.watchLoop()

	return nil
}

func (l *Loader) watchLoop() {
	var debounceTimer *time.Timer
	debounceDelay := 100 * time.Millisecond

	for {
		select {
		case <-l.ctx.Done():
			return

		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(l.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, l.changed)

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			l.log.Warn("config watch error", "error", err)
		}
	}
}

// changed reports a config file edit. The new file is parsed so typos
// surface immediately, but the running registry keeps the old values.
func (l *Loader) changed() {
	cfg, err := Load(l.path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		l.log.Warn("config file changed but does not parse", "path", l.path, "error", err)
		return
	}
	l.log.Warn("config file changed; restart imeswitchd to apply", "path", l.path)
}

// Close stops the watcher and releases resources.
func (l *Loader) Close() error {
	l.cancel()
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}
