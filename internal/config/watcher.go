package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/vent/internal/logging"
)

// Watcher reloads a configuration file when it changes on disk.
// The file's directory is watched so editors that replace the file on save
// are still noticed.
type Watcher struct {
	mu sync.Mutex

	path    string
	watcher *fsnotify.Watcher
	config  watcherConfig

	timer *time.Timer

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

type watcherConfig struct {
	delay    time.Duration
	onChange func(*Config)
	onError  func(error)
	logger   *logging.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*watcherConfig)

// WithDebounce sets how long the watcher waits for changes to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(c *watcherConfig) {
		if d > 0 {
			c.delay = d
		}
	}
}

// OnChange sets the callback receiving each successfully reloaded config.
func OnChange(fn func(*Config)) WatcherOption {
	return func(c *watcherConfig) {
		c.onChange = fn
	}
}

// OnError sets the callback receiving reload and watch errors.
func OnError(fn func(error)) WatcherOption {
	return func(c *watcherConfig) {
		c.onError = fn
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(c *watcherConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewWatcher starts watching path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	cfg := watcherConfig{
		delay:  100 * time.Millisecond,
		logger: logging.Null,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.logger = cfg.logger.WithComponent("config")

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    absPath,
		watcher: fsw,
		config:  cfg,
		closeCh: make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.closedWg.Wait()
	return w.watcher.Close()
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.delay, w.reload)
}

// reload loads the file and hands the result to the callback.
func (w *Watcher) reload() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		w.report(err)
		return
	}

	w.config.logger.Info("reloaded %s", w.path)
	if w.config.onChange != nil {
		w.config.onChange(cfg)
	}
}

func (w *Watcher) report(err error) {
	w.config.logger.Warn("watch %s: %v", w.path, err)
	if w.config.onError != nil {
		w.config.onError(err)
	}
}
