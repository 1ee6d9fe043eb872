// Package configwatch reloads appshell configuration when its files change
// and hands the new configuration to the UI thread.
package configwatch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/GoCodeAlone/appshell"
)

var (
	ErrNoFiles        = errors.New("no files to watch")
	ErrNilOnChange    = errors.New("change callback is nil")
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrClosed         = errors.New("watcher closed")
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reloading.
const DefaultDebounce = 200 * time.Millisecond

// Runner schedules work on the UI thread. appshell.Handle implements it.
type Runner interface {
	RunOnMain(fn appshell.MainThreadFunc)
}

// ChangeFunc receives a freshly loaded configuration on the UI thread.
type ChangeFunc func(h appshell.Handler, cfg *appshell.Config)

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger
func WithLogger(logger appshell.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = appshell.NewComponentLoggerDecorator(logger, "configwatch")
		}
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithFeeders sets the feeders used to rebuild the configuration. When
// unset, each watched file is fed through the YAML or TOML feeder that
// matches its extension.
func WithFeeders(feeders ...appshell.Feeder) Option {
	return func(w *Watcher) {
		w.feeders = feeders
	}
}

// Watcher watches configuration files and reloads on change.
type Watcher struct {
	runner   Runner
	files    map[string]struct{}
	dirs     []string
	feeders  []appshell.Feeder
	onChange ChangeFunc
	debounce time.Duration
	logger   appshell.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	closed  bool
	done    chan struct{}
	reloads int
}

// New creates a watcher for files. Nothing is watched until Start.
func New(runner Runner, files []string, onChange ChangeFunc, opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if onChange == nil {
		return nil, ErrNilOnChange
	}

	w := &Watcher{
		runner:   runner,
		files:    make(map[string]struct{}, len(files)),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   appshell.NewComponentLoggerDecorator(nil, "configwatch"),
		done:     make(chan struct{}),
	}

	seen := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		// Editors often replace files by rename, so the directory is watched.
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}

	for _, opt := range opts {
		opt(w)
	}
	if w.feeders == nil {
		w.feeders = feedersForFiles(files)
	}
	return w, nil
}

// Start begins watching. Events are handled on a background goroutine.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.fsw != nil {
		return ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.fsw = fsw
	w.logger.Info("Watching configuration", "files", len(w.files))

	go w.observe(fsw)
	return nil
}

func (w *Watcher) observe(fsw *fsnotify.Watcher) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Configuration file changed", "file", event.Name, "op", event.Op.String())
			w.scheduleReload()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if err := w.Reload(); err != nil {
			w.logger.Warn("Configuration reload failed, keeping previous configuration", "error", err)
		}
	})
}

// Reload loads the configuration now and, if it is valid, schedules the
// change callback on the UI thread.
func (w *Watcher) Reload() error {
	cfg, err := appshell.LoadConfig(w.feeders...)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.reloads++
	n := w.reloads
	w.mu.Unlock()

	w.logger.Info("Configuration reloaded", "reload", n)
	w.runner.RunOnMain(func(h appshell.Handler) {
		w.onChange(h, cfg)
	})
	return nil
}

// Reloads returns how many successful reloads have happened.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Close stops watching and cancels a pending reload.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	fsw := w.fsw
	w.mu.Unlock()

	if fsw == nil {
		return nil
	}
	err := fsw.Close()
	<-w.done
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}
