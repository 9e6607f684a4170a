// Package watch re-runs a callback when files below a directory change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/logfields"
)

// Watcher monitors a directory tree and triggers a debounced callback.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(ctx context.Context) error
	ignore   func(path string) bool

	watcher *fsnotify.Watcher
	trigger chan struct{}
	logger  *slog.Logger
}

// Option customises a Watcher.
type Option func(*Watcher)

// WithIgnore skips events for paths the predicate accepts, e.g. an output
// directory nested inside the watched source.
func WithIgnore(fn func(path string) bool) Option {
	return func(w *Watcher) { w.ignore = fn }
}

// WithLogger sets the logger used for watch events.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a watcher for root. onChange runs at most once per debounce
// window and never concurrently with itself.
func New(root string, debounce time.Duration, onChange func(ctx context.Context) error, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.FileError("resolve watch root", root, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryWatch, errors.SeverityFatal, "failed to create file watcher")
	}

	w := &Watcher{
		root:     abs,
		debounce: debounce,
		onChange: onChange,
		ignore:   func(string) bool { return false },
		watcher:  fw,
		trigger:  make(chan struct{}, 1),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run blocks until ctx is done or the event stream closes, and does not return
// before a running callback finishes. Directories created while running are watched
// as well.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	if err := w.addTree(w.root); err != nil {
		return err
	}
	w.logger.Info("Watching for changes", logfields.Path(w.root))

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go w.runLoop(loopCtx, done)
	defer func() {
		cancel()
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.ignore(event.Name) || isTempFile(event.Name) {
		return
	}
	if event.Op&fsnotify.Create == fsnotify.Create {
		if err := w.addTree(event.Name); err != nil {
			w.logger.Debug("Could not watch new path", logfields.Path(event.Name), logfields.Error(err))
		}
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.logger.Debug("Change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
	select {
	case w.trigger <- struct{}{}:
	default:
		// run already pending
	}
}

// runLoop debounces triggers and invokes onChange serially.
func (w *Watcher) runLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.trigger:
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.onChange(ctx); err != nil {
				w.logger.Error("Re-run after change failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignore(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrap(err, errors.CategoryWatch, errors.SeverityFatal, "failed to watch directory").
				WithContext("path", path)
		}
		return nil
	})
}

func isTempFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".sitefilter-")
}
