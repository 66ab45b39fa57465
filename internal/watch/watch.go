// Package watch exports citation files as they appear in a directory,
// e.g. the browser's download folder.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Defaults for a Watcher.
const (
	DefaultPattern  = "**/*.{bib,html,htm}"
	DefaultDebounce = 250 * time.Millisecond
)

// Handler processes one settled file. Errors are logged and the watch goes on.
type Handler func(ctx context.Context, path string) error

// Watcher calls a Handler for every matching file created or rewritten in a directory.
type Watcher struct {
	dir      string
	pattern  string
	debounce time.Duration
	logger   *zap.Logger
	handler  Handler
	ready    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithPattern sets the doublestar pattern matched against paths relative to the directory.
func WithPattern(pattern string) Option {
	return func(w *Watcher) {
		if pattern != "" {
			w.pattern = pattern
		}
	}
}

// WithDebounce sets how long a file must stay quiet before it is handled.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Watcher for dir.
func New(dir string, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		pattern:  DefaultPattern,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		handler:  handler,
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once the directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Match reports whether path, inside the watched directory, matches the pattern.
func (w *Watcher) Match(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(w.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// Run watches until ctx is cancelled. Handlers run one at a time on the
// calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	if !doublestar.ValidatePattern(w.pattern) {
		return fmt.Errorf("invalid pattern: %s", w.pattern)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("watching for citations", zap.String("dir", w.dir), zap.String("pattern", w.pattern))
	close(w.ready)

	done := make(chan struct{})
	defer close(done)

	settled := make(chan string)
	d := newDebouncer(w.debounce)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !w.Match(ev.Name) {
				w.logger.Debug("ignoring file", zap.String("path", ev.Name))
				continue
			}
			path := ev.Name
			d.trigger(path, func() {
				select {
				case settled <- path:
				case <-done:
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case path := <-settled:
			if err := w.handler(ctx, path); err != nil {
				w.logger.Warn("export failed", zap.String("path", path), zap.Error(err))
				continue
			}
			w.logger.Info("exported", zap.String("path", path))
		}
	}
}

// debouncer delays a callback until a key has been quiet for the delay.
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

func (d *debouncer) trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
