package fanlog

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// DefaultDebounce is how long a Watcher waits after the last change event
// before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads the verbosity threshold of a Logger whenever its TOML
// configuration file changes. Only verbosity is reloaded: sinks are
// registered for the lifetime of the Logger and are never added or removed
// by a reload.
//
// The parent directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are picked up.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *Logger
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewWatcher creates a Watcher for the configuration file at path. A
// non-positive debounce selects DefaultDebounce.
func NewWatcher(l *Logger, path string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   l,
		done:     make(chan struct{}),
	}
}

// Start begins watching. The watch loop runs until ctx is done; Done is
// closed once it has exited and released the underlying watcher. When Start
// fails, Done is closed before it returns. Start must be called at most once.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		close(w.done)
		return errors.Wrap(err, "fanlog: cannot create file watcher")
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		close(w.done)
		return errors.Wrapf(err, "fanlog: cannot watch %s", w.path)
	}
	w.watcher = fw

	w.logger.Log(1, "Config watcher started for ", w.path)
	go w.watch(ctx)
	return nil
}

// Done returns a channel that is closed when the watch loop has stopped or
// Start has failed. It is never closed if Start is not called.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.done)
	defer w.watcher.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Log(1, "Config watcher stopped for ", w.path)
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			w.logger.Log(2, "Config change detected: ", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Log(WARNING, "Config watcher error: ", err)
		}
	}
}

func (w *Watcher) reload() {
	c, err := LoadConfig(w.path)
	if err != nil {
		w.logger.Log(WARNING, "Cannot reload ", w.path, ": ", err)
		return
	}
	if c.Verbosity == w.logger.V() {
		return
	}
	w.logger.SetV(c.Verbosity)
	w.logger.Log(INFO, "Verbosity set to ", c.Verbosity.Tag(), " from ", w.path)
}
