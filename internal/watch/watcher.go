// SPDX-License-Identifier: MPL-2.0

// Package watch reloads a single file when it changes on disk.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temporary file and renaming it over the original
// are still noticed. Bursts of events are coalesced: the callback fires once
// after the file has been quiet for the debounce period.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Path is the file to watch.
		Path string
		// Debounce is the quiet period after the last event before OnChange fires.
		Debounce time.Duration
		// OnChange is called with the watched path once the file settles.
		// Errors are logged and watching continues.
		OnChange func(ctx context.Context, path string) error
		Logger   *log.Logger
	}

	// Watcher fires Config.OnChange after the watched file changes.
	// Run must be called exactly once.
	Watcher struct {
		cfg     Config
		path    string
		fsw     *fsnotify.Watcher
		started atomic.Bool
		logger  *log.Logger
	}
)

// New resolves the path and starts watching its directory.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("watch: empty path")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", cfg.Path, err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{cfg: cfg, path: abs, fsw: fsw, logger: logger}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks until ctx is cancelled or the watcher breaks. It returns nil on
// cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		timer   *time.Timer
		running atomic.Bool
		wg      sync.WaitGroup
	)

	var fire func()

	// schedule (re)arms the debounce timer. Every armed timer holds one wg
	// count, released by fire or by a successful Stop. Callers hold mu.
	schedule := func() {
		switch {
		case timer == nil:
			wg.Add(1)
			timer = time.AfterFunc(w.cfg.Debounce, fire)
		case timer.Stop():
			timer.Reset(w.cfg.Debounce)
		default:
			wg.Add(1)
			timer.Reset(w.cfg.Debounce)
		}
	}

	// fire skips a change that arrives while the previous callback is still
	// running and retries after another debounce period.
	fire = func() {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			schedule()
			mu.Unlock()
			return
		}
		defer running.Store(false)

		if w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, w.path); err != nil {
			w.logger.Error("reload failed", "path", w.path, "error", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		mu.Unlock()
		wg.Wait()
		if err := w.fsw.Close(); err != nil {
			w.logger.Debug("close fsnotify", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if filepath.Clean(evt.Name) != w.path || evt.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("file event", "path", w.path, "op", evt.Op.String())

			mu.Lock()
			schedule()
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}
