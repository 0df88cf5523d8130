// SPDX-License-Identifier: MPL-2.0

// Package watch notifies about edits to a small set of files with a debounced
// callback.
//
// Only the listed directories are watched, non-recursively; events are
// filtered by doublestar patterns on the file's base name. Editors commonly
// save by writing a temp file and renaming it over the original, so watching
// the parent directory is more reliable than watching the file itself.
// Events within the debounce window are coalesced into one callback.
package watch

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing OnChange after the last event.
const defaultDebounce = 300 * time.Millisecond

type (
	// Target is one watched directory and the base-name patterns selecting
	// which of its entries matter.
	Target struct {
		Dir      string
		Patterns []string
	}

	// Config holds the parameters for a Watcher.
	Config struct {
		Targets []Target

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange receives the deduplicated absolute paths that changed.
		// A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		Logger *log.Logger
	}

	// Watcher monitors the configured targets. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		targets  map[string][]string // absolute dir -> patterns
		debounce time.Duration
		logger   *log.Logger
		started  atomic.Bool
	}
)

// ForFiles builds targets watching exactly the given files. Files sharing a
// directory share a target.
func ForFiles(paths ...string) []Target {
	byDir := make(map[string][]string)
	var order []string
	for _, p := range paths {
		dir := filepath.Dir(p)
		if _, ok := byDir[dir]; !ok {
			order = append(order, dir)
		}
		byDir[dir] = append(byDir[dir], filepath.Base(p))
	}
	targets := make([]Target, 0, len(order))
	for _, dir := range order {
		targets = append(targets, Target{Dir: dir, Patterns: byDir[dir]})
	}
	return targets
}

// New creates a Watcher. Target directories that do not exist yet are
// skipped; the returned Watcher still runs and simply never fires for them.
func New(cfg Config) (*Watcher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	targets := make(map[string][]string, len(cfg.Targets))
	for _, t := range cfg.Targets {
		// Validate eagerly so invalid globs fail at construction time.
		if err := validatePatterns(t.Patterns); err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(t.Dir)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %q: %w", t.Dir, err)
		}
		targets[abs] = append(targets[abs], t.Patterns...)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	for _, dir := range slices.Sorted(maps.Keys(targets)) {
		info, statErr := os.Stat(dir)
		if statErr != nil || !info.IsDir() {
			logger.Debug("watch: skipping missing directory", "dir", dir)
			continue
		}
		if addErr := fsw.Add(dir); addErr != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("watch: add directory %q: %w", dir, addErr)
		}
	}

	return &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		targets:  targets,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// WatchedDirs returns the directories actually registered with fsnotify.
func (w *Watcher) WatchedDirs() []string {
	dirs := w.fsw.WatchList()
	slices.Sort(dirs)
	return dirs
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after cancellation via time.AfterFunc, hence the ctx
	// check. Callbacks never overlap; a busy callback reschedules instead.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Warn("watch: callback failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("watch: close fsnotify", "err", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if !w.matches(evt.Name) {
				continue
			}
			w.logger.Debug("watch: event", "path", evt.Name, "op", evt.Op.String())

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "err", err)
		}
	}
}

// matches reports whether path is selected by the patterns of its directory's target.
func (w *Watcher) matches(path string) bool {
	patterns, ok := w.targets[filepath.Dir(path)]
	if !ok {
		return false
	}
	name := filepath.Base(path)
	for _, pat := range patterns {
		if pat == name {
			return true
		}
		if matched, err := doublestar.Match(pat, name); err == nil && matched {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid pattern %q", pat)
		}
	}
	return nil
}
