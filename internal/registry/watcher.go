package registry

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Holder publishes the current registry to concurrent readers.
type Holder struct {
	current atomic.Pointer[Registry]
}

// NewHolder returns a holder serving reg.
func NewHolder(reg *Registry) *Holder {
	h := &Holder{}
	h.current.Store(reg)
	return h
}

// Current returns the registry in effect.
func (h *Holder) Current() *Registry { return h.current.Load() }

// Swap replaces the registry.
func (h *Holder) Swap(reg *Registry) { h.current.Store(reg) }

// Watcher reloads the registry when map files change. An invalid reload is
// logged and the previous registry stays in place.
type Watcher struct {
	patterns []string
	holder   *Holder
	logger   *slog.Logger
	debounce time.Duration
	onReload func(*Registry, error)
}

// NewWatcher creates a watcher for the given glob patterns.
func NewWatcher(patterns []string, holder *Holder, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		patterns: patterns,
		holder:   holder,
		logger:   logger,
		debounce: 250 * time.Millisecond,
	}
}

// OnReload registers a callback invoked after every reload attempt.
func (w *Watcher) OnReload(fn func(*Registry, error)) { w.onReload = fn }

// Run watches the directories holding the matched files, plus the static
// prefix of each pattern, until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	dirs, err := w.watchDirs()
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			w.logger.Warn("cannot watch map directory", "dir", d, "error", err)
		}
	}
	w.logger.Info("watching map files", "dirs", dirs)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		case <-fire:
			fire = nil
			w.Reload()
		}
	}
}

// Reload loads the map files once and swaps the registry on success.
func (w *Watcher) Reload() {
	reg, err := LoadFiles(w.patterns)
	if err != nil {
		w.logger.Error("map reload rejected, keeping previous maps", "error", err)
	} else {
		w.holder.Swap(reg)
		w.logger.Info("maps reloaded", "maps", reg.Len(), "components", reg.ComponentCount())
	}
	if w.onReload != nil {
		w.onReload(reg, err)
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	ext := filepath.Ext(ev.Name)
	return ext == ".yml" || ext == ".yaml"
}

func (w *Watcher) watchDirs() ([]string, error) {
	files, err := ResolveFiles(w.patterns)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var dirs []string
	add := func(d string) {
		if d == "" {
			d = "."
		}
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	for _, f := range files {
		add(filepath.Dir(f))
	}
	for _, p := range w.patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		add(filepath.FromSlash(base))
	}
	return dirs, nil
}
