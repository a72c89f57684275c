// Package watch integrates component sources as they appear under the
// components directory.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/blocksmith/pkg/classify"
	"github.com/gnana997/blocksmith/pkg/component"
	"github.com/gnana997/blocksmith/pkg/discover"
	"github.com/gnana997/blocksmith/pkg/integrate"
)

// DefaultDebounce groups the burst of events an editor emits on save.
const DefaultDebounce = 200 * time.Millisecond

// Integrator runs one integration. *integrate.Orchestrator implements it.
type Integrator interface {
	Run(cfg component.Config) (*integrate.Report, error)
}

// Result is delivered to Options.OnResult after every integration attempt.
type Result struct {
	Entry  discover.Entry
	Report *integrate.Report
	Err    error
}

// Options configure a Watcher.
type Options struct {
	Debounce time.Duration
	// Category restricts integration to one category folder when set.
	Category string
	Matcher  *discover.Matcher
	OnResult func(Result)
}

// Watcher watches a components directory and integrates each source that
// is created or written. Integrations run one at a time.
type Watcher struct {
	fsw        *fsnotify.Watcher
	root       string
	integrator Integrator
	options    Options
	logger     *slog.Logger

	timers   map[string]*time.Timer
	timersMu sync.Mutex

	// runMu serializes integrations.
	runMu sync.Mutex

	stopChan chan struct{}
	done     chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// New creates a Watcher for the components directory root.
func New(root string, integrator Integrator, options Options, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	if options.Matcher == nil {
		m, err := discover.NewMatcher(nil, nil)
		if err != nil {
			return nil, err
		}
		options.Matcher = m
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve components path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		fsw:        fsw,
		root:       absRoot,
		integrator: integrator,
		options:    options,
		logger:     logger,
		timers:     make(map[string]*time.Timer),
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
	}, nil
}

// Start adds watches for root and its subdirectories, creating root if
// needed, and begins processing events in the background.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("watcher already stopped")
	}
	if w.started {
		return errors.New("watcher already started")
	}

	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", w.root, err)
	}
	if err := w.addTree(w.root, false); err != nil {
		return err
	}

	w.started = true
	go w.eventLoop()
	w.logger.Info("watching for component sources", "root", w.root)
	return nil
}

// Stop cancels pending integrations and waits for the running one, if any.
// Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	started := w.started
	close(w.stopChan)
	w.mu.Unlock()

	w.timersMu.Lock()
	for _, timer := range w.timers {
		timer.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.timersMu.Unlock()

	err := w.fsw.Close()
	if started {
		<-w.done
	}

	// Wait out an integration that already fired.
	w.runMu.Lock()
	defer w.runMu.Unlock()

	w.logger.Info("watcher stopped")
	return err
}

// Pending returns the number of debounced integrations not yet run.
func (w *Watcher) Pending() int {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()
	return len(w.timers)
}

// addTree watches dir and its subdirectories. With schedule set, files
// already inside are queued too, covering sources that landed before the
// watch on a new directory was added.
func (w *Watcher) addTree(dir string, schedule bool) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			if schedule {
				w.schedule(p)
			}
			return nil
		}
		if p != w.root && w.ignoredDir(p) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			w.logger.Warn("failed to watch directory", "path", p, "error", err)
		}
		return nil
	})
}

func (w *Watcher) ignoredDir(p string) bool {
	switch filepath.Base(p) {
	case "node_modules", ".git", "__tests__":
		return true
	}
	return false
}

func (w *Watcher) eventLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	w.logger.Debug("file event", "op", event.Op.String(), "file", event.Name)

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if !w.ignoredDir(event.Name) {
				if err := w.addTree(event.Name, true); err != nil {
					w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
		w.schedule(event.Name)

	case event.Has(fsnotify.Write):
		w.schedule(event.Name)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancel(event.Name)
	}
}

// entry maps an absolute path to a discover.Entry if it is a source the
// watcher should integrate.
func (w *Watcher) entry(p string) (discover.Entry, bool) {
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return discover.Entry{}, false
	}
	rel = filepath.ToSlash(rel)
	if !w.options.Matcher.Match(rel) {
		return discover.Entry{}, false
	}
	e, ok := discover.EntryFor(w.root, rel)
	if !ok {
		return discover.Entry{}, false
	}
	if w.options.Category != "" && e.Category != w.options.Category {
		return discover.Entry{}, false
	}
	return e, true
}

// schedule (re)starts the debounce timer for p.
func (w *Watcher) schedule(p string) {
	e, ok := w.entry(p)
	if !ok {
		return
	}

	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if timer, exists := w.timers[p]; exists {
		timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(w.options.Debounce, func() {
		w.timersMu.Lock()
		if w.timers[p] != timer {
			w.timersMu.Unlock()
			return
		}
		delete(w.timers, p)
		w.timersMu.Unlock()

		w.integrate(e)
	})
	w.timers[p] = timer
}

func (w *Watcher) cancel(p string) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()
	if timer, exists := w.timers[p]; exists {
		timer.Stop()
		delete(w.timers, p)
	}
}

func (w *Watcher) integrate(e discover.Entry) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	select {
	case <-w.stopChan:
		return
	default:
	}

	report, err := w.integrator.Run(ConfigFor(e))
	if err != nil {
		w.logger.Warn("auto-integration failed", "component", e.Name, "error", err)
	} else {
		w.logger.Info("auto-integrated component", "component", e.Name, "category", e.Category)
	}
	if w.options.OnResult != nil {
		w.options.OnResult(Result{Entry: e, Report: report, Err: err})
	}
}

// ConfigFor derives an integration config from a discovered source. The
// display name is the title-cased name and the description is generic;
// both can be edited in the generated schema.
func ConfigFor(e discover.Entry) component.Config {
	display := classify.DeriveLabel(component.ToPascalCase(e.Name))
	return component.Config{
		Name:        e.Name,
		DisplayName: display,
		Description: display + " component",
		Category:    e.Category,
	}
}
