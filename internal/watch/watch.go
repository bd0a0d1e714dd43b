// Package watch rebuilds a project whenever its sources or configuration
// change. Filesystem events are debounced and builds never overlap.
package watch

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/skypages/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc runs one build. Its error is logged; watching continues.
type BuildFunc func(ctx context.Context) error

// Watcher watches source directories and a configuration file.
type Watcher struct {
	dirs       []string
	configPath string
	debounce   time.Duration
	build      BuildFunc
	logger     *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a Watcher over dirs (watched recursively) and configPath.
func New(dirs []string, configPath string, build BuildFunc, opts ...Option) *Watcher {
	w := &Watcher{
		dirs:       dirs,
		configPath: configPath,
		debounce:   DefaultDebounce,
		build:      build,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run builds once, then rebuilds on every debounced change until ctx is
// done. Builds run on the calling goroutine, one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() {
		_ = fw.Close()
	}()

	for _, dir := range w.dirs {
		if err := w.addDirsRecursive(fw, dir); err != nil {
			return err
		}
	}
	if w.configPath != "" {
		// The directory is watched because editors replace files on save.
		if err := fw.Add(filepath.Dir(w.configPath)); err != nil {
			return fmt.Errorf("watch config directory: %w", err)
		}
	}

	rebuildReq, trigger, stop := newDebouncer(w.debounce)
	defer stop()

	eventsDone := make(chan struct{})
	go func() {
		defer close(eventsDone)
		w.eventLoop(ctx, fw, trigger)
	}()

	w.runBuild(ctx)
	for {
		select {
		case <-ctx.Done():
			<-eventsDone
			return nil
		case <-eventsDone:
			return nil
		case <-rebuildReq:
			w.runBuild(ctx)
		}
	}
}

func (w *Watcher) runBuild(ctx context.Context) {
	if err := w.build(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
		w.logger.Error("Rebuild failed", logfields.Error(err))
	}
}

func (w *Watcher) eventLoop(ctx context.Context, fw *fsnotify.Watcher, trigger func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = w.addDirsRecursive(fw, ev.Name)
				}
			}
			w.logger.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// relevant filters events: anything under a watched source directory except
// editor noise, and only the configuration file itself in its directory.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if w.configPath != "" && filepath.Dir(ev.Name) == filepath.Dir(w.configPath) && !w.underSources(ev.Name) {
		return filepath.Base(ev.Name) == filepath.Base(w.configPath)
	}
	return !shouldIgnoreEvent(ev.Name)
}

func (w *Watcher) underSources(path string) bool {
	for _, dir := range w.dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// newDebouncer returns a channel that receives once per burst of trigger
// calls, after d of quiet.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return req, trigger, stop
}

// shouldIgnoreEvent returns true for files that never affect a build.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
