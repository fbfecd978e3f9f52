// Package watch feeds live filesystem events into the incremental
// index updater.
//
// It is an optional alternative to the host's tool-use hooks: instead
// of being told about file changes, dpt-memory observes them directly.
// Events are debounced per path because editors and build tools fire
// bursts of writes for a single logical change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/droidpartment/dpt-memory/internal/project"
	"github.com/droidpartment/dpt-memory/internal/scanner"
)

// defaultDebounce suppresses duplicate events for the same path
// arriving within this window.
const defaultDebounce = 500 * time.Millisecond

// Watcher mirrors filesystem changes of one project into its index.
type Watcher struct {
	store       *project.Store
	projectPath string
	log         *zap.Logger

	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// New creates a Watcher for projectPath. The project should already be
// indexed; unindexed projects make every event a no-op.
func New(store *project.Store, projectPath string, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(projectPath)
	if err != nil {
		fw.Close()
		return nil, err
	}

	return &Watcher{
		store:       store,
		projectPath: abs,
		log:         logger,
		watcher:     fw,
		debounce:    defaultDebounce,
		lastSeen:    map[string]time.Time{},
	}, nil
}

// Run watches until the context is cancelled. It registers the project
// root and every non-denied subdirectory (fsnotify does not recurse),
// and adds new directories as they appear.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.addRecursive(w.projectPath); err != nil {
		return err
	}
	w.log.Info("watching project", zap.String("path", w.projectPath))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	name := filepath.Base(event.Name)

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !scanner.ShouldSkipDir(name) {
				_ = w.addRecursive(event.Name)
			}
			return
		}
	}
	if scanner.ShouldSkipFile(name) || w.inDeniedDir(event.Name) {
		return
	}
	if !w.pass(event.Name) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		w.store.UpdateOnFileChange(w.projectPath, event.Name, project.ActionCreated)
	case event.Op.Has(fsnotify.Write):
		w.store.UpdateOnFileChange(w.projectPath, event.Name, project.ActionModified)
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.store.UpdateOnFileChange(w.projectPath, event.Name, project.ActionDeleted)
	}
}

// pass applies the per-path debounce window.
func (w *Watcher) pass(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if last, ok := w.lastSeen[path]; ok && now.Sub(last) < w.debounce {
		return false
	}
	w.lastSeen[path] = now
	return true
}

// inDeniedDir reports whether any path component between the project
// root and the file is on the scanner's deny list.
func (w *Watcher) inDeniedDir(path string) bool {
	rel, err := filepath.Rel(w.projectPath, path)
	if err != nil {
		return true
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, p := range parts[:max(len(parts)-1, 0)] {
		if scanner.ShouldSkipDir(p) {
			return true
		}
	}
	return false
}

// addRecursive registers a directory and all its non-denied
// descendants with the underlying watcher.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees are omitted, as in scans
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && scanner.ShouldSkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if werr := w.watcher.Add(path); werr != nil {
			w.log.Debug("cannot watch directory", zap.String("path", path), zap.Error(werr))
		}
		return nil
	})
}
