package watch

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/droidpartment/dpt-memory/internal/project"
	"github.com/droidpartment/dpt-memory/internal/registry"
)

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	memoryRoot := t.TempDir()
	store := project.New(registry.Open(memoryRoot), project.Options{MemoryRoot: memoryRoot})

	w, err := New(store, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = w.watcher.Close() })
	return w
}

func TestPass_Debounce(t *testing.T) {
	w := newTestWatcher(t)
	w.debounce = 50 * time.Millisecond

	p := filepath.Join(w.projectPath, "a.go")
	if !w.pass(p) {
		t.Fatal("first event must pass")
	}
	if w.pass(p) {
		t.Error("immediate duplicate must be suppressed")
	}
	// A different path is independent.
	if !w.pass(filepath.Join(w.projectPath, "b.go")) {
		t.Error("unrelated path must pass")
	}

	time.Sleep(60 * time.Millisecond)
	if !w.pass(p) {
		t.Error("event after the window must pass again")
	}
}

func TestInDeniedDir(t *testing.T) {
	w := newTestWatcher(t)

	tests := []struct {
		rel    string
		denied bool
	}{
		{"src/main.go", false},
		{"node_modules/lodash/index.js", true},
		{"src/.git/HEAD", true},
		{"a/b/c/deep.go", false},
		{"dist/bundle.js", true},
		{"main.go", false},
	}
	for _, tt := range tests {
		p := filepath.Join(w.projectPath, filepath.FromSlash(tt.rel))
		if got := w.inDeniedDir(p); got != tt.denied {
			t.Errorf("inDeniedDir(%s) = %v, want %v", tt.rel, got, tt.denied)
		}
	}

	// A path outside the project is always denied.
	if !w.inDeniedDir("/somewhere/else/x.go") {
		t.Error("outside path must be denied")
	}
}
