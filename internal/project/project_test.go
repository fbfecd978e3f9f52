package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/droidpartment/dpt-memory/internal/registry"
)

// newTestStore creates a Store over a fresh memory root plus a sample
// project directory with a few files.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	memoryRoot := t.TempDir()
	reg := registry.Open(memoryRoot)
	store := New(reg, Options{MemoryRoot: memoryRoot})

	projectDir := filepath.Join(t.TempDir(), "sample-app")
	files := []string{
		"package.json",
		"README.md",
		"src/index.js",
		"src/app.js",
		"src/components/button.jsx",
		"tests/app.test.js",
	}
	for _, f := range files {
		full := filepath.Join(projectDir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return store, projectDir
}

func TestIndex_PersistsAllDocuments(t *testing.T) {
	store, projectDir := newTestStore(t)

	idx, err := store.Index(projectDir, false)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if idx.Stats.TotalFiles != 6 {
		t.Errorf("files = %d, want 6", idx.Stats.TotalFiles)
	}
	if idx.Type != "nodejs" {
		t.Errorf("type = %q, want nodejs", idx.Type)
	}

	storage := store.reg.Resolve(projectDir).StoragePath
	for _, name := range []string{IndexFile, FilesFile, StructureFile} {
		if _, err := os.Stat(filepath.Join(storage, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(store.memoryRoot, StateFile)); err != nil {
		t.Errorf("state document not written: %v", err)
	}
}

func TestIndex_RoundTrip(t *testing.T) {
	store, projectDir := newTestStore(t)

	indexed, err := store.Index(projectDir, false)
	if err != nil {
		t.Fatal(err)
	}
	loaded := store.Load(projectDir)
	if loaded == nil {
		t.Fatal("Load returned nil after Index")
	}
	if len(loaded.Files) != len(indexed.Files) {
		t.Errorf("loaded %d files, indexed %d", len(loaded.Files), len(indexed.Files))
	}
	if loaded.Stats.TotalFiles != len(loaded.Files) {
		t.Errorf("TotalFiles = %d, files = %d", loaded.Stats.TotalFiles, len(loaded.Files))
	}
}

func TestIndex_FreshIndexReused(t *testing.T) {
	store, projectDir := newTestStore(t)

	if _, err := store.Index(projectDir, false); err != nil {
		t.Fatal(err)
	}
	// A file appears on disk after indexing.
	if err := os.WriteFile(filepath.Join(projectDir, "extra.js"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	idx, err := store.Index(projectDir, false)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Stats.TotalFiles != 6 {
		t.Errorf("fresh index should be reused, got %d files", idx.Stats.TotalFiles)
	}

	forced, err := store.Index(projectDir, true)
	if err != nil {
		t.Fatal(err)
	}
	if forced.Stats.TotalFiles != 7 {
		t.Errorf("forced rescan saw %d files, want 7", forced.Stats.TotalFiles)
	}
}

func TestIndex_StaleIndexRescans(t *testing.T) {
	memoryRoot := t.TempDir()
	reg := registry.Open(memoryRoot)
	store := New(reg, Options{MemoryRoot: memoryRoot, StaleAfter: time.Nanosecond})

	projectDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(projectDir, "a.go"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Index(projectDir, false); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(projectDir, "b.go"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	idx, err := store.Index(projectDir, false)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Stats.TotalFiles != 2 {
		t.Errorf("stale index should rescan, got %d files", idx.Stats.TotalFiles)
	}
}

func TestInitialize_FirstTimeThenKnown(t *testing.T) {
	store, projectDir := newTestStore(t)

	first, err := store.Initialize(projectDir)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !first.IsFirstTime {
		t.Error("first Initialize should report first time")
	}
	if first.ProjectName != "sample-app" {
		t.Errorf("name = %q", first.ProjectName)
	}
	if len(first.Feedback) != 4 {
		t.Errorf("feedback lines = %d, want 4", len(first.Feedback))
	}

	second, err := store.Initialize(projectDir)
	if err != nil {
		t.Fatal(err)
	}
	if second.IsFirstTime {
		t.Error("second Initialize should not report first time")
	}
	if second.ProjectID != first.ProjectID {
		t.Errorf("project ID changed: %q vs %q", second.ProjectID, first.ProjectID)
	}
}

func TestSummary(t *testing.T) {
	store, projectDir := newTestStore(t)

	if got := store.Summary(""); got != "[No project indexed]" {
		t.Errorf("empty store summary = %q", got)
	}
	if got := store.Summary(projectDir); !strings.Contains(got, "not indexed") {
		t.Errorf("unindexed project summary = %q", got)
	}

	if _, err := store.Index(projectDir, false); err != nil {
		t.Fatal(err)
	}
	got := store.Summary(projectDir)
	for _, want := range []string{"sample-app", "nodejs", "Files: 6", "src"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}

	// With no explicit path the most recently indexed project is used.
	if got := store.Summary(""); !strings.Contains(got, "sample-app") {
		t.Errorf("current-project summary = %q", got)
	}
}

func TestUpdateOnFileChange_CreateAndDelete(t *testing.T) {
	store, projectDir := newTestStore(t)
	if _, err := store.Index(projectDir, false); err != nil {
		t.Fatal(err)
	}

	store.UpdateOnFileChange(projectDir, filepath.Join(projectDir, "src/new.config.js"), ActionCreated)

	idx := store.Load(projectDir)
	if idx.Stats.TotalFiles != 7 {
		t.Fatalf("files after create = %d, want 7", idx.Stats.TotalFiles)
	}
	if idx.Stats.TotalFiles != len(idx.Files) {
		t.Errorf("TotalFiles = %d, len(Files) = %d", idx.Stats.TotalFiles, len(idx.Files))
	}
	if !containsString(idx.KeyFiles["config"], "src/new.config.js") {
		t.Errorf("created config file not classified: %v", idx.KeyFiles)
	}
	if idx.LastUpdated == "" {
		t.Error("LastUpdated not set")
	}

	// Creating the same file again changes nothing.
	store.UpdateOnFileChange(projectDir, filepath.Join(projectDir, "src/new.config.js"), ActionCreated)
	if got := store.Load(projectDir).Stats.TotalFiles; got != 7 {
		t.Errorf("duplicate create changed count to %d", got)
	}

	store.UpdateOnFileChange(projectDir, filepath.Join(projectDir, "src/new.config.js"), ActionDeleted)
	idx = store.Load(projectDir)
	if idx.Stats.TotalFiles != 6 {
		t.Errorf("files after delete = %d, want 6", idx.Stats.TotalFiles)
	}
	if containsString(idx.KeyFiles["config"], "src/new.config.js") {
		t.Error("deleted file still listed as key file")
	}

	// Key files stay a subset of the file list.
	fileSet := map[string]bool{}
	for _, f := range idx.Files {
		fileSet[f] = true
	}
	for cat, files := range idx.KeyFiles {
		for _, f := range files {
			if !fileSet[f] {
				t.Errorf("key file %s/%s not in file list", cat, f)
			}
		}
	}
}

func TestUpdateOnFileChange_NoOps(t *testing.T) {
	store, projectDir := newTestStore(t)
	if _, err := store.Index(projectDir, false); err != nil {
		t.Fatal(err)
	}
	before := store.Load(projectDir)

	// Modified is structurally inert.
	store.UpdateOnFileChange(projectDir, filepath.Join(projectDir, "src/app.js"), ActionModified)
	if got := store.Load(projectDir).Stats.TotalFiles; got != before.Stats.TotalFiles {
		t.Errorf("modified changed count to %d", got)
	}

	// A file outside the project is rejected.
	store.UpdateOnFileChange(projectDir, "/etc/passwd", ActionCreated)
	if got := store.Load(projectDir).Stats.TotalFiles; got != before.Stats.TotalFiles {
		t.Errorf("outside file changed count to %d", got)
	}

	// Unknown actions are rejected.
	store.UpdateOnFileChange(projectDir, filepath.Join(projectDir, "src/x.js"), "renamed")
	if got := store.Load(projectDir).Stats.TotalFiles; got != before.Stats.TotalFiles {
		t.Errorf("unknown action changed count to %d", got)
	}

	// Deleting a file that is not indexed is silent.
	store.UpdateOnFileChange(projectDir, filepath.Join(projectDir, "src/ghost.js"), ActionDeleted)
	if got := store.Load(projectDir).Stats.TotalFiles; got != before.Stats.TotalFiles {
		t.Errorf("ghost delete changed count to %d", got)
	}
}

func TestLookupQueries(t *testing.T) {
	store, projectDir := newTestStore(t)
	if _, err := store.Index(projectDir, false); err != nil {
		t.Fatal(err)
	}

	if got := store.FilesByPattern(projectDir, "*.jsx"); len(got) != 1 || got[0] != "src/components/button.jsx" {
		t.Errorf("glob match = %v", got)
	}
	// "*" in a glob stops at separators, so "*.js" must still reach
	// files inside subdirectories through the base name.
	if got := store.FilesByPattern(projectDir, "*.js"); len(got) != 3 {
		t.Errorf("nested glob match = %v, want 3 hits", got)
	}
	if got := store.FilesByPattern(projectDir, "src/*.js"); len(got) != 2 {
		t.Errorf("path glob match = %v, want 2 hits", got)
	}
	if got := store.FilesByPattern(projectDir, "app"); len(got) != 2 {
		t.Errorf("substring match = %v, want 2 hits", got)
	}

	if got := store.FilesByExtension(projectDir, "js"); len(got) != 3 {
		t.Errorf("extension js = %v, want 3 hits", got)
	}
	if got := store.FilesByExtension(projectDir, ".jsx"); len(got) != 1 {
		t.Errorf("extension .jsx = %v, want 1 hit", got)
	}

	want := filepath.Join(projectDir, "src", "index.js")
	if got := store.FindFile(projectDir, "index.js"); got != want {
		t.Errorf("FindFile = %q, want %q", got, want)
	}
	if got := store.FindFile(projectDir, "missing.go"); got != "" {
		t.Errorf("FindFile for missing = %q, want empty", got)
	}

	contents := store.DirectoryContents(projectDir, "src")
	if len(contents.Files) != 2 || len(contents.Dirs) != 1 || contents.Dirs[0] != "components" {
		t.Errorf("DirectoryContents = %+v", contents)
	}

	root := store.DirectoryContents(projectDir, "")
	if len(root.Files) != 2 {
		t.Errorf("root files = %v, want package.json and README.md", root.Files)
	}
}

func TestStructureDocument(t *testing.T) {
	store, projectDir := newTestStore(t)
	if _, err := store.Index(projectDir, false); err != nil {
		t.Fatal(err)
	}

	doc := StructureDocument(store.Load(projectDir))
	for _, want := range []string{
		"# Project Structure: sample-app",
		"**Type:** nodejs",
		"## Key Files",
		"### Package",
		"## Directory Structure",
		"## Code Locations",
		"- `src/`",
		"## File Types",
		"`.js`: 3 files",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("structure document missing %q", want)
		}
	}
}

func TestCurrentProject(t *testing.T) {
	store, projectDir := newTestStore(t)
	if store.CurrentProject() != "" {
		t.Error("current project should start empty")
	}
	if _, err := store.Index(projectDir, false); err != nil {
		t.Fatal(err)
	}
	if got := store.CurrentProject(); got != projectDir {
		t.Errorf("current project = %q, want %q", got, projectDir)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
