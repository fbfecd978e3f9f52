package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProjectID_Deterministic(t *testing.T) {
	a := ProjectID("/home/dev/my-app")
	b := ProjectID("/home/dev/my-app")
	if a != b {
		t.Errorf("same path gave different IDs: %q vs %q", a, b)
	}
	// Cleaning happens before hashing.
	c := ProjectID("/home/dev/my-app/")
	if a != c {
		t.Errorf("trailing slash changed ID: %q vs %q", a, c)
	}
}

func TestProjectID_Shape(t *testing.T) {
	id := ProjectID("/home/dev/my-app")
	if !strings.HasPrefix(id, "my-app_") {
		t.Errorf("ID = %q, want prefix %q", id, "my-app_")
	}
	suffix := strings.TrimPrefix(id, "my-app_")
	if len(suffix) != 8 {
		t.Errorf("hash suffix length = %d, want 8", len(suffix))
	}
}

func TestProjectID_DistinctPathsSameName(t *testing.T) {
	a := ProjectID("/home/alice/app")
	b := ProjectID("/home/bob/app")
	if a == b {
		t.Errorf("different paths with same base name collided: %q", a)
	}
}

func TestResolve_RegistersAndPersists(t *testing.T) {
	root := t.TempDir()
	r := Open(root)

	rec := r.Resolve("/home/dev/my-app")
	if rec.ProjectID != ProjectID("/home/dev/my-app") {
		t.Errorf("record ID = %q, want %q", rec.ProjectID, ProjectID("/home/dev/my-app"))
	}
	if rec.Name != "my-app" {
		t.Errorf("record name = %q, want %q", rec.Name, "my-app")
	}
	if _, err := os.Stat(rec.StoragePath); err != nil {
		t.Errorf("storage path not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, RegistryFile)); err != nil {
		t.Errorf("registry document not written: %v", err)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	root := t.TempDir()
	r := Open(root)

	first := r.Resolve("/home/dev/my-app")
	second := r.Resolve("/home/dev/my-app")
	if first != second {
		t.Errorf("second Resolve returned a different record:\n%+v\n%+v", first, second)
	}
	if len(r.Records()) != 1 {
		t.Errorf("record count = %d, want 1", len(r.Records()))
	}
}

func TestOpen_SurvivesCorruptDocument(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, RegistryFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := Open(root)
	if len(r.Records()) != 0 {
		t.Errorf("corrupt document should yield empty registry, got %d records", len(r.Records()))
	}
	// Re-registration derives the same identity as before the corruption.
	rec := r.Resolve("/home/dev/my-app")
	if rec.ProjectID != ProjectID("/home/dev/my-app") {
		t.Errorf("re-registered ID = %q, want deterministic %q", rec.ProjectID, ProjectID("/home/dev/my-app"))
	}
}

func TestOpen_RoundTrip(t *testing.T) {
	root := t.TempDir()
	first := Open(root)
	want := first.Resolve("/home/dev/my-app")

	second := Open(root)
	got := second.Lookup("/home/dev/my-app")
	if got == nil {
		t.Fatal("reloaded registry lost the record")
	}
	if *got != want {
		t.Errorf("reloaded record differs:\n%+v\n%+v", *got, want)
	}
}

func TestLookup_ByNameAndID(t *testing.T) {
	root := t.TempDir()
	r := Open(root)
	rec := r.Resolve("/home/dev/my-app")

	if got := r.Lookup("my-app"); got == nil || got.ProjectID != rec.ProjectID {
		t.Errorf("lookup by name failed: %+v", got)
	}
	if got := r.Lookup(rec.ProjectID); got == nil || got.Path != rec.Path {
		t.Errorf("lookup by ID failed: %+v", got)
	}
	if got := r.Lookup("no-such-project"); got != nil {
		t.Errorf("lookup of unknown query = %+v, want nil", got)
	}
}
