// Package registry maps absolute project paths to stable on-disk
// storage folders under the memory root.
//
// The mapping is the single source of truth for "where does this
// project's memory live". Project identity is deterministic: the same
// absolute path always yields the same project ID across process
// restarts, so a lost or corrupt registry document is recoverable by
// re-registration.
package registry

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RegistryFile is the registry document filename inside the memory root.
const RegistryFile = "registry.json"

// Record ties one absolute project path to its storage folder.
type Record struct {
	ProjectID    string `json:"project_id"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	StoragePath  string `json:"storage_path"`
	RegisteredAt string `json:"registered_at"`
}

// document is the persisted shape of the registry: one entry per
// absolute project path.
type document struct {
	Projects  map[string]Record `json:"projects"`
	UpdatedAt string            `json:"updated_at"`
}

// Registry owns the path-to-record mapping for one memory root.
type Registry struct {
	memoryRoot  string
	projectsDir string
	doc         document
}

// ProjectID derives the deterministic project identifier for an
// absolute path: the directory base name plus the first 8 hex
// characters of the MD5 of the cleaned path. MD5 is used as a fixed
// content hash, never for security; a runtime-randomized hash here
// would break cross-process identity.
func ProjectID(absPath string) string {
	clean := filepath.Clean(absPath)
	sum := md5.Sum([]byte(clean))
	return fmt.Sprintf("%s_%s", filepath.Base(clean), hex.EncodeToString(sum[:])[:8])
}

// Open loads the registry document from the memory root. A missing or
// corrupt document yields an empty registry: IDs are deterministic, so
// projects simply re-register.
func Open(memoryRoot string) *Registry {
	r := &Registry{
		memoryRoot:  memoryRoot,
		projectsDir: filepath.Join(memoryRoot, "projects"),
		doc:         document{Projects: map[string]Record{}},
	}

	data, err := os.ReadFile(filepath.Join(memoryRoot, RegistryFile))
	if err != nil {
		return r
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return r
	}
	if doc.Projects == nil {
		doc.Projects = map[string]Record{}
	}
	r.doc = doc
	return r
}

// Resolve returns the storage record for an absolute project path,
// creating and persisting it on first sight. Subsequent calls return
// the cached record without recomputing the hash. The storage
// directory is created eagerly so callers can write into it.
func (r *Registry) Resolve(absPath string) Record {
	clean := filepath.Clean(absPath)

	if rec, ok := r.doc.Projects[clean]; ok {
		_ = os.MkdirAll(rec.StoragePath, 0o755)
		return rec
	}

	id := ProjectID(clean)
	rec := Record{
		ProjectID:    id,
		Name:         filepath.Base(clean),
		Path:         clean,
		StoragePath:  filepath.Join(r.projectsDir, id),
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	}
	_ = os.MkdirAll(rec.StoragePath, 0o755)

	r.doc.Projects[clean] = rec
	// A failed persist is swallowed: the next process derives the
	// same deterministic record and re-registers.
	_ = r.save()

	return rec
}

// Lookup finds a record by exact path, then by project name, then by
// project ID. Returns nil when nothing matches. Linear scans are fine
// at the expected cardinality of tens of projects.
func (r *Registry) Lookup(q string) *Record {
	if rec, ok := r.doc.Projects[filepath.Clean(q)]; ok {
		return &rec
	}
	for _, rec := range r.doc.Projects {
		if rec.Name == q {
			return &rec
		}
	}
	for _, rec := range r.doc.Projects {
		if rec.ProjectID == q {
			return &rec
		}
	}
	return nil
}

// Contains reports whether the absolute path is already registered.
func (r *Registry) Contains(absPath string) bool {
	_, ok := r.doc.Projects[filepath.Clean(absPath)]
	return ok
}

// Records returns all registered records.
func (r *Registry) Records() []Record {
	out := make([]Record, 0, len(r.doc.Projects))
	for _, rec := range r.doc.Projects {
		out = append(out, rec)
	}
	return out
}

// save writes the registry document with write-new-then-rename so a
// concurrent reader never sees a torn file.
func (r *Registry) save() error {
	r.doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("registry: marshal: %w", err)
	}
	if err := os.MkdirAll(r.memoryRoot, 0o755); err != nil {
		return fmt.Errorf("registry: create memory root: %w", err)
	}

	path := filepath.Join(r.memoryRoot, RegistryFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("registry: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("registry: replace: %w", err)
	}
	return nil
}
