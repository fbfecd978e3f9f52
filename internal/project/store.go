// Package project persists and serves project structural indexes.
//
// It sits between the scanner and every consumer of project memory:
// full indexing with a staleness window, incremental patching on
// single-file changes, the quick file-lookup document, the
// human-readable structure document, and file targeting queries that
// let agents find files without shelling out to ls or find.
//
// All persistence is whole-file JSON written as write-new-then-rename:
// concurrent hook processes race last-writer-wins, but a reader never
// sees a torn document and a failed write leaves the previous good
// version intact.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/droidpartment/dpt-memory/internal/registry"
	"github.com/droidpartment/dpt-memory/internal/scanner"
)

const (
	// IndexFile is the structural index document in a project's
	// storage folder.
	IndexFile = "index.json"
	// FilesFile is the quick file-lookup document.
	FilesFile = "files.json"
	// StructureFile is the human-readable structure document.
	StructureFile = "STRUCTURE.md"
	// StateFile is the memory-root document tracking which projects
	// are indexed, the current project, and recent modifications.
	StateFile = "state.json"
)

// Options configures a Store.
type Options struct {
	MemoryRoot string
	// StaleAfter is how old an index may be before Index rescans.
	StaleAfter time.Duration
	// ModificationRetention caps the tracked modification history.
	ModificationRetention int
	Logger                *zap.Logger
}

// Store owns index persistence for all projects under one memory root.
type Store struct {
	reg          *registry.Registry
	memoryRoot   string
	staleAfter   time.Duration
	modRetention int
	log          *zap.Logger
}

// New creates a Store. A nil logger is replaced with a no-op logger.
func New(reg *registry.Registry, opts Options) *Store {
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 7 * 24 * time.Hour
	}
	if opts.ModificationRetention <= 0 {
		opts.ModificationRetention = 100
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Store{
		reg:          reg,
		memoryRoot:   opts.MemoryRoot,
		staleAfter:   opts.StaleAfter,
		modRetention: opts.ModificationRetention,
		log:          opts.Logger,
	}
}

// ─── Indexing ────────────────────────────────────────────────────────────────

// Index returns the structural index for a project. When a persisted
// index exists and is younger than the staleness window, it is
// returned as-is unless force is set; otherwise the project is
// rescanned and every derived document is rewritten.
func (s *Store) Index(projectPath string, force bool) (*scanner.ProjectIndex, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("project: resolve path: %w", err)
	}

	state := s.loadState()
	if !force {
		if info, ok := state.ProjectsIndexed[abs]; ok {
			if at, perr := time.Parse(time.RFC3339, info.IndexedAt); perr == nil && time.Since(at) < s.staleAfter {
				if idx := s.Load(abs); idx != nil {
					return idx, nil
				}
			}
		}
	}

	idx, err := scanner.Scan(abs)
	if err != nil {
		return nil, err
	}
	s.log.Debug("scanned project",
		zap.String("path", abs),
		zap.Int("files", idx.Stats.TotalFiles),
		zap.Int("dirs", idx.Stats.TotalDirs))

	rec := s.reg.Resolve(abs)
	if err := s.saveIndex(rec, idx); err != nil {
		return nil, err
	}
	// Derived documents follow the index; failures here leave the
	// previous versions in place, which is acceptable for advisory
	// surfaces.
	s.writeQuickLookup(rec, idx, nil)
	s.writeStructure(rec, idx)

	state.ProjectsIndexed[abs] = indexedInfo{
		IndexedAt: time.Now().UTC().Format(time.RFC3339),
		IndexPath: filepath.Join(rec.StoragePath, IndexFile),
		FileCount: idx.Stats.TotalFiles,
	}
	state.CurrentProject = abs
	s.saveState(state)

	return idx, nil
}

// Load reads a project's persisted index. Missing or corrupt files
// yield nil: the project is simply "not yet indexed".
func (s *Store) Load(projectPath string) *scanner.ProjectIndex {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil
	}
	rec := s.reg.Resolve(abs)

	data, err := os.ReadFile(filepath.Join(rec.StoragePath, IndexFile))
	if err != nil {
		return nil
	}
	var idx scanner.ProjectIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil
	}
	return &idx
}

// CurrentProject returns the most recently indexed project path, or
// empty when none is recorded.
func (s *Store) CurrentProject() string {
	return s.loadState().CurrentProject
}

// saveIndex writes the index document atomically.
func (s *Store) saveIndex(rec registry.Record, idx *scanner.ProjectIndex) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("project: marshal index: %w", err)
	}
	if err := os.MkdirAll(rec.StoragePath, 0o755); err != nil {
		return fmt.Errorf("project: create storage dir: %w", err)
	}

	path := filepath.Join(rec.StoragePath, IndexFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("project: write index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("project: replace index: %w", err)
	}
	return nil
}

// ─── Quick lookup document ───────────────────────────────────────────────────

// ChangeMarker records the last incremental change applied, for
// observability in the quick-lookup document.
type ChangeMarker struct {
	File   string `json:"file"`
	Action string `json:"action"`
}

// quickLookup is the files.json document: the parts of the index that
// agents query most, denormalized for cheap reads.
type quickLookup struct {
	Files       []string            `json:"files"`
	Directories []string            `json:"directories"`
	KeyFiles    map[string][]string `json:"key_files"`
	UpdatedAt   string              `json:"updated_at"`
	LastChange  *ChangeMarker       `json:"last_change,omitempty"`
}

// writeQuickLookup rewrites files.json from the given index. Failures
// are swallowed; the document is regenerated on the next operation.
func (s *Store) writeQuickLookup(rec registry.Record, idx *scanner.ProjectIndex, change *ChangeMarker) {
	doc := quickLookup{
		Files:       idx.Files,
		Directories: idx.Directories,
		KeyFiles:    idx.KeyFiles,
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
		LastChange:  change,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return
	}

	path := filepath.Join(rec.StoragePath, FilesFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, path)
}

// ─── Indexed-state document ──────────────────────────────────────────────────

type indexedInfo struct {
	IndexedAt string `json:"indexed_at"`
	IndexPath string `json:"index_path"`
	FileCount int    `json:"file_count"`
}

type modificationInfo struct {
	ModifiedAt string `json:"modified_at"`
	ByTool     string `json:"by_tool"`
}

type stateDoc struct {
	ProjectsIndexed map[string]indexedInfo      `json:"projects_indexed"`
	CurrentProject  string                      `json:"current_project,omitempty"`
	FilesModified   map[string]modificationInfo `json:"files_modified,omitempty"`
	UpdatedAt       string                      `json:"updated_at"`
}

// IsIndexed reports whether the project has ever been indexed (the
// marker survives even when the index document itself was lost).
func (s *Store) IsIndexed(projectPath string) bool {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return false
	}
	_, ok := s.loadState().ProjectsIndexed[abs]
	return ok
}

// RecordModification tracks that a tool touched a file, keeping only
// the newest entries up to the retention cap.
func (s *Store) RecordModification(filePath, tool string) {
	state := s.loadState()
	if state.FilesModified == nil {
		state.FilesModified = map[string]modificationInfo{}
	}
	state.FilesModified[filePath] = modificationInfo{
		ModifiedAt: time.Now().UTC().Format(time.RFC3339),
		ByTool:     tool,
	}

	if len(state.FilesModified) > s.modRetention {
		type kv struct {
			path string
			info modificationInfo
		}
		items := make([]kv, 0, len(state.FilesModified))
		for p, info := range state.FilesModified {
			items = append(items, kv{p, info})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].info.ModifiedAt < items[j].info.ModifiedAt
		})
		items = items[len(items)-s.modRetention:]
		state.FilesModified = make(map[string]modificationInfo, len(items))
		for _, it := range items {
			state.FilesModified[it.path] = it.info
		}
	}

	s.saveState(state)
}

// loadState reads state.json, tolerating absence and corruption.
func (s *Store) loadState() stateDoc {
	doc := stateDoc{ProjectsIndexed: map[string]indexedInfo{}}

	data, err := os.ReadFile(filepath.Join(s.memoryRoot, StateFile))
	if err != nil {
		return doc
	}
	var loaded stateDoc
	if err := json.Unmarshal(data, &loaded); err != nil {
		return doc
	}
	if loaded.ProjectsIndexed == nil {
		loaded.ProjectsIndexed = map[string]indexedInfo{}
	}
	return loaded
}

// saveState persists state.json best-effort.
func (s *Store) saveState(doc stateDoc) {
	doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(s.memoryRoot, 0o755); err != nil {
		return
	}

	path := filepath.Join(s.memoryRoot, StateFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, path)
}
