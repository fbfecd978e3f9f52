package project

import (
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/droidpartment/dpt-memory/internal/scanner"
)

// File-change actions accepted by UpdateOnFileChange.
const (
	ActionCreated  = "created"
	ActionModified = "modified"
	ActionDeleted  = "deleted"
)

// UpdateOnFileChange patches a project's persisted index after a
// single-file event, without rescanning.
//
// created appends the relative path (if absent) and bumps the stats;
// deleted removes it (if present) and decrements; modified changes
// nothing structural, since content edits do not alter the layout. A
// file outside the project, an unindexed project, or an unknown action
// is a silent no-op: this is advisory memory and caller mistakes must
// not crash it. After patching, the quick-lookup document is rewritten
// with a last-change marker so observers can see what moved.
func (s *Store) UpdateOnFileChange(projectPath, filePath, action string) {
	switch action {
	case ActionCreated, ActionModified, ActionDeleted:
	default:
		return
	}

	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return
	}
	idx := s.Load(abs)
	if idx == nil {
		return
	}

	rel, err := filepath.Rel(abs, filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return
	}
	rel = filepath.ToSlash(rel)

	switch action {
	case ActionCreated:
		applyCreate(idx, rel)
	case ActionDeleted:
		applyDelete(idx, rel)
	case ActionModified:
		// Structural no-op.
	}
	idx.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	rec := s.reg.Resolve(abs)
	if err := s.saveIndex(rec, idx); err != nil {
		s.log.Warn("incremental index update not persisted",
			zap.String("project", abs),
			zap.String("file", rel),
			zap.Error(err))
		return
	}
	s.writeQuickLookup(rec, idx, &ChangeMarker{File: filePath, Action: action})

	s.RecordModification(filePath, "agent_"+action)
}

// applyCreate adds one file to the index, keeping the key-file
// classification and extension histogram in step with the file list.
func applyCreate(idx *scanner.ProjectIndex, rel string) {
	for _, f := range idx.Files {
		if f == rel {
			return
		}
	}
	idx.Files = append(idx.Files, rel)
	idx.Stats.TotalFiles++

	if idx.Stats.ByExtension == nil {
		idx.Stats.ByExtension = map[string]int{}
	}
	name := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		name = rel[i+1:]
	}
	idx.Stats.ByExtension[scanner.ExtensionKey(name)]++

	if cat, ok := scanner.ClassifyKeyFile(name); ok {
		if idx.KeyFiles == nil {
			idx.KeyFiles = map[string][]string{}
		}
		idx.KeyFiles[cat] = append(idx.KeyFiles[cat], rel)
	}
}

// applyDelete removes one file from the index, its extension count,
// and any key-file category listing it, otherwise the invariant that
// key files are a subset of the file list would break.
func applyDelete(idx *scanner.ProjectIndex, rel string) {
	found := false
	for i, f := range idx.Files {
		if f == rel {
			idx.Files = append(idx.Files[:i], idx.Files[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return
	}
	idx.Stats.TotalFiles--

	name := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		name = rel[i+1:]
	}
	ext := scanner.ExtensionKey(name)
	if n, ok := idx.Stats.ByExtension[ext]; ok {
		if n <= 1 {
			delete(idx.Stats.ByExtension, ext)
		} else {
			idx.Stats.ByExtension[ext] = n - 1
		}
	}

	for cat, files := range idx.KeyFiles {
		for i, f := range files {
			if f == rel {
				idx.KeyFiles[cat] = append(files[:i], files[i+1:]...)
				break
			}
		}
		if len(idx.KeyFiles[cat]) == 0 {
			delete(idx.KeyFiles, cat)
		}
	}
}
