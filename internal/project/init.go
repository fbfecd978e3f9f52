package project

import (
	"fmt"
	"path/filepath"
	"strings"
)

// InitResult reports what initializing project memory did. Feedback is
// a short ordered list of human-readable progress lines suitable for
// direct display by the host.
type InitResult struct {
	ProjectID   string   `json:"project_id"`
	ProjectName string   `json:"project_name"`
	ProjectPath string   `json:"project_path"`
	StoragePath string   `json:"storage_path"`
	IsFirstTime bool     `json:"is_first_time"`
	FileCount   int      `json:"file_count"`
	Type        string   `json:"type"`
	Framework   string   `json:"framework,omitempty"`
	Feedback    []string `json:"feedback"`
}

// Initialize sets up project memory for a path: registers it, indexes
// the structure (forcing a fresh scan on first sight), and writes the
// derived documents. Safe to call repeatedly; later calls refresh
// rather than duplicate.
func (s *Store) Initialize(projectPath string) (*InitResult, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("project: resolve path: %w", err)
	}

	isFirstTime := !s.IsIndexed(abs)
	rec := s.reg.Resolve(abs)

	idx, err := s.Index(abs, isFirstTime)
	if err != nil {
		return nil, err
	}

	res := &InitResult{
		ProjectID:   rec.ProjectID,
		ProjectName: rec.Name,
		ProjectPath: abs,
		StoragePath: rec.StoragePath,
		IsFirstTime: isFirstTime,
		FileCount:   idx.Stats.TotalFiles,
		Type:        idx.Type,
		Framework:   idx.Framework,
	}

	if isFirstTime {
		res.Feedback = append(res.Feedback,
			fmt.Sprintf("📂 First-time project detected: %s", rec.Name))
	} else {
		res.Feedback = append(res.Feedback,
			fmt.Sprintf("📂 Project already known: %s", rec.ProjectID))
	}
	res.Feedback = append(res.Feedback,
		fmt.Sprintf("✅ Indexed %d files across %d directories", idx.Stats.TotalFiles, idx.Stats.TotalDirs))
	if idx.Framework != "" {
		res.Feedback = append(res.Feedback,
			fmt.Sprintf("🔍 Detected: %s (%s)", idx.Type, idx.Framework))
	} else {
		res.Feedback = append(res.Feedback,
			fmt.Sprintf("🔍 Detected: %s", idx.Type))
	}
	res.Feedback = append(res.Feedback,
		fmt.Sprintf("💾 Memory folder: %s", rec.StoragePath))

	return res, nil
}

// Summary renders the single-line pipe-delimited project summary used
// for context injection: name, type, framework, counts, up to five
// code directories and three entry points.
func (s *Store) Summary(projectPath string) string {
	if projectPath == "" {
		projectPath = s.CurrentProject()
	}
	if projectPath == "" {
		return "[No project indexed]"
	}

	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return "[No project indexed]"
	}

	idx := s.Load(abs)
	if idx == nil {
		return fmt.Sprintf("[Project %s not indexed]", filepath.Base(abs))
	}

	framework := idx.Framework
	if framework == "" {
		framework = "none"
	}
	parts := []string{
		fmt.Sprintf("Project: %s (%s)", idx.Name, idx.Type),
		fmt.Sprintf("Framework: %s", framework),
		fmt.Sprintf("Files: %d | Dirs: %d", idx.Stats.TotalFiles, idx.Stats.TotalDirs),
	}

	codeDirs := idx.Relationships.DirectoriesWithCode
	if len(codeDirs) > 5 {
		codeDirs = codeDirs[:5]
	}
	if len(codeDirs) > 0 {
		parts = append(parts, fmt.Sprintf("Code in: %s", strings.Join(codeDirs, ", ")))
	}

	entries := idx.Relationships.EntryPoints
	if len(entries) > 3 {
		entries = entries[:3]
	}
	if len(entries) > 0 {
		parts = append(parts, fmt.Sprintf("Entry: %s", strings.Join(entries, ", ")))
	}

	return strings.Join(parts, " | ")
}
