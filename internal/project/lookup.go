package project

import (
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// File targeting: these queries answer "where is X" from the persisted
// index so agents never need to run ls or find. All of them treat an
// unindexed project as empty rather than an error.

// FilesByPattern returns files matching a glob pattern, falling back
// to case-insensitive substring containment, the same dual matching
// agents expect from shell habits ("*.go" and "handler" both work).
// The glob is tried against both the whole relative path and the base
// name, because path.Match's "*" stops at separators and "*.ext" must
// still find files in subdirectories.
func (s *Store) FilesByPattern(projectPath, pattern string) []string {
	idx := s.Load(projectPath)
	if idx == nil {
		return nil
	}
	patternLower := strings.ToLower(pattern)

	var matches []string
	for _, f := range idx.Files {
		fileLower := strings.ToLower(f)
		if globMatch(patternLower, fileLower) {
			matches = append(matches, f)
			continue
		}
		if strings.Contains(fileLower, patternLower) {
			matches = append(matches, f)
		}
	}
	return matches
}

func globMatch(pattern, file string) bool {
	if ok, err := path.Match(pattern, file); err == nil && ok {
		return true
	}
	ok, err := path.Match(pattern, path.Base(file))
	return err == nil && ok
}

// FilesByExtension returns all files with the given extension; the
// leading dot is optional.
func (s *Store) FilesByExtension(projectPath, extension string) []string {
	idx := s.Load(projectPath)
	if idx == nil {
		return nil
	}
	ext := strings.ToLower(extension)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var matches []string
	for _, f := range idx.Files {
		if strings.HasSuffix(strings.ToLower(f), ext) {
			matches = append(matches, f)
		}
	}
	return matches
}

// FindFile returns the absolute path of the first indexed file whose
// base name matches (case-insensitive), or empty when none does.
func (s *Store) FindFile(projectPath, filename string) string {
	idx := s.Load(projectPath)
	if idx == nil {
		return ""
	}
	want := strings.ToLower(filename)
	for _, f := range idx.Files {
		if strings.ToLower(path.Base(f)) == want {
			return filepath.Join(idx.Path, filepath.FromSlash(f))
		}
	}
	return ""
}

// DirContents lists the direct files and subdirectories of one
// directory inside the project, derived from the flat file inventory.
type DirContents struct {
	Files []string `json:"files"`
	Dirs  []string `json:"dirs"`
}

// DirectoryContents returns the direct contents of a project
// subdirectory.
func (s *Store) DirectoryContents(projectPath, directory string) DirContents {
	out := DirContents{Files: []string{}, Dirs: []string{}}
	idx := s.Load(projectPath)
	if idx == nil {
		return out
	}

	prefix := strings.Trim(filepath.ToSlash(directory), "/")
	if prefix != "" {
		prefix += "/"
	}

	dirSet := map[string]bool{}
	for _, f := range idx.Files {
		if !strings.HasPrefix(f, prefix) {
			continue
		}
		rest := f[len(prefix):]
		if i := strings.Index(rest, "/"); i >= 0 {
			dirSet[rest[:i]] = true
		} else {
			out.Files = append(out.Files, rest)
		}
	}
	for d := range dirSet {
		out.Dirs = append(out.Dirs, d)
	}
	sort.Strings(out.Dirs)
	return out
}
