package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/droidpartment/dpt-memory/internal/registry"
	"github.com/droidpartment/dpt-memory/internal/scanner"
)

// Rendering limits for the structure document. They keep the document
// skimmable for large trees; the full inventory lives in index.json.
const (
	structureMaxKeyFiles   = 10
	structureMaxTreeFiles  = 5
	structureMaxTreeDirs   = 10
	structureMaxTreeDepth  = 3
	structureMaxCodeDirs   = 15
	structureMaxExtensions = 10
)

// StructureDocument renders the human-readable structure document for
// an index. The rendering is deterministic: fixed category order,
// alphabetical tree iteration, histogram sorted by count descending
// with name as tiebreak.
func StructureDocument(idx *scanner.ProjectIndex) string {
	var sb strings.Builder

	framework := idx.Framework
	if framework == "" {
		framework = "none"
	}
	fmt.Fprintf(&sb, "# Project Structure: %s\n\n", idx.Name)
	fmt.Fprintf(&sb, "**Type:** %s\n", idx.Type)
	fmt.Fprintf(&sb, "**Framework:** %s\n", framework)
	fmt.Fprintf(&sb, "**Files:** %d\n", idx.Stats.TotalFiles)
	fmt.Fprintf(&sb, "**Directories:** %d\n", idx.Stats.TotalDirs)
	fmt.Fprintf(&sb, "**Indexed:** %s\n\n", idx.IndexedAt)

	sb.WriteString("## Key Files\n\n")
	for _, cat := range scanner.KeyFileCategories {
		files := idx.KeyFiles[cat]
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "### %s\n", titleCase(cat))
		for i, f := range files {
			if i == structureMaxKeyFiles {
				break
			}
			fmt.Fprintf(&sb, "- `%s`\n", f)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Directory Structure\n\n```\n")
	formatTree(&sb, idx.Tree, 0)
	sb.WriteString("```\n\n")

	sb.WriteString("## Code Locations\n\n")
	for i, d := range idx.Relationships.DirectoriesWithCode {
		if i == structureMaxCodeDirs {
			break
		}
		fmt.Fprintf(&sb, "- `%s/`\n", d)
	}

	sb.WriteString("\n## File Types\n\n")
	for _, ec := range sortedExtensions(idx.Stats.ByExtension, structureMaxExtensions) {
		fmt.Fprintf(&sb, "- `%s`: %d files\n", ec.ext, ec.count)
	}

	return sb.String()
}

// writeStructure regenerates STRUCTURE.md in the project's storage
// folder. Best effort: a stale structure document is harmless.
func (s *Store) writeStructure(rec registry.Record, idx *scanner.ProjectIndex) {
	path := filepath.Join(rec.StoragePath, StructureFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(StructureDocument(idx)), 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, path)
}

// formatTree renders the nested tree: up to five files per directory
// followed by an elision marker, then up to ten subdirectories in
// alphabetical order, three levels deep.
func formatTree(sb *strings.Builder, node *scanner.TreeNode, depth int) {
	if node == nil || depth > structureMaxTreeDepth {
		return
	}
	indent := strings.Repeat("  ", depth)

	for i, f := range node.Files {
		if i == structureMaxTreeFiles {
			break
		}
		fmt.Fprintf(sb, "%s├── %s\n", indent, f)
	}
	if extra := len(node.Files) - structureMaxTreeFiles; extra > 0 {
		fmt.Fprintf(sb, "%s├── ... (%d more files)\n", indent, extra)
	}

	names := make([]string, 0, len(node.Dirs))
	for name := range node.Dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > structureMaxTreeDirs {
		names = names[:structureMaxTreeDirs]
	}

	for i, name := range names {
		prefix := "├──"
		if i == len(names)-1 {
			prefix = "└──"
		}
		fmt.Fprintf(sb, "%s%s %s/\n", indent, prefix, name)
		formatTree(sb, node.Dirs[name], depth+1)
	}
}

type extCount struct {
	ext   string
	count int
}

// sortedExtensions returns the histogram sorted by count descending,
// extension ascending for equal counts, truncated to max entries.
func sortedExtensions(byExt map[string]int, max int) []extCount {
	out := make([]extCount, 0, len(byExt))
	for ext, count := range byExt {
		out = append(out, extCount{ext, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].ext < out[j].ext
	})
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// titleCase uppercases the first byte; categories are ASCII.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
