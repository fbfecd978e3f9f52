// Package scanner walks a project directory tree and builds its
// structural index: file and directory inventory, per-extension
// counts, key-file classification, and detected project type and
// framework.
//
// Indexing here is deliberately shallow: directory enumeration plus
// filename pattern matching, no parsing of file contents. All
// classification is expressed as ordered rule lists evaluated first
// match wins, so results never depend on map iteration order.
package scanner

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ─── Deny lists ──────────────────────────────────────────────────────────────

// skipDirs are directory names never descended into: version-control
// internals, dependency caches, build output, editor metadata.
var skipDirs = map[string]bool{
	".git":          true,
	"node_modules":  true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	"dist":          true,
	"build":         true,
	".next":         true,
	".nuxt":         true,
	"target":        true,
	"bin":           true,
	"obj":           true,
	".idea":         true,
	".vscode":       true,
	"coverage":      true,
	".pytest_cache": true,
}

// skipExtensions are binary and media extensions excluded from the index.
var skipExtensions = map[string]bool{
	".pyc": true, ".pyo": true, ".exe": true, ".dll": true,
	".so": true, ".dylib": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".ico": true, ".svg": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".mp3": true, ".mp4": true,
}

// codeExtensions mark a directory as code-containing.
var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".jsx": true,
	".tsx": true, ".go": true, ".rs": true, ".java": true,
}

// ─── Classification rules ────────────────────────────────────────────────────

// keyFileRule classifies a filename into a semantic category by
// case-insensitive substring match.
type keyFileRule struct {
	category string
	patterns []string
}

// keyFileRules is evaluated in order; the first category with a
// matching pattern wins and a file lands in at most one category.
var keyFileRules = []keyFileRule{
	{"config", []string{"config", "settings", ".env", "tsconfig", "jsconfig"}},
	{"entry", []string{"main", "index", "app", "server", "__init__"}},
	{"package", []string{"package.json", "requirements.txt", "cargo.toml", "go.mod"}},
	{"readme", []string{"readme"}},
	{"test", []string{"test_", "_test", ".test.", ".spec."}},
	{"types", []string{".d.ts", "types.ts", "interfaces.ts"}},
}

// KeyFileCategories lists the categories in their fixed rule order.
var KeyFileCategories = []string{"config", "entry", "package", "readme", "test", "types"}

// typeRule maps one root marker file to a project type (and sometimes
// a build framework).
type typeRule struct {
	marker    string
	projType  string
	framework string
}

// typeRules is evaluated in order against the project root; first
// existing marker wins.
var typeRules = []typeRule{
	{"package.json", "nodejs", ""},
	{"requirements.txt", "python", ""},
	{"pyproject.toml", "python", ""},
	{"Cargo.toml", "rust", ""},
	{"go.mod", "go", ""},
	{"pom.xml", "java", "maven"},
	{"build.gradle", "java", "gradle"},
	{"Gemfile", "ruby", ""},
	{"composer.json", "php", ""},
}

// frameworkRule maps one root marker file to a web framework name.
type frameworkRule struct {
	marker    string
	framework string
}

// frameworkRules is evaluated in order, independently of typeRules;
// first existing marker wins.
var frameworkRules = []frameworkRule{
	{"next.config.js", "Next.js"},
	{"next.config.mjs", "Next.js"},
	{"nuxt.config.js", "Nuxt.js"},
	{"angular.json", "Angular"},
	{"vue.config.js", "Vue.js"},
	{"svelte.config.js", "Svelte"},
	{"remix.config.js", "Remix"},
	{"astro.config.mjs", "Astro"},
}

const maxEntryPoints = 5

// ─── Scanning ────────────────────────────────────────────────────────────────

// Scan walks projectPath depth-first and returns its structural index.
// Permission errors on subtrees are swallowed; the result is a
// partial index, not a failure. An empty directory yields a valid
// index with zero counts.
func Scan(projectPath string) (*ProjectIndex, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("scanner: resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scanner: stat project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanner: %s is not a directory", abs)
	}

	idx := &ProjectIndex{
		Path:        abs,
		Name:        filepath.Base(abs),
		Type:        "unknown",
		Files:       []string{},
		Directories: []string{},
		KeyFiles:    map[string][]string{},
		Stats:       Stats{ByExtension: map[string]int{}},
		IndexedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	idx.Type, idx.Framework = DetectType(abs)
	idx.Tree = scanDir(abs, "", idx)
	idx.Relationships = buildRelationships(idx)

	return idx, nil
}

// scanDir recurses into one directory, appending to the flat inventory
// as it goes. Entries are visited in name order so repeated scans of
// an unchanged tree produce identical indexes.
func scanDir(dir, rel string, idx *ProjectIndex) *TreeNode {
	node := &TreeNode{Files: []string{}, Dirs: map[string]*TreeNode{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable subtree: omit it and keep what we have.
		return node
	}

	for _, entry := range entries {
		name := entry.Name()
		itemRel := name
		if rel != "" {
			itemRel = rel + "/" + name
		}

		if entry.IsDir() {
			if skipDirs[name] || strings.HasPrefix(name, ".") {
				continue
			}
			node.Dirs[name] = scanDir(filepath.Join(dir, name), itemRel, idx)
			idx.Directories = append(idx.Directories, itemRel)
			idx.Stats.TotalDirs++
			continue
		}

		if skipExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		node.Files = append(node.Files, name)
		idx.Files = append(idx.Files, itemRel)
		idx.Stats.TotalFiles++
		idx.Stats.ByExtension[ExtensionKey(name)]++

		if cat, ok := ClassifyKeyFile(name); ok {
			idx.KeyFiles[cat] = append(idx.KeyFiles[cat], itemRel)
		}
	}

	return node
}

// DetectType checks the ordered marker tables against the project root
// and returns the detected project type and framework. Type and
// framework are detected independently, each first match wins; a
// framework marker may also refine the type rule's framework (e.g.
// maven for pom.xml).
func DetectType(projectDir string) (projType, framework string) {
	projType = "unknown"

	for _, rule := range typeRules {
		if _, err := os.Stat(filepath.Join(projectDir, rule.marker)); err == nil {
			projType = rule.projType
			framework = rule.framework
			break
		}
	}
	for _, rule := range frameworkRules {
		if _, err := os.Stat(filepath.Join(projectDir, rule.marker)); err == nil {
			framework = rule.framework
			break
		}
	}
	return projType, framework
}

// ClassifyKeyFile returns the semantic category for a filename, or
// ok=false when no rule matches. Evaluation follows the fixed rule
// order, so a file lands in at most one category deterministically.
func ClassifyKeyFile(name string) (category string, ok bool) {
	lower := strings.ToLower(name)
	for _, rule := range keyFileRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lower, pattern) {
				return rule.category, true
			}
		}
	}
	return "", false
}

// ExtensionKey returns the histogram key for a filename: its lowercase
// extension, or "no_ext" for extensionless files. A dotfile such as
// ".env" has no extension; its leading dot is part of the name.
func ExtensionKey(name string) string {
	base := strings.ToLower(filepath.Base(name))
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return "no_ext"
	}
	return ext
}

// IsCodeFile reports whether the relative path has a source-code
// extension.
func IsCodeFile(relPath string) bool {
	return codeExtensions[strings.ToLower(path.Ext(relPath))]
}

// ShouldSkipDir reports whether a directory name is on the deny list
// (or hidden) and would be excluded from a scan.
func ShouldSkipDir(name string) bool {
	return skipDirs[name] || strings.HasPrefix(name, ".")
}

// ShouldSkipFile reports whether a filename's extension is on the
// binary/media deny list.
func ShouldSkipFile(name string) bool {
	return skipExtensions[strings.ToLower(filepath.Ext(name))]
}

// buildRelationships derives the coarse relations: directories holding
// at least one code file, and up to five entry-point candidates from
// the entry key-file category.
func buildRelationships(idx *ProjectIndex) Relationships {
	rel := Relationships{
		ConfigFiles: idx.KeyFiles["config"],
		TestFiles:   idx.KeyFiles["test"],
	}

	seen := map[string]bool{}
	for _, f := range idx.Files {
		if !IsCodeFile(f) {
			continue
		}
		dir := path.Dir(f)
		if dir == "." || seen[dir] {
			continue
		}
		seen[dir] = true
		rel.DirectoriesWithCode = append(rel.DirectoriesWithCode, dir)
	}
	sort.Strings(rel.DirectoriesWithCode)

	entries := idx.KeyFiles["entry"]
	if len(entries) > maxEntryPoints {
		entries = entries[:maxEntryPoints]
	}
	rel.EntryPoints = entries

	return rel
}
