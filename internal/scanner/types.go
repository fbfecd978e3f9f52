package scanner

// TreeNode is one directory in the scanned tree: its file names plus a
// mapping of child-directory name to subtree.
type TreeNode struct {
	Files []string             `json:"files"`
	Dirs  map[string]*TreeNode `json:"dirs"`
}

// Stats holds aggregate counts for a scanned project.
type Stats struct {
	TotalFiles  int            `json:"total_files"`
	TotalDirs   int            `json:"total_dirs"`
	ByExtension map[string]int `json:"by_extension"`
}

// Relationships holds the coarse structural relations derived from a
// scan: where code lives and where execution likely starts.
type Relationships struct {
	EntryPoints         []string `json:"entry_points"`
	ConfigFiles         []string `json:"config_files"`
	TestFiles           []string `json:"test_files"`
	DirectoriesWithCode []string `json:"directories_with_code"`
}

// ProjectIndex is the structural index of one project: file and
// directory inventory, nested tree, key-file classification, extension
// histogram, and detected type/framework.
//
// Invariants: Stats.TotalFiles == len(Files); every path in KeyFiles
// also appears in Files.
type ProjectIndex struct {
	Path          string              `json:"path"`
	Name          string              `json:"name"`
	Type          string              `json:"type"`
	Framework     string              `json:"framework,omitempty"`
	Tree          *TreeNode           `json:"tree"`
	Files         []string            `json:"files"`
	Directories   []string            `json:"directories"`
	KeyFiles      map[string][]string `json:"key_files"`
	Relationships Relationships       `json:"relationships"`
	Stats         Stats               `json:"stats"`
	IndexedAt     string              `json:"indexed_at"`
	LastUpdated   string              `json:"last_updated,omitempty"`
}
