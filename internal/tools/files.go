package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/droidpartment/dpt-memory/internal/project"
	"github.com/mark3labs/mcp-go/mcp"
)

// FindFilesTool handles the memory_find_files MCP tool.
// It answers file questions from the stored index without touching disk.
type FindFilesTool struct {
	store *project.Store
}

// NewFindFilesTool creates a FindFilesTool with the given project store.
func NewFindFilesTool(store *project.Store) *FindFilesTool {
	return &FindFilesTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *FindFilesTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_find_files",
		mcp.WithDescription(
			"Find files in an indexed project from memory, without rescanning disk. "+
				"Provide exactly one of: pattern (glob or substring, e.g. '*.test.js'), "+
				"extension (e.g. 'go' or '.go'), filename (exact base name, returns its full path), "+
				"or directory (lists its direct files and subdirectories).",
		),
		mcp.WithString("path",
			mcp.Description("Project root path (default: current working directory)"),
		),
		mcp.WithString("pattern",
			mcp.Description("Glob pattern or substring matched against relative paths"),
		),
		mcp.WithString("extension",
			mcp.Description("File extension, with or without the leading dot"),
		),
		mcp.WithString("filename",
			mcp.Description("Exact base name to locate, e.g. 'main.go'"),
		),
		mcp.WithString("directory",
			mcp.Description("Relative directory whose contents to list"),
		),
	)
}

// Handle processes the memory_find_files tool call.
func (t *FindFilesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	abs, err := resolvePath(req.GetString("path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if t.store.Load(abs) == nil {
		return mcp.NewToolResultError(fmt.Sprintf("project %s is not indexed; run memory_init_project first", abs)), nil
	}

	pattern := strings.TrimSpace(req.GetString("pattern", ""))
	extension := strings.TrimSpace(req.GetString("extension", ""))
	filename := strings.TrimSpace(req.GetString("filename", ""))
	directory := strings.TrimSpace(req.GetString("directory", ""))

	switch {
	case pattern != "":
		return listResult(fmt.Sprintf("Files matching %q", pattern), t.store.FilesByPattern(abs, pattern)), nil
	case extension != "":
		return listResult(fmt.Sprintf("Files with extension %q", extension), t.store.FilesByExtension(abs, extension)), nil
	case filename != "":
		full := t.store.FindFile(abs, filename)
		if full == "" {
			return mcp.NewToolResultText(fmt.Sprintf("No file named %q in the index.", filename)), nil
		}
		return mcp.NewToolResultText(full), nil
	case directory != "":
		contents := t.store.DirectoryContents(abs, directory)
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("## Contents of %s\n\n", directory))
		sb.WriteString(fmt.Sprintf("**Directories (%d):**\n", len(contents.Dirs)))
		for _, d := range contents.Dirs {
			sb.WriteString("- " + d + "/\n")
		}
		sb.WriteString(fmt.Sprintf("\n**Files (%d):**\n", len(contents.Files)))
		for _, f := range contents.Files {
			sb.WriteString("- " + f + "\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	default:
		return mcp.NewToolResultError("one of 'pattern', 'extension', 'filename' or 'directory' is required"), nil
	}
}

// listResult formats a list of relative paths as a markdown response.
func listResult(title string, files []string) *mcp.CallToolResult {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s (%d)\n\n", title, len(files)))
	if len(files) == 0 {
		sb.WriteString("No matches in the index.\n")
	}
	for _, f := range files {
		sb.WriteString("- " + f + "\n")
	}
	return mcp.NewToolResultText(sb.String())
}
