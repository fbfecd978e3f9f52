package tools

import (
	"context"
	"fmt"

	"github.com/droidpartment/dpt-memory/internal/project"
	"github.com/mark3labs/mcp-go/mcp"
)

// FileChangedTool handles the memory_file_changed MCP tool.
// It applies one file event to the stored index so memory stays
// current between full scans.
type FileChangedTool struct {
	store *project.Store
}

// NewFileChangedTool creates a FileChangedTool with the given project store.
func NewFileChangedTool(store *project.Store) *FileChangedTool {
	return &FileChangedTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *FileChangedTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_file_changed",
		mcp.WithDescription(
			"Notify memory that a file was created, modified, or deleted so the "+
				"stored index stays current without a full rescan. "+
				"Call this after every file edit. A no-op when the project is not indexed.",
		),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path of the changed file, absolute or relative to the project root"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: created, modified, deleted"),
		),
		mcp.WithString("path",
			mcp.Description("Project root path (default: current working directory)"),
		),
	)
}

// Handle processes the memory_file_changed tool call.
func (t *FileChangedTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := req.GetString("file_path", "")
	if filePath == "" {
		return mcp.NewToolResultError("'file_path' is required"), nil
	}
	action := req.GetString("action", "")
	switch action {
	case project.ActionCreated, project.ActionModified, project.ActionDeleted:
	default:
		return mcp.NewToolResultError("'action' must be one of: created, modified, deleted"), nil
	}

	abs, err := resolvePath(req.GetString("path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.store.UpdateOnFileChange(abs, filePath, action)
	return mcp.NewToolResultText(fmt.Sprintf("Recorded %s: %s", action, filePath)), nil
}
