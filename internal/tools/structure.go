package tools

import (
	"context"
	"fmt"

	"github.com/droidpartment/dpt-memory/internal/project"
	"github.com/mark3labs/mcp-go/mcp"
)

// ProjectStructureTool handles the memory_project_structure MCP tool.
// It renders the stored index as the markdown structure snapshot.
type ProjectStructureTool struct {
	store *project.Store
}

// NewProjectStructureTool creates a ProjectStructureTool with the given project store.
func NewProjectStructureTool(store *project.Store) *ProjectStructureTool {
	return &ProjectStructureTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ProjectStructureTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_project_structure",
		mcp.WithDescription(
			"Get the markdown structure snapshot of an indexed project: key files "+
				"by category, a depth-limited directory tree, code locations, and a "+
				"file-type histogram.",
		),
		mcp.WithString("path",
			mcp.Description("Project root path (default: current working directory)"),
		),
	)
}

// Handle processes the memory_project_structure tool call.
func (t *ProjectStructureTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	abs, err := resolvePath(req.GetString("path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	idx := t.store.Load(abs)
	if idx == nil {
		return mcp.NewToolResultError(fmt.Sprintf("project %s is not indexed; run memory_init_project first", abs)), nil
	}
	return mcp.NewToolResultText(project.StructureDocument(idx)), nil
}
