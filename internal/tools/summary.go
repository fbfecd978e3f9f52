package tools

import (
	"context"

	"github.com/droidpartment/dpt-memory/internal/project"
	"github.com/mark3labs/mcp-go/mcp"
)

// ProjectSummaryTool handles the memory_project_summary MCP tool.
// It returns the compact one-screen summary of an indexed project.
type ProjectSummaryTool struct {
	store *project.Store
}

// NewProjectSummaryTool creates a ProjectSummaryTool with the given project store.
func NewProjectSummaryTool(store *project.Store) *ProjectSummaryTool {
	return &ProjectSummaryTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ProjectSummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_project_summary",
		mcp.WithDescription(
			"Get a compact summary of an indexed project: name, type, framework, "+
				"file count, main code directories, and entry points. "+
				"With no path, summarizes the most recently indexed project.",
		),
		mcp.WithString("path",
			mcp.Description("Project root path (default: most recently indexed project)"),
		),
	)
}

// Handle processes the memory_project_summary tool call.
func (t *ProjectSummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := req.GetString("path", "")
	if p != "" {
		abs, err := resolvePath(p)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p = abs
	}
	return mcp.NewToolResultText(t.store.Summary(p)), nil
}
