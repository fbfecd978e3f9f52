package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/droidpartment/dpt-memory/internal/project"
	"github.com/mark3labs/mcp-go/mcp"
)

// InitProjectTool handles the memory_init_project MCP tool.
// It registers a project, scans it, and persists the full index plus
// the human-readable structure snapshot.
type InitProjectTool struct {
	store *project.Store
}

// NewInitProjectTool creates an InitProjectTool with the given project store.
func NewInitProjectTool(store *project.Store) *InitProjectTool {
	return &InitProjectTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *InitProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_init_project",
		mcp.WithDescription(
			"Initialize persistent memory for a project. Scans the project tree, "+
				"detects its type and framework, and stores a reusable index. "+
				"Safe to call again: an up-to-date index is reused, a stale one is rebuilt. "+
				"Call this once at the start of a session.",
		),
		mcp.WithString("path",
			mcp.Description("Project root path (default: current working directory)"),
		),
	)
}

// Handle processes the memory_init_project tool call.
func (t *InitProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	abs, err := resolvePath(req.GetString("path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := t.store.Initialize(abs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to initialize project: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("## Project Memory Initialized\n\n")
	sb.WriteString(fmt.Sprintf("**Project:** %s\n", res.ProjectName))
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", res.ProjectID))
	sb.WriteString(fmt.Sprintf("**Type:** %s\n", res.Type))
	if res.Framework != "" {
		sb.WriteString(fmt.Sprintf("**Framework:** %s\n", res.Framework))
	}
	sb.WriteString(fmt.Sprintf("**Files indexed:** %d\n", res.FileCount))
	sb.WriteString(fmt.Sprintf("**Storage:** %s\n\n", res.StoragePath))
	for _, line := range res.Feedback {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}
