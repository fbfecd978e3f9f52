package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/droidpartment/dpt-memory/internal/ledger"
	"github.com/mark3labs/mcp-go/mcp"
)

// RecentMistakesTool handles the memory_recent_mistakes MCP tool.
// It surfaces past mistakes, optionally filtered by relevance to a
// task description.
type RecentMistakesTool struct {
	ledger *ledger.Ledger
}

// NewRecentMistakesTool creates a RecentMistakesTool with the given ledger.
func NewRecentMistakesTool(l *ledger.Ledger) *RecentMistakesTool {
	return &RecentMistakesTool{ledger: l}
}

// Definition returns the MCP tool definition for registration.
func (t *RecentMistakesTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_recent_mistakes",
		mcp.WithDescription(
			"Get recent mistakes from the project ledger, newest first. "+
				"Pass 'task' to rank by relevance to what you are about to do instead. "+
				"Set global=true for the cross-project ledger of high-severity mistakes.",
		),
		mcp.WithString("task",
			mcp.Description("Description of the upcoming task, for relevance ranking"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum entries to return (default 10)"),
		),
		mcp.WithBoolean("global",
			mcp.Description("Read the global high-severity ledger instead of the project one"),
		),
		mcp.WithString("path",
			mcp.Description("Project root path (default: current working directory)"),
		),
	)
}

// Handle processes the memory_recent_mistakes tool call.
func (t *RecentMistakesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", 10)
	if limit <= 0 {
		limit = 10
	}

	var entries []ledger.Entry
	var title string
	switch {
	case boolArg(req, "global", false):
		entries = t.ledger.RecentGlobal(limit)
		title = "Global High-Severity Mistakes"
	default:
		abs, err := resolvePath(req.GetString("path", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if task := strings.TrimSpace(req.GetString("task", "")); task != "" {
			entries = t.ledger.Relevant(abs, task, limit)
			title = "Relevant Past Mistakes"
		} else {
			entries = t.ledger.Recent(abs, limit)
			title = "Recent Mistakes"
		}
	}

	if len(entries) == 0 {
		return mcp.NewToolResultText("No mistakes recorded."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s (%d)\n\n", title, len(entries)))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("### [%s] %s\n", strings.ToUpper(e.Severity), e.Description))
		sb.WriteString(fmt.Sprintf("- **When:** %s\n", e.Timestamp))
		sb.WriteString(fmt.Sprintf("- **Agent:** %s\n", e.Agent))
		if e.Context != "" {
			sb.WriteString(fmt.Sprintf("- **Context:** %s\n", e.Context))
		}
		sb.WriteString(fmt.Sprintf("- **Prevention:** %s\n\n", e.Prevention))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
