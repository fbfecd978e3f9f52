package tools

import (
	"context"
	"fmt"

	"github.com/droidpartment/dpt-memory/internal/ledger"
	"github.com/mark3labs/mcp-go/mcp"
)

// RecordMistakeTool handles the memory_record_mistake MCP tool.
// It appends one mistake to the project's ledger so future sessions
// can avoid repeating it.
type RecordMistakeTool struct {
	ledger *ledger.Ledger
}

// NewRecordMistakeTool creates a RecordMistakeTool with the given ledger.
func NewRecordMistakeTool(l *ledger.Ledger) *RecordMistakeTool {
	return &RecordMistakeTool{ledger: l}
}

// Definition returns the MCP tool definition for registration.
func (t *RecordMistakeTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_record_mistake",
		mcp.WithDescription(
			"Record a mistake made during this session, with what went wrong and how "+
				"to prevent it. High-severity mistakes are also mirrored to the global "+
				"ledger shared across projects.",
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What went wrong"),
		),
		mcp.WithString("prevention",
			mcp.Description("How to avoid this in the future"),
		),
		mcp.WithString("agent",
			mcp.Description("Agent that made the mistake, e.g. dpt-dev"),
		),
		mcp.WithString("context",
			mcp.Description("What was being attempted when it happened"),
		),
		mcp.WithString("severity",
			mcp.Description("One of: low, medium (default), high"),
		),
		mcp.WithString("path",
			mcp.Description("Project root path (default: current working directory)"),
		),
	)
}

// Handle processes the memory_record_mistake tool call.
func (t *RecordMistakeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	abs, err := resolvePath(req.GetString("path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := t.ledger.Record(abs, ledger.Entry{
		Agent:       req.GetString("agent", ""),
		Description: req.GetString("description", ""),
		Context:     req.GetString("context", ""),
		Prevention:  req.GetString("prevention", ""),
		Severity:    req.GetString("severity", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to record mistake: %v", err)), nil
	}

	msg := fmt.Sprintf("Recorded mistake %s (severity: %s).", entry.ID, entry.Severity)
	if entry.Severity == ledger.SeverityHigh {
		msg += " Mirrored to the global ledger."
	}
	return mcp.NewToolResultText(msg), nil
}
