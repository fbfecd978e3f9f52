package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/droidpartment/dpt-memory/internal/registry"
	"github.com/droidpartment/dpt-memory/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// SessionTool handles the memory_session MCP tool.
// It records session lifecycle and agent-call events in the
// per-project session ledger.
type SessionTool struct {
	reg *registry.Registry
}

// NewSessionTool creates a SessionTool with the given project registry.
func NewSessionTool(reg *registry.Registry) *SessionTool {
	return &SessionTool{reg: reg}
}

// Definition returns the MCP tool definition for registration.
func (t *SessionTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_session",
		mcp.WithDescription(
			"Manage the per-project session ledger. Actions: "+
				"'start' opens a session and returns its ID, "+
				"'end' closes a session (optionally with a summary), "+
				"'agent_event' records an agent call within a session, "+
				"'recent' lists recent sessions.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: start, end, agent_event, recent"),
		),
		mcp.WithString("session_id",
			mcp.Description("Session ID, required for 'end' and 'agent_event'"),
		),
		mcp.WithString("summary",
			mcp.Description("Closing summary for 'end'"),
		),
		mcp.WithString("agent",
			mcp.Description("Agent name for 'agent_event'"),
		),
		mcp.WithString("event",
			mcp.Description("Event name for 'agent_event', e.g. dispatched, completed"),
		),
		mcp.WithString("detail",
			mcp.Description("Free-form detail for 'agent_event'"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum sessions for 'recent' (default 10)"),
		),
		mcp.WithString("path",
			mcp.Description("Project root path (default: current working directory)"),
		),
	)
}

// Handle processes the memory_session tool call.
func (t *SessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	abs, err := resolvePath(req.GetString("path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec := t.reg.Resolve(abs)
	store, err := session.Open(rec.StoragePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open session ledger: %v", err)), nil
	}
	defer store.Close()

	switch req.GetString("action", "") {
	case "start":
		sess, err := store.Start(rec.Name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to start session: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Session started: %s", sess.ID)), nil

	case "end":
		id := req.GetString("session_id", "")
		if id == "" {
			return mcp.NewToolResultError("'session_id' is required for action 'end'"), nil
		}
		if err := store.End(id, req.GetString("summary", "")); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to end session: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Session ended: %s", id)), nil

	case "agent_event":
		id := req.GetString("session_id", "")
		agent := req.GetString("agent", "")
		event := req.GetString("event", "")
		if id == "" || agent == "" || event == "" {
			return mcp.NewToolResultError("'session_id', 'agent' and 'event' are required for action 'agent_event'"), nil
		}
		if err := store.RecordAgentEvent(id, agent, event, req.GetString("detail", "")); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to record agent event: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Recorded %s/%s in session %s", agent, event, id)), nil

	case "recent":
		limit := intArg(req, "limit", 10)
		sessions, err := store.Recent(limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list sessions: %v", err)), nil
		}
		if len(sessions) == 0 {
			return mcp.NewToolResultText("No sessions recorded."), nil
		}
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("## Recent Sessions (%d)\n\n", len(sessions)))
		for _, s := range sessions {
			status := "open"
			if s.EndedAt != nil {
				status = "ended " + *s.EndedAt
			}
			sb.WriteString(fmt.Sprintf("- **%s** started %s (%s)", s.ID, s.StartedAt, status))
			if s.Summary != nil && *s.Summary != "" {
				sb.WriteString(": " + *s.Summary)
			}
			sb.WriteString("\n")
		}
		return mcp.NewToolResultText(sb.String()), nil

	default:
		return mcp.NewToolResultError("'action' must be one of: start, end, agent_event, recent"), nil
	}
}
