package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/droidpartment/dpt-memory/internal/recognize"
	"github.com/mark3labs/mcp-go/mcp"
)

// RecognizeAgentsTool handles the memory_recognize_agents MCP tool.
// It scores a task description against the agent catalogue and
// records the outcome for learning.
type RecognizeAgentsTool struct {
	engine *recognize.Engine
}

// NewRecognizeAgentsTool creates a RecognizeAgentsTool with the given engine.
func NewRecognizeAgentsTool(engine *recognize.Engine) *RecognizeAgentsTool {
	return &RecognizeAgentsTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *RecognizeAgentsTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_recognize_agents",
		mcp.WithDescription(
			"Score a task description against the agent catalogue and suggest which "+
				"specialized agents should handle it, best match first. Scores reflect "+
				"keyword overlap adjusted by learned per-agent weights.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The task or request to analyze"),
		),
		mcp.WithString("used_agents",
			mcp.Description("Comma-separated agents that were actually dispatched, if known"),
		),
	)
}

// Handle processes the memory_recognize_agents tool call.
func (t *RecognizeAgentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := strings.TrimSpace(req.GetString("text", ""))
	if text == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	matches := t.engine.RecognizeAll(text)

	var used []string
	for _, a := range strings.Split(req.GetString("used_agents", ""), ",") {
		if a = strings.TrimSpace(a); a != "" {
			used = append(used, a)
		}
	}
	t.engine.RecordEvent(text, matches, used)

	if len(matches) == 0 {
		return mcp.NewToolResultText("No agent scored above threshold for this task."), nil
	}

	var sb strings.Builder
	sb.WriteString("## Suggested Agents\n\n")
	for i, m := range matches {
		sb.WriteString(fmt.Sprintf("%d. **%s** (score %.3f)\n", i+1, m.Agent, m.Score))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
