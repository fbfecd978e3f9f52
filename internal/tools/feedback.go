package tools

import (
	"context"
	"fmt"

	"github.com/droidpartment/dpt-memory/internal/recognize"
	"github.com/mark3labs/mcp-go/mcp"
)

// AgentFeedbackTool handles the memory_agent_feedback MCP tool.
// It nudges an agent's learned weight up or down based on whether a
// suggestion turned out to be helpful.
type AgentFeedbackTool struct {
	engine *recognize.Engine
}

// NewAgentFeedbackTool creates an AgentFeedbackTool with the given engine.
func NewAgentFeedbackTool(engine *recognize.Engine) *AgentFeedbackTool {
	return &AgentFeedbackTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *AgentFeedbackTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_agent_feedback",
		mcp.WithDescription(
			"Report whether a suggested agent was helpful for the task. "+
				"Adjusts the agent's learned weight so future suggestions improve.",
		),
		mcp.WithString("agent",
			mcp.Required(),
			mcp.Description("Agent name from the catalogue, e.g. dpt-qa"),
		),
		mcp.WithBoolean("helpful",
			mcp.Required(),
			mcp.Description("true if the agent was a good fit, false otherwise"),
		),
	)
}

// Handle processes the memory_agent_feedback tool call.
func (t *AgentFeedbackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agent := req.GetString("agent", "")
	if agent == "" {
		return mcp.NewToolResultError("'agent' is required"), nil
	}
	helpful := boolArg(req, "helpful", true)

	weight, err := t.engine.ApplyFeedback(agent, helpful)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated weight for %s: %.2f", agent, weight)), nil
}
