package agent

import (
	"context"
	"strings"

	"cinedesk/internal/domain/services/llm"
	"cinedesk/internal/service/llm/tools"
)

// AgentTool exposes an agent as a tool so a supervisor can delegate to it.
// The tool is named after the agent. The sub-agent runs on a fresh
// conversation holding only the request, and inherits the caller's
// invocation config through ctx.
type AgentTool struct {
	agent  *Agent
	schema map[string]interface{}
}

var _ tools.Tool = (*AgentTool)(nil)

// NewAgentTool wraps a.
func NewAgentTool(a *Agent) *AgentTool {
	return &AgentTool{
		agent: a,
		schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"request": map[string]interface{}{
					"type":        "string",
					"description": "The task or request for the " + a.Name() + " agent",
				},
			},
			"required": []string{"request"},
		},
	}
}

func (t *AgentTool) Name() string                   { return t.agent.Name() }
func (t *AgentTool) Description() string            { return t.agent.Description() }
func (t *AgentTool) Schema() map[string]interface{} { return t.schema }

// Execute runs the wrapped agent.
// Returns {success, agent, reply}, or a downstream error payload when the
// sub-agent fails.
func (t *AgentTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	request, _ := input["request"].(string)
	request = strings.TrimSpace(request)
	if request == "" {
		return tools.ErrorResult(tools.KindInvalidArgument, "request is required"), nil
	}

	res, err := t.agent.Run(ctx, []llm.Message{{Role: llm.RoleUser, Content: request}})
	if err != nil {
		t.agent.cfg.Logger.ErrorContext(ctx, "delegation failed", "agent", t.agent.Name(), "error", err)
		return tools.ErrorResult(tools.KindDownstream, t.agent.Name()+" failed: "+err.Error()), nil
	}

	reply := res.Reply
	if reply == "" {
		reply = "Task completed by " + t.agent.Name()
	}

	return tools.SuccessResult(map[string]interface{}{
		"agent": t.agent.Name(),
		"reply": reply,
	}), nil
}
