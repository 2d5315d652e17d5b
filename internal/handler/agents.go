package handler

import (
	"net/http"

	"cinedesk/internal/domain/services/llm"
	"cinedesk/internal/httputil"
	"cinedesk/internal/service/llm/agent"
)

// AgentsHandler describes the agent team
type AgentsHandler struct {
	supervisor *agent.Agent
}

// NewAgentsHandler creates a new agents handler
func NewAgentsHandler(supervisor *agent.Agent) *AgentsHandler {
	return &AgentsHandler{supervisor: supervisor}
}

// AgentInfo describes one member agent and its tools
type AgentInfo struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Tools       []llm.ToolDefinition `json:"tools"`
}

// ListAgents returns the supervisor members and their tool definitions
// GET /api/agents
func (h *AgentsHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	members := h.supervisor.Members()
	out := make([]AgentInfo, 0, len(members))
	for _, m := range members {
		out = append(out, AgentInfo{
			Name:        m.Name(),
			Description: m.Description(),
			Tools:       m.Tools().Definitions(),
		})
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"supervisor": h.supervisor.Name(),
		"agents":     out,
	})
}

// Health reports liveness
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
