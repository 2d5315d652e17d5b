package agent

import (
	"errors"
	"fmt"

	"cinedesk/internal/service/llm/tools"
)

// NewSupervisor creates an agent that routes work to members.
// Each member becomes an AgentTool; cfg.Tools is replaced.
func NewSupervisor(cfg Config, members ...*Agent) (*Agent, error) {
	if len(members) == 0 {
		return nil, errors.New("supervisor needs at least one member agent")
	}

	registry := tools.NewToolRegistry()
	for _, member := range members {
		if registry.Get(member.Name()) != nil {
			return nil, fmt.Errorf("duplicate member agent: %s", member.Name())
		}
		registry.Register(NewAgentTool(member))
	}
	cfg.Tools = registry

	supervisor, err := New(cfg)
	if err != nil {
		return nil, err
	}
	supervisor.members = members
	return supervisor, nil
}
