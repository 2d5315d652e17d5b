package agent

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cinedesk/internal/domain/services/llm"
	"cinedesk/internal/service/llm/tools"

	"gopkg.in/yaml.v3"
)

//go:embed config/agents.yaml
var agentsYAML []byte

// Definition describes one agent in agents.yaml.
type Definition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Prompt      string   `yaml:"prompt"`
	Tools       []string `yaml:"tools"`
}

// Definitions is the parsed agents.yaml.
type Definitions struct {
	Supervisor Definition   `yaml:"supervisor"`
	Agents     []Definition `yaml:"agents"`
}

// LoadDefinitions parses the embedded agent definitions.
func LoadDefinitions() (*Definitions, error) {
	return ParseDefinitions(agentsYAML)
}

// ParseDefinitions parses agent definitions from YAML.
func ParseDefinitions(data []byte) (*Definitions, error) {
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agent definitions: %w", err)
	}

	if defs.Supervisor.Name == "" {
		return nil, errors.New("agent definitions: supervisor name is required")
	}
	seen := map[string]bool{defs.Supervisor.Name: true}
	for i, def := range defs.Agents {
		if def.Name == "" {
			return nil, fmt.Errorf("agent definitions: agent %d has no name", i)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("agent definitions: duplicate agent %s", def.Name)
		}
		seen[def.Name] = true
	}
	return &defs, nil
}

// BuildOptions are the runtime settings shared by every agent.
type BuildOptions struct {
	Provider      llm.LLMProvider
	Model         string
	MaxIterations int
	Temperature   *float64
	Logger        *slog.Logger
}

// Build creates the member agents from registry and the supervisor over them.
// Members whose tools are missing from registry are skipped with a warning.
func (d *Definitions) Build(registry *tools.ToolRegistry, opts BuildOptions) (*Agent, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var members []*Agent
	for _, def := range d.Agents {
		subset, missing := registry.Subset(def.Tools)
		if len(missing) > 0 {
			opts.Logger.Warn("agent disabled: tools not registered",
				"agent", def.Name,
				"missing", strings.Join(missing, ","))
			continue
		}

		member, err := New(def.config(subset, opts))
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	if len(members) == 0 {
		return nil, errors.New("no agents available: register document or movie tools")
	}

	supervisor, err := NewSupervisor(d.Supervisor.config(nil, opts), members...)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("agents ready", "supervisor", supervisor.Name(), "members", len(members))
	return supervisor, nil
}

func (def Definition) config(registry *tools.ToolRegistry, opts BuildOptions) Config {
	return Config{
		Name:          def.Name,
		Description:   strings.TrimSpace(def.Description),
		SystemPrompt:  strings.TrimSpace(def.Prompt),
		Provider:      opts.Provider,
		Model:         opts.Model,
		Tools:         registry,
		MaxIterations: opts.MaxIterations,
		Temperature:   opts.Temperature,
		Logger:        opts.Logger,
	}
}
