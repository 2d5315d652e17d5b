// Package agent runs tool-calling conversations against an LLM provider.
//
// An Agent is stateless: every Run receives the full conversation and returns
// the messages it appended. A supervisor is an Agent whose tools are other
// agents (see AgentTool).
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cinedesk/internal/domain/services/llm"
	"cinedesk/internal/service/llm/tools"
)

// DefaultMaxIterations bounds the generate/execute loop of one Run
const DefaultMaxIterations = 8

// ErrMaxIterations is returned when the model keeps calling tools past the limit.
var ErrMaxIterations = errors.New("agent exceeded maximum iterations")

// Config describes an agent.
type Config struct {
	Name         string
	Description  string
	SystemPrompt string

	Provider llm.LLMProvider
	Model    string

	// Tools the model may call. Nil means no tools.
	Tools *tools.ToolRegistry

	// MaxIterations caps model calls per Run, 0 means DefaultMaxIterations
	MaxIterations int

	// Temperature, nil means provider default
	Temperature *float64

	Logger *slog.Logger
}

// Agent is a named, tool-using model configuration.
type Agent struct {
	cfg     Config
	members []*Agent
}

// Step is one executed tool call and its result.
type Step struct {
	Call   llm.ToolCall
	Result llm.ToolResult
}

// Result is the outcome of a Run.
type Result struct {
	// Reply is the model's final text
	Reply string

	// Messages appended during the run (assistant and tool messages)
	Messages []llm.Message

	// Steps in execution order
	Steps []Step

	// Iterations is the number of model calls made
	Iterations int
}

// New validates cfg and creates an agent.
func New(cfg Config) (*Agent, error) {
	if cfg.Name == "" {
		return nil, errors.New("agent name is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("agent %s: provider is required", cfg.Name)
	}
	if cfg.Tools == nil {
		cfg.Tools = tools.NewToolRegistry()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Agent{cfg: cfg}, nil
}

// Name returns the agent name.
func (a *Agent) Name() string { return a.cfg.Name }

// Description returns what the agent is for.
func (a *Agent) Description() string { return a.cfg.Description }

// Tools returns the agent's tool registry.
func (a *Agent) Tools() *tools.ToolRegistry { return a.cfg.Tools }

// Members returns the agents a supervisor delegates to, nil for plain agents.
func (a *Agent) Members() []*Agent { return a.members }

// Run drives the conversation until the model answers without tool calls.
// Tool calls of one model step execute sequentially, in order. The caller's
// invocation config travels in ctx to every tool.
func (a *Agent) Run(ctx context.Context, messages []llm.Message) (*Result, error) {
	logger := a.cfg.Logger.With("agent", a.cfg.Name)

	conversation := make([]llm.Message, len(messages), len(messages)+2*a.cfg.MaxIterations)
	copy(conversation, messages)
	result := &Result{}
	definitions := a.cfg.Tools.Definitions()

	for result.Iterations < a.cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := a.cfg.Provider.GenerateResponse(ctx, &llm.GenerateRequest{
			Model:       a.cfg.Model,
			System:      a.cfg.SystemPrompt,
			Messages:    conversation,
			Tools:       definitions,
			Temperature: a.cfg.Temperature,
		})
		result.Iterations++
		if err != nil {
			return nil, fmt.Errorf("agent %s: generate: %w", a.cfg.Name, err)
		}

		assistant := llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		}
		conversation = append(conversation, assistant)
		result.Messages = append(result.Messages, assistant)

		if !resp.HasToolCalls() {
			result.Reply = resp.Content
			logger.DebugContext(ctx, "agent finished",
				"iterations", result.Iterations,
				"steps", len(result.Steps),
				"input_tokens", resp.InputTokens,
				"output_tokens", resp.OutputTokens)
			return result, nil
		}

		toolResults := a.cfg.Tools.ExecuteAll(ctx, resp.ToolCalls)
		for i, call := range resp.ToolCalls {
			logger.DebugContext(ctx, "tool executed",
				"tool", call.Name,
				"is_error", toolResults[i].IsError || tools.IsErrorResult(toolResults[i].Result))
			result.Steps = append(result.Steps, Step{Call: call, Result: toolResults[i]})
		}

		toolMessage := llm.Message{Role: llm.RoleTool, ToolResults: toolResults}
		conversation = append(conversation, toolMessage)
		result.Messages = append(result.Messages, toolMessage)
	}

	logger.WarnContext(ctx, "agent hit iteration limit", "max_iterations", a.cfg.MaxIterations)
	return nil, fmt.Errorf("agent %s: %w (%d)", a.cfg.Name, ErrMaxIterations, a.cfg.MaxIterations)
}
