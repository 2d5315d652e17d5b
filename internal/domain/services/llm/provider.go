package llm

import (
	"context"
)

// LLMProvider defines the interface that all LLM providers must implement.
// This abstraction allows supporting multiple providers (OpenAI, Anthropic, ...)
// while agents stay provider-agnostic.
type LLMProvider interface {
	// GenerateResponse runs one model step over the conversation.
	// The response either carries final text, tool calls, or both.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name (e.g., "openai", "anthropic")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

// Role of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleTool carries tool results back to the model
	RoleTool Role = "tool"
)

// GenerateRequest contains the parameters for an LLM generation request.
type GenerateRequest struct {
	// Model is the model identifier (e.g., "gpt-4o-mini")
	Model string

	// System is the agent's system prompt
	System string

	// Messages contains the conversation history
	Messages []Message

	// Tools the model may call during this step
	Tools []ToolDefinition

	// Temperature, nil means provider default
	Temperature *float64

	// MaxTokens limits the response length, 0 means provider default
	MaxTokens int
}

// Message represents a single message in the conversation.
type Message struct {
	Role Role `json:"role"`

	// Content is the text of the message (empty for pure tool-call turns)
	Content string `json:"content,omitempty"`

	// ToolCalls requested by the assistant in this message
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolResults answering the previous assistant message (RoleTool only)
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

// GenerateResponse contains the LLM provider's response.
type GenerateResponse struct {
	// Content is the assistant text
	Content string

	// ToolCalls the model wants executed before it answers
	ToolCalls []ToolCall

	// Model is the model that was used (may differ from request if aliased)
	Model string

	InputTokens  int
	OutputTokens int

	// StopReason indicates why generation stopped (e.g., "end_turn", "tool_use")
	StopReason string
}

// HasToolCalls reports whether the model asked for tool execution.
func (r *GenerateResponse) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// ToolCall represents a single tool invocation request.
type ToolCall struct {
	ID    string                 `json:"id"`    // tool call id from the model
	Name  string                 `json:"name"`  // tool name
	Input map[string]interface{} `json:"input"` // tool parameters
}

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	ID      string      `json:"id"`       // matches ToolCall.ID
	Name    string      `json:"name"`     // matches ToolCall.Name
	Result  interface{} `json:"result"`   // execution result (nil if error)
	Error   error       `json:"-"`        // execution error (nil if success)
	IsError bool        `json:"is_error"` // whether execution failed
}

// ToolDefinition declares a tool to the model.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"` // JSON schema (type object)
}
