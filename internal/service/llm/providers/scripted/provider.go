// Package scripted is an LLM provider that replays queued responses.
// It stands in for a real model in tests and offline runs of the chat CLI.
package scripted

import (
	"context"
	"errors"
	"sync"

	"cinedesk/internal/domain/services/llm"

	"github.com/google/uuid"
)

// ErrScriptExhausted is returned when no queued response is left.
var ErrScriptExhausted = errors.New("scripted provider: no responses left")

// Provider returns queued responses in order and records every request.
// Safe for concurrent use, though replay order is only meaningful for
// sequential callers.
type Provider struct {
	mu        sync.Mutex
	responses []*llm.GenerateResponse
	requests  []*llm.GenerateRequest
}

// NewProvider creates a provider that will replay responses.
func NewProvider(responses ...*llm.GenerateResponse) *Provider {
	return &Provider{responses: responses}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "scripted"
}

// SupportsModel accepts any model.
func (p *Provider) SupportsModel(model string) bool {
	return true
}

// Enqueue appends responses to the script.
func (p *Provider) Enqueue(responses ...*llm.GenerateResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, responses...)
}

// GenerateResponse pops the next queued response.
func (p *Provider) GenerateResponse(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Snapshot the conversation; callers keep appending to their slice
	recorded := *req
	recorded.Messages = append([]llm.Message(nil), req.Messages...)
	p.requests = append(p.requests, &recorded)

	if len(p.responses) == 0 {
		return nil, ErrScriptExhausted
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]

	out := *resp
	if out.Model == "" {
		out.Model = req.Model
	}
	return &out, nil
}

// Requests returns the requests received so far.
func (p *Provider) Requests() []*llm.GenerateRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*llm.GenerateRequest(nil), p.requests...)
}

// Remaining returns the number of queued responses not yet served.
func (p *Provider) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.responses)
}

// Text is a final answer without tool calls.
func Text(content string) *llm.GenerateResponse {
	return &llm.GenerateResponse{Content: content, StopReason: "end_turn"}
}

// Call is a response asking for one tool call.
func Call(name string, input map[string]interface{}) *llm.GenerateResponse {
	return Calls(ToolCall(name, input))
}

// Calls is a response asking for several tool calls in one step.
func Calls(calls ...llm.ToolCall) *llm.GenerateResponse {
	return &llm.GenerateResponse{ToolCalls: calls, StopReason: "tool_use"}
}

// ToolCall builds a tool call with a fresh id.
func ToolCall(name string, input map[string]interface{}) llm.ToolCall {
	return llm.ToolCall{
		ID:    "call_" + uuid.NewString(),
		Name:  name,
		Input: input,
	}
}
