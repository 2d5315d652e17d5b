package tools

import (
	"context"
	"fmt"
	"sync"

	"cinedesk/internal/domain/services/llm"
)

// ToolRegistry manages tools and handles tool execution.
// It is thread-safe: one registry is shared by every request.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string // registration order, used for definitions
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry under its own name.
// If a tool with the same name already exists, it will be replaced.
func (r *ToolRegistry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

// Get retrieves a tool by name.
// Returns nil if the tool is not registered.
func (r *ToolRegistry) Get(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Names returns the registered tool names in registration order.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of registered tools.
func (r *ToolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Subset returns a new registry holding the named tools, in the given order.
// Names that are not registered are returned in missing.
func (r *ToolRegistry) Subset(names []string) (subset *ToolRegistry, missing []string) {
	subset = NewToolRegistry()
	for _, name := range names {
		tool := r.Get(name)
		if tool == nil {
			missing = append(missing, name)
			continue
		}
		subset.Register(tool)
	}
	return subset, missing
}

// Definitions declares every registered tool to a model, in registration order.
func (r *ToolRegistry) Definitions() []llm.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		defs = append(defs, llm.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Schema(),
		})
	}
	return defs
}

// Execute runs a single tool and returns the result.
// An unknown tool or an executor error yields an error result.
func (r *ToolRegistry) Execute(ctx context.Context, call llm.ToolCall) llm.ToolResult {
	tool := r.Get(call.Name)
	if tool == nil {
		return llm.ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Error:   fmt.Errorf("tool not found: %s", call.Name),
			IsError: true,
		}
	}

	input := call.Input
	if input == nil {
		input = map[string]interface{}{}
	}

	result, err := tool.Execute(ctx, input)
	if err != nil {
		return llm.ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Error:   err,
			IsError: true,
		}
	}

	return llm.ToolResult{
		ID:     call.ID,
		Name:   call.Name,
		Result: result,
	}
}

// ExecuteAll runs the calls one after another, in order, within the current
// agent turn. A cancelled context marks the remaining calls as failed.
func (r *ToolRegistry) ExecuteAll(ctx context.Context, calls []llm.ToolCall) []llm.ToolResult {
	results := make([]llm.ToolResult, len(calls))
	for i, call := range calls {
		if err := ctx.Err(); err != nil {
			results[i] = llm.ToolResult{
				ID:      call.ID,
				Name:    call.Name,
				Error:   err,
				IsError: true,
			}
			continue
		}
		results[i] = r.Execute(ctx, call)
	}
	return results
}
