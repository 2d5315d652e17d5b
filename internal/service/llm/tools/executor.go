package tools

import "context"

// ToolExecutor defines the interface for executing a tool.
// Implementations must be thread-safe and respect context cancellation.
type ToolExecutor interface {
	// Execute runs the tool with the given input parameters.
	// The input map contains the tool-specific parameters as specified in the tool schema.
	// The returned interface{} must be JSON-serializable (maps, slices, primitives).
	//
	// Expected failures (bad arguments, missing rows, downstream errors) are
	// reported as error payloads in the result, not as a Go error.
	Execute(ctx context.Context, input map[string]interface{}) (interface{}, error)
}

// Tool is a ToolExecutor that can declare itself to a model.
type Tool interface {
	ToolExecutor

	// Name is the identifier the model calls the tool by
	Name() string

	// Description tells the model when to use the tool
	Description() string

	// Schema is the JSON schema (type object) of the tool's input
	Schema() map[string]interface{}
}

// toolSpec carries the declared name, description and schema of a tool.
// Embedded by concrete tools so they only implement Execute.
type toolSpec struct {
	name        string
	description string
	schema      map[string]interface{}
}

func (s toolSpec) Name() string                   { return s.name }
func (s toolSpec) Description() string            { return s.description }
func (s toolSpec) Schema() map[string]interface{} { return s.schema }
