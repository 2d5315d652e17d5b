package llm

import (
	"encoding/json"
)

// ContentString renders a tool result as the text sent back to the model.
// Errors become {"error": "..."} so the model sees one shape for failures.
func (r ToolResult) ContentString() string {
	var payload interface{} = r.Result
	if r.IsError {
		msg := "tool execution failed"
		if r.Error != nil {
			msg = r.Error.Error()
		}
		payload = map[string]interface{}{"error": msg}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return `{"error":"tool result is not JSON-serializable"}`
	}
	return string(data)
}
