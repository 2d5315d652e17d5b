package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	domainllm "cinedesk/internal/domain/services/llm"
)

// convertToAnthropicMessages converts domain messages to Anthropic SDK format.
// Tool results travel as tool_result blocks inside a user message.
func convertToAnthropicMessages(messages []domainllm.Message) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(messages))

	for i, msg := range messages {
		switch msg.Role {
		case domainllm.RoleUser:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))

		case domainllm.RoleAssistant:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.ToolCalls)+1)
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				input := call.Input
				if input == nil {
					input = map[string]interface{}{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, input, call.Name))
			}
			if len(blocks) == 0 {
				return nil, fmt.Errorf("message %d: empty assistant message", i)
			}
			result = append(result, anthropic.NewAssistantMessage(blocks...))

		case domainllm.RoleTool:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.ToolResults))
			for _, tr := range msg.ToolResults {
				blocks = append(blocks, anthropic.NewToolResultBlock(tr.ID, tr.ContentString(), tr.IsError))
			}
			result = append(result, anthropic.NewUserMessage(blocks...))

		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	return result, nil
}

// convertToAnthropicTools declares tools using their JSON schema.
func convertToAnthropicTools(defs []domainllm.ToolDefinition) []anthropic.ToolUnionParam {
	if len(defs) == 0 {
		return nil
	}

	tools := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		schema := anthropic.ToolInputSchemaParam{
			Properties: def.Parameters["properties"],
		}
		if required, ok := requiredFields(def.Parameters["required"]); ok {
			schema.Required = required
		}

		tool := anthropic.ToolParam{
			Name:        def.Name,
			Description: anthropic.String(def.Description),
			InputSchema: schema,
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return tools
}

// requiredFields accepts both []string and decoded JSON ([]interface{}).
func requiredFields(v interface{}) ([]string, bool) {
	switch r := v.(type) {
	case []string:
		return r, len(r) > 0
	case []interface{}:
		out := make([]string, 0, len(r))
		for _, item := range r {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, len(out) > 0
	default:
		return nil, false
	}
}

// convertFromAnthropicResponse converts an Anthropic response to domain format.
func convertFromAnthropicResponse(msg *anthropic.Message) (*domainllm.GenerateResponse, error) {
	response := &domainllm.GenerateResponse{
		Model:        string(msg.Model),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		StopReason:   string(msg.StopReason),
	}

	for _, content := range msg.Content {
		switch content.Type {
		case "text":
			response.Content += content.Text

		case "tool_use":
			input := map[string]interface{}{}
			if len(content.Input) > 0 {
				if err := json.Unmarshal(content.Input, &input); err != nil {
					return nil, fmt.Errorf("tool_use %s: invalid input: %w", content.ID, err)
				}
			}
			response.ToolCalls = append(response.ToolCalls, domainllm.ToolCall{
				ID:    content.ID,
				Name:  content.Name,
				Input: input,
			})

		// Thinking and other block types are not used by the agents
		default:
			continue
		}
	}

	return response, nil
}
