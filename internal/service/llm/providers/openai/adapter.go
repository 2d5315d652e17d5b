package openai

import (
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"

	domainllm "cinedesk/internal/domain/services/llm"
)

// convertToOpenAIMessages converts domain messages to Chat Completions params.
// The system prompt leads; each tool result becomes its own tool message.
func convertToOpenAIMessages(system string, messages []domainllm.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if system != "" {
		result = append(result, openai.SystemMessage(system))
	}

	for i, msg := range messages {
		switch msg.Role {
		case domainllm.RoleUser:
			result = append(result, openai.UserMessage(msg.Content))

		case domainllm.RoleAssistant:
			if msg.Content == "" && len(msg.ToolCalls) == 0 {
				return nil, fmt.Errorf("message %d: empty assistant message", i)
			}
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				assistant.Content.OfString = openai.String(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				args := []byte("{}")
				if call.Input != nil {
					encoded, err := json.Marshal(call.Input)
					if err != nil {
						return nil, fmt.Errorf("message %d: tool call %s: %w", i, call.ID, err)
					}
					args = encoded
				}
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: string(args),
					},
				})
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})

		case domainllm.RoleTool:
			for _, tr := range msg.ToolResults {
				result = append(result, openai.ToolMessage(tr.ContentString(), tr.ID))
			}

		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	return result, nil
}

// convertToOpenAITools declares tools as functions with their JSON schema.
func convertToOpenAITools(defs []domainllm.ToolDefinition) []openai.ChatCompletionToolParam {
	if len(defs) == 0 {
		return nil
	}

	tools := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, def := range defs {
		fn := openai.FunctionDefinitionParam{
			Name:       def.Name,
			Parameters: openai.FunctionParameters(def.Parameters),
		}
		if def.Description != "" {
			fn.Description = openai.String(def.Description)
		}
		tools = append(tools, openai.ChatCompletionToolParam{Function: fn})
	}
	return tools
}

// convertFromOpenAIResponse converts the first choice to a domain response.
func convertFromOpenAIResponse(completion *openai.ChatCompletion) (*domainllm.GenerateResponse, error) {
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai response has no choices")
	}
	choice := completion.Choices[0]

	out := &domainllm.GenerateResponse{
		Content:      choice.Message.Content,
		Model:        completion.Model,
		InputTokens:  int(completion.Usage.PromptTokens),
		OutputTokens: int(completion.Usage.CompletionTokens),
		StopReason:   choice.FinishReason,
	}

	for _, call := range choice.Message.ToolCalls {
		input := map[string]interface{}{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &input); err != nil {
				return nil, fmt.Errorf("tool call %s: invalid arguments: %w", call.ID, err)
			}
		}
		out.ToolCalls = append(out.ToolCalls, domainllm.ToolCall{
			ID:    call.ID,
			Name:  call.Function.Name,
			Input: input,
		})
	}

	return out, nil
}
