package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"github.com/davidbz/ember/internal/domain"
)

type toolArguments struct {
	Query string `json:"query"`
}

// toSDKMessages converts the conversation to SDK message params.
func toSDKMessages(messages []domain.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, len(messages))

	for i, msg := range messages {
		switch msg.Role {
		case domain.RoleUser:
			out[i] = openai.UserMessage(msg.Content)
		case domain.RoleAssistant:
			if msg.ToolCall == nil {
				out[i] = openai.AssistantMessage(msg.Content)
				continue
			}
			args, err := json.Marshal(toolArguments{Query: msg.ToolCall.Query})
			if err != nil {
				return nil, fmt.Errorf("encoding tool call %d: %w", i, err)
			}
			//nolint:exhaustruct // OpenAI SDK struct has many optional fields
			assistant := openai.ChatCompletionAssistantMessageParam{
				ToolCalls: []openai.ChatCompletionMessageToolCallParam{{
					ID: msg.ToolCall.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      msg.ToolCall.Name,
						Arguments: string(args),
					},
				}},
			}
			if msg.Content != "" {
				assistant.Content.OfString = openai.String(msg.Content)
			}
			out[i] = openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
		case domain.RoleTool:
			out[i] = openai.ToolMessage(msg.Content, msg.ToolCallID)
		default:
			return nil, fmt.Errorf("message %d: unknown role %q", i, msg.Role)
		}
	}

	return out, nil
}

//nolint:exhaustruct // OpenAI SDK struct has many optional fields
func toolParam(tool domain.ToolSpec) openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        tool.Name,
			Description: openai.String(tool.Description),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query for the documentation.",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

// parseToolQuery extracts the query argument. A blank query is allowed; the
// retrieve state then falls back to the latest user question.
func parseToolQuery(arguments string) (string, error) {
	if strings.TrimSpace(arguments) == "" {
		return "", nil
	}

	var args toolArguments
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid tool arguments: %w", err)
	}
	return args.Query, nil
}
