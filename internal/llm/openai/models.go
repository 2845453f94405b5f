// Package openai provides the orchestrator's generative models on top of the
// OpenAI chat completions API using the official SDK. A single Models value
// implements every model role: tool-calling responder, relevance grader,
// question rewriter, answer generator and fallback generator.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/observability"
)

const gradeSchemaName = "grade_documents"

// Models implements the domain model interfaces with OpenAI chat completions.
type Models struct {
	client      openai.Client
	chatModel   string
	graderModel string
	temperature float64
	product     string
}

// NewModels creates the OpenAI model suite.
func NewModels(config Config) (*Models, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if config.ChatModel == "" {
		config.ChatModel = string(openai.ChatModelGPT4o)
	}
	if config.GraderModel == "" {
		config.GraderModel = config.ChatModel
	}
	if config.Product == "" {
		config.Product = "product"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	if config.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(config.MaxRetries))
	}

	return &Models{
		client:      openai.NewClient(opts...),
		chatModel:   config.ChatModel,
		graderModel: config.GraderModel,
		temperature: config.Temperature,
		product:     config.Product,
	}, nil
}

// Name returns the backend identifier.
func (m *Models) Name() string {
	return "openai"
}

// Suite returns the models bundled for the orchestrator.
func (m *Models) Suite() domain.Models {
	return domain.Models{
		Responder: m,
		Grader:    m,
		Rewriter:  m,
		Answerer:  m,
		Fallback:  m,
	}
}

// Respond runs the conversation with the retrieval tool bound. The model either
// answers directly or asks for retrieval with a search query.
func (m *Models) Respond(ctx context.Context, messages []domain.Message, tool domain.ToolSpec) (*domain.ModelTurn, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	sdkMessages, err := toSDKMessages(messages)
	if err != nil {
		return nil, err
	}

	params := m.chatParams(m.chatModel, sdkMessages)
	params.Tools = []openai.ChatCompletionToolParam{toolParam(tool)}

	resp, err := m.complete(ctx, params)
	if err != nil {
		return nil, err
	}

	msg := resp.Choices[0].Message
	for _, call := range msg.ToolCalls {
		if call.Function.Name != tool.Name {
			continue
		}

		query, parseErr := parseToolQuery(call.Function.Arguments)
		if parseErr != nil {
			return nil, parseErr
		}

		observability.FromContext(ctx).Debug("model requested retrieval",
			observability.String("tool_call_id", call.ID),
			observability.String("query", query))

		return &domain.ModelTurn{
			Content: msg.Content,
			ToolCall: &domain.ToolCall{
				ID:    call.ID,
				Name:  call.Function.Name,
				Query: query,
			},
		}, nil
	}

	return &domain.ModelTurn{Content: msg.Content, ToolCall: nil}, nil
}

type gradeResult struct {
	BinaryScore string `json:"binary_score"`
}

// Grade classifies passages against the question with a structured yes/no output.
func (m *Models) Grade(ctx context.Context, question, passages string) (domain.Verdict, error) {
	prompt := render(gradePrompt, map[string]string{
		"question": question,
		"context":  passages,
	})

	params := m.chatParams(m.graderModel, []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)})
	params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        gradeSchemaName,
				Description: openai.String("Grade documents using a binary score for relevance check."),
				Strict:      openai.Bool(true),
				Schema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"binary_score": map[string]any{
							"type":        "string",
							"enum":        []string{string(domain.VerdictRelevant), string(domain.VerdictNotRelevant)},
							"description": "Relevance score: 'yes' if relevant, or 'no' if not relevant",
						},
					},
					"required":             []string{"binary_score"},
					"additionalProperties": false,
				},
			},
		},
	}

	resp, err := m.complete(ctx, params)
	if err != nil {
		return "", err
	}

	return parseVerdict(resp.Choices[0].Message.Content)
}

// Rewrite reformulates the question.
func (m *Models) Rewrite(ctx context.Context, question string) (string, error) {
	return m.prompt(ctx, render(rewritePrompt, map[string]string{"question": question}))
}

// GenerateAnswer answers the question from retrieved passages.
func (m *Models) GenerateAnswer(ctx context.Context, question, passages string) (string, error) {
	return m.prompt(ctx, render(generatePrompt, map[string]string{
		"product":  m.product,
		"question": question,
		"context":  passages,
	}))
}

// GenerateFallback produces a context-free answer after retrieval failed to help.
func (m *Models) GenerateFallback(ctx context.Context, question string) (string, error) {
	return m.prompt(ctx, render(fallbackPrompt, map[string]string{
		"product":  m.product,
		"question": question,
	}))
}

func (m *Models) prompt(ctx context.Context, prompt string) (string, error) {
	params := m.chatParams(m.chatModel, []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)})

	resp, err := m.complete(ctx, params)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

//nolint:exhaustruct // OpenAI SDK struct has many optional fields
func (m *Models) chatParams(model string, messages []openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(m.temperature),
	}
}

// complete calls the API and guarantees at least one choice in the response.
func (m *Models) complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	logger := observability.FromContext(observability.WithModel(ctx, string(params.Model)))
	logger.Debug("calling OpenAI API")

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("OpenAI API call failed", observability.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("OpenAI returned no choices")
	}

	logger.Debug("OpenAI API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	return resp, nil
}

func parseVerdict(content string) (domain.Verdict, error) {
	var result gradeResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return "", fmt.Errorf("failed to parse grade: %w", err)
	}

	switch domain.Verdict(strings.ToLower(strings.TrimSpace(result.BinaryScore))) {
	case domain.VerdictRelevant:
		return domain.VerdictRelevant, nil
	case domain.VerdictNotRelevant:
		return domain.VerdictNotRelevant, nil
	default:
		return "", fmt.Errorf("unexpected binary score %q", result.BinaryScore)
	}
}
