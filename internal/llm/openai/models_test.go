package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/llm/openai"
)

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []map[string]any `json:"messages"`
	Tools    []map[string]any `json:"tools"`
	Format   map[string]any   `json:"response_format"`
}

// fakeChat serves /v1/chat/completions, recording each request and replying
// with the assistant message built by reply.
func fakeChat(t *testing.T, reply func(req chatRequest) map[string]any) (*httptest.Server, *[]chatRequest) {
	t.Helper()

	var seen []chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req)

		message := reply(req)
		message["role"] = "assistant"
		if _, ok := message["content"]; !ok {
			message["content"] = nil
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       message,
				"finish_reason": "stop",
				"logprobs":      nil,
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(server.Close)

	return server, &seen
}

func newModels(t *testing.T, server *httptest.Server) *openai.Models {
	t.Helper()

	models, err := openai.NewModels(openai.Config{
		APIKey:     "test-key",
		BaseURL:    server.URL + "/v1/",
		MaxRetries: 0,
		ChatModel:  "gpt-4o",
		Product:    "Acme",
	})
	require.NoError(t, err)
	return models
}

func userContent(req chatRequest) string {
	content, _ := req.Messages[len(req.Messages)-1]["content"].(string)
	return content
}

func TestNewModels_MissingAPIKey(t *testing.T) {
	models, err := openai.NewModels(openai.Config{APIKey: ""})

	require.Error(t, err)
	require.Nil(t, models)
	require.Contains(t, err.Error(), "OpenAI API key is required")
}

func TestModels_Respond_ToolCall(t *testing.T) {
	server, seen := fakeChat(t, func(chatRequest) map[string]any {
		return map[string]any{
			"tool_calls": []map[string]any{{
				"id":   "call_1",
				"type": "function",
				"function": map[string]any{
					"name":      domain.RetrievalToolSpec.Name,
					"arguments": `{"query":"reset password"}`,
				},
			}},
		}
	})
	models := newModels(t, server)

	turn, err := models.Respond(context.Background(),
		[]domain.Message{domain.UserMessage("How do I reset my password?")},
		domain.RetrievalToolSpec)
	require.NoError(t, err)
	require.True(t, turn.RequestsRetrieval())
	require.Equal(t, "call_1", turn.ToolCall.ID)
	require.Equal(t, "reset password", turn.ToolCall.Query)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	require.Len(t, req.Tools, 1)
	fn, _ := req.Tools[0]["function"].(map[string]any)
	require.Equal(t, domain.RetrievalToolSpec.Name, fn["name"])
}

func TestModels_Respond_DirectAnswer(t *testing.T) {
	server, _ := fakeChat(t, func(chatRequest) map[string]any {
		return map[string]any{"content": "Hello there!"}
	})
	models := newModels(t, server)

	turn, err := models.Respond(context.Background(),
		[]domain.Message{domain.UserMessage("hi")}, domain.RetrievalToolSpec)
	require.NoError(t, err)
	require.False(t, turn.RequestsRetrieval())
	require.Equal(t, "Hello there!", turn.Content)
}

func TestModels_Respond_SendsToolHistory(t *testing.T) {
	server, seen := fakeChat(t, func(chatRequest) map[string]any {
		return map[string]any{"content": "done"}
	})
	models := newModels(t, server)

	history := []domain.Message{
		domain.UserMessage("q"),
		{Role: domain.RoleAssistant, ToolCall: &domain.ToolCall{ID: "call_1", Name: "retrieve_documents", Query: "q"}},
		domain.ToolResultMessage("call_1", "passages"),
		domain.UserMessage("better q"),
	}

	_, err := models.Respond(context.Background(), history, domain.RetrievalToolSpec)
	require.NoError(t, err)

	msgs := (*seen)[0].Messages
	require.Len(t, msgs, 4)
	require.Equal(t, "assistant", msgs[1]["role"])
	require.NotEmpty(t, msgs[1]["tool_calls"])
	require.Equal(t, "tool", msgs[2]["role"])
	require.Equal(t, "call_1", msgs[2]["tool_call_id"])
}

func TestModels_Respond_EmptyMessages(t *testing.T) {
	models, err := openai.NewModels(openai.Config{APIKey: "k"})
	require.NoError(t, err)

	_, err = models.Respond(context.Background(), nil, domain.RetrievalToolSpec)
	require.Error(t, err)
}

func TestModels_Grade(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    domain.Verdict
		wantErr bool
	}{
		{name: "relevant", content: `{"binary_score":"yes"}`, want: domain.VerdictRelevant},
		{name: "not relevant", content: `{"binary_score":"no"}`, want: domain.VerdictNotRelevant},
		{name: "case insensitive", content: `{"binary_score":" YES "}`, want: domain.VerdictRelevant},
		{name: "unexpected label", content: `{"binary_score":"maybe"}`, wantErr: true},
		{name: "not json", content: `yes`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, seen := fakeChat(t, func(chatRequest) map[string]any {
				return map[string]any{"content": tt.content}
			})
			models := newModels(t, server)

			verdict, err := models.Grade(context.Background(), "the question", "the passages")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, verdict)

			req := (*seen)[0]
			require.Equal(t, "json_schema", req.Format["type"])
			prompt := userContent(req)
			require.Contains(t, prompt, "the question")
			require.Contains(t, prompt, "the passages")
		})
	}
}

func TestModels_PromptedGenerators(t *testing.T) {
	server, seen := fakeChat(t, func(chatRequest) map[string]any {
		return map[string]any{"content": "  generated  "}
	})
	models := newModels(t, server)
	ctx := context.Background()

	rewritten, err := models.Rewrite(ctx, "pwd reset?")
	require.NoError(t, err)
	require.Equal(t, "generated", rewritten)
	require.Contains(t, userContent((*seen)[0]), "pwd reset?")
	require.Contains(t, userContent((*seen)[0]), "Formulate an improved question")

	answer, err := models.GenerateAnswer(ctx, "q1", "ctx {not a placeholder}")
	require.NoError(t, err)
	require.Equal(t, "generated", answer)
	prompt := userContent((*seen)[1])
	require.Contains(t, prompt, "Acme assistant")
	require.Contains(t, prompt, "ctx {not a placeholder}")

	fallback, err := models.GenerateFallback(ctx, "q2")
	require.NoError(t, err)
	require.Equal(t, "generated", fallback)
	require.True(t, strings.Contains(userContent((*seen)[2]), "Acme documentation"))
}

func TestModels_APIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	models := newModels(t, server)

	_, err := models.Rewrite(context.Background(), "q")
	require.Error(t, err)
	require.Contains(t, err.Error(), "OpenAI API call failed")
}

func TestModels_Suite(t *testing.T) {
	models, err := openai.NewModels(openai.Config{APIKey: "k"})
	require.NoError(t, err)

	suite := models.Suite()
	require.NotNil(t, suite.Responder)
	require.NotNil(t, suite.Grader)
	require.NotNil(t, suite.Rewriter)
	require.NotNil(t, suite.Answerer)
	require.NotNil(t, suite.Fallback)
}
