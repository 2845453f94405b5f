package echo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/llm/echo"
)

func TestNewModels(t *testing.T) {
	models := echo.NewModels()

	require.NotNil(t, models)
	require.Equal(t, "echo", models.Name())

	suite := models.Suite()
	require.NotNil(t, suite.Responder)
	require.NotNil(t, suite.Fallback)
}

func TestRespond_RequestsRetrievalForUserMessage(t *testing.T) {
	models := echo.NewModels()

	turn, err := models.Respond(context.Background(),
		[]domain.Message{domain.UserMessage("How do I export data?")},
		domain.RetrievalToolSpec)

	require.NoError(t, err)
	require.True(t, turn.RequestsRetrieval())
	require.Equal(t, "retrieve_documents", turn.ToolCall.Name)
	require.Equal(t, "How do I export data?", turn.ToolCall.Query)
	require.Equal(t, "echo-call-1", turn.ToolCall.ID)
}

func TestRespond_EchoesNonUserMessage(t *testing.T) {
	models := echo.NewModels()

	turn, err := models.Respond(context.Background(),
		[]domain.Message{domain.UserMessage("q"), domain.AssistantMessage("already answered")},
		domain.RetrievalToolSpec)

	require.NoError(t, err)
	require.False(t, turn.RequestsRetrieval())
	require.Equal(t, "already answered", turn.Content)
}

func TestRespond_EmptyMessages(t *testing.T) {
	_, err := echo.NewModels().Respond(context.Background(), nil, domain.RetrievalToolSpec)

	require.Error(t, err)
	require.Contains(t, err.Error(), "messages cannot be empty")
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name     string
		question string
		passages string
		want     domain.Verdict
	}{
		{
			name:     "shared keyword is relevant",
			question: "How do I export reports?",
			passages: "Reports can be exported as CSV from the Reports page.",
			want:     domain.VerdictRelevant,
		},
		{
			name:     "no overlap is not relevant",
			question: "What is the refund policy?",
			passages: "Tasks can be assigned to team members.",
			want:     domain.VerdictNotRelevant,
		},
		{
			name:     "short words are ignored",
			question: "is it on",
			passages: "it is on",
			want:     domain.VerdictNotRelevant,
		},
		{
			name:     "empty passages are not relevant",
			question: "export",
			passages: "  ",
			want:     domain.VerdictNotRelevant,
		},
	}

	models := echo.NewModels()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := models.Grade(context.Background(), tt.question, tt.passages)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRewrite_IsIdempotentOnPrefix(t *testing.T) {
	models := echo.NewModels()
	ctx := context.Background()

	once, err := models.Rewrite(ctx, "reset password")
	require.NoError(t, err)
	require.Equal(t, "Improved question: reset password", once)

	twice, err := models.Rewrite(ctx, once)
	require.NoError(t, err)
	require.Equal(t, once, twice)
}

func TestGenerateAnswer_LeadingSentences(t *testing.T) {
	models := echo.NewModels()

	answer, err := models.GenerateAnswer(context.Background(), "q",
		"First sentence. Second one!\n\nThird? Fourth is dropped.")
	require.NoError(t, err)
	require.Equal(t, "First sentence. Second one! Third?", answer)
}

func TestGenerateAnswer_NoContext(t *testing.T) {
	answer, err := echo.NewModels().GenerateAnswer(context.Background(), "q", "")
	require.NoError(t, err)
	require.Equal(t, "I don't know.", answer)
}

func TestGenerateAnswer_UnterminatedText(t *testing.T) {
	answer, err := echo.NewModels().GenerateAnswer(context.Background(), "q", "no terminal punctuation")
	require.NoError(t, err)
	require.Equal(t, "no terminal punctuation", answer)
}

func TestGenerateFallback(t *testing.T) {
	answer, err := echo.NewModels().GenerateFallback(context.Background(), "Who won?")
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf(echo.FallbackTemplate, "Who won?"), answer)
}
