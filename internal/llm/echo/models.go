// Package echo provides deterministic model implementations that make no
// external API calls. They implement the same contracts as the OpenAI suite
// and are used for development, demos and tests.
package echo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/observability"
)

const (
	name               = "echo"
	rewritePrefix      = "Improved question: "
	maxAnswerSentences = 3
	minTokenLength     = 3
)

// FallbackTemplate is the fallback answer; %q receives the question.
const FallbackTemplate = "I couldn't find information about %q in our documentation. " +
	"Please contact support, check our website, or try rephrasing your question."

// Models implements every domain model role without a network.
type Models struct {
	name string
}

// NewModels creates the echo model suite.
func NewModels() *Models {
	return &Models{name: name}
}

// Name returns the suite identifier.
func (m *Models) Name() string {
	return m.name
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

// Respond requests retrieval for the latest user message. Any other latest
// message is echoed back as a direct answer.
func (m *Models) Respond(ctx context.Context, messages []domain.Message, tool domain.ToolSpec) (*domain.ModelTurn, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	latest := messages[len(messages)-1]
	logger := observability.FromContext(ctx)

	if latest.Role == domain.RoleUser {
		logger.Debug("echo requesting retrieval",
			observability.String("query", latest.Content))
		return &domain.ModelTurn{
			Content: "",
			ToolCall: &domain.ToolCall{
				ID:    fmt.Sprintf("echo-call-%d", len(messages)),
				Name:  tool.Name,
				Query: latest.Content,
			},
		}, nil
	}

	logger.Debug("echo answering directly")
	return &domain.ModelTurn{Content: latest.Content, ToolCall: nil}, nil
}

// Grade returns yes when any significant question word occurs in the passages.
func (m *Models) Grade(_ context.Context, question, passages string) (domain.Verdict, error) {
	if strings.TrimSpace(passages) == "" {
		return domain.VerdictNotRelevant, nil
	}

	vocabulary := make(map[string]struct{})
	for _, tok := range tokens(passages) {
		vocabulary[tok] = struct{}{}
	}

	for _, tok := range tokens(question) {
		if len(tok) < minTokenLength {
			continue
		}
		if _, ok := vocabulary[tok]; ok {
			return domain.VerdictRelevant, nil
		}
	}
	return domain.VerdictNotRelevant, nil
}

// Rewrite prefixes the question so every rewrite is observable.
func (m *Models) Rewrite(_ context.Context, question string) (string, error) {
	return rewritePrefix + strings.TrimPrefix(question, rewritePrefix), nil
}

// GenerateAnswer returns the leading sentences of the passages.
func (m *Models) GenerateAnswer(_ context.Context, _ string, passages string) (string, error) {
	sentences := splitSentences(passages)
	if len(sentences) == 0 {
		return "I don't know.", nil
	}
	if len(sentences) > maxAnswerSentences {
		sentences = sentences[:maxAnswerSentences]
	}
	return strings.Join(sentences, " "), nil
}

// GenerateFallback returns FallbackTemplate for the question.
func (m *Models) GenerateFallback(_ context.Context, question string) (string, error) {
	return fmt.Sprintf(FallbackTemplate, question), nil
}

func tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// splitSentences splits on terminal punctuation followed by whitespace.
func splitSentences(text string) []string {
	var (
		sentences []string
		current   strings.Builder
	)

	runes := []rune(strings.Join(strings.Fields(text), " "))
	for i, r := range runes {
		current.WriteRune(r)
		atEnd := i == len(runes)-1
		if (r == '.' || r == '!' || r == '?') && (atEnd || runes[i+1] == ' ') || atEnd {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	return sentences
}
