package domain_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/davidbz/ember/internal/cache/memory"
	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/embedding/lexical"
	"github.com/davidbz/ember/internal/llm/echo"
	"github.com/davidbz/ember/internal/mocks"
	"github.com/davidbz/ember/internal/observability"
)

const (
	taskflowQuestion = "What is TaskFlow?"
	taskflowAnswer   = "TaskFlow is a project tool."
	passages         = "TaskFlow lets teams plan sprints."
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e == eventType {
			n++
		}
	}
	return n
}

type harness struct {
	orchestrator *domain.Orchestrator
	responder    *mocks.MockResponseModel
	grader       *mocks.MockRelevanceGrader
	rewriter     *mocks.MockQuestionRewriter
	answerer     *mocks.MockAnswerGenerator
	fallback     *mocks.MockFallbackGenerator
	retriever    *mocks.MockRetriever
	publisher    *recordingPublisher
}

func newHarness(t *testing.T, cfg domain.OrchestratorConfig, bind bool) *harness {
	t.Helper()

	gen, err := lexical.NewGenerator(lexical.Config{Dimension: 256})
	require.NoError(t, err)

	h := &harness{
		responder: mocks.NewMockResponseModel(t),
		grader:    mocks.NewMockRelevanceGrader(t),
		rewriter:  mocks.NewMockQuestionRewriter(t),
		answerer:  mocks.NewMockAnswerGenerator(t),
		fallback:  mocks.NewMockFallbackGenerator(t),
		retriever: mocks.NewMockRetriever(t),
		publisher: &recordingPublisher{},
	}

	h.orchestrator, err = domain.NewOrchestrator(
		domain.NewSemanticCacheService(gen, memory.NewIndex(), 0.1),
		domain.Models{
			Responder: h.responder,
			Grader:    h.grader,
			Rewriter:  h.rewriter,
			Answerer:  h.answerer,
			Fallback:  h.fallback,
		},
		h.publisher,
		cfg,
	)
	require.NoError(t, err)

	if bind {
		h.orchestrator.BindRetriever(h.retriever)
	}
	return h
}

// respondWithToolCall makes the responder request retrieval for the latest message.
func (h *harness) respondWithToolCall() {
	h.responder.EXPECT().
		Respond(mock.Anything, mock.Anything, domain.RetrievalToolSpec).
		RunAndReturn(func(_ context.Context, msgs []domain.Message, tool domain.ToolSpec) (*domain.ModelTurn, error) {
			return &domain.ModelTurn{ToolCall: &domain.ToolCall{
				ID:    fmt.Sprintf("call-%d", len(msgs)),
				Name:  tool.Name,
				Query: msgs[len(msgs)-1].Content,
			}}, nil
		})
}

func defaultConfig() domain.OrchestratorConfig {
	return domain.OrchestratorConfig{MaxRetries: 2, RecursionLimit: 50, StepTimeout: 0}
}

func nodesOf(events []domain.Event) []domain.Node {
	var nodes []domain.Node
	for _, e := range events {
		if e.Type == domain.EventNodeUpdate {
			nodes = append(nodes, e.Node)
		}
	}
	return nodes
}

func TestOrchestrator_Query_CacheHit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, defaultConfig(), true)
	require.NoError(t, h.orchestrator.AddToCache(ctx, taskflowQuestion, taskflowAnswer))

	result, err := h.orchestrator.Query(ctx, taskflowQuestion)
	require.NoError(t, err)
	require.True(t, result.CacheHit)
	require.Equal(t, taskflowAnswer, result.Answer)
	require.NotNil(t, result.CacheInfo)
	require.Equal(t, taskflowQuestion, result.CacheInfo.MatchedQuestion)
	require.InDelta(t, 0.0, result.CacheInfo.Distance, 1e-9)
	require.InDelta(t, 1.0, result.CacheInfo.Similarity, 1e-9)
	require.Equal(t, 1, h.publisher.count(observability.EventCacheHit))
}

func TestOrchestrator_Query_RewritesUntilFallback(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, defaultConfig(), true)
	question := "How do I configure webhooks?"

	h.respondWithToolCall()
	h.retriever.EXPECT().Retrieve(mock.Anything, mock.Anything).Return("unrelated text", nil).Times(3)
	h.grader.EXPECT().Grade(mock.Anything, question, "unrelated text").Return(domain.VerdictNotRelevant, nil).Times(2)
	h.rewriter.EXPECT().Rewrite(mock.Anything, question).Return("webhook configuration steps", nil).Times(2)
	h.fallback.EXPECT().GenerateFallback(mock.Anything, question).Return("best effort answer", nil).Once()

	result, err := h.orchestrator.Query(ctx, question)
	require.NoError(t, err)
	require.False(t, result.CacheHit)
	require.Nil(t, result.CacheInfo)
	require.Equal(t, "best effort answer", result.Answer)

	require.Equal(t, 2, h.publisher.count(observability.EventRewrite))
	require.Equal(t, 1, h.publisher.count(observability.EventFallback))
	require.Equal(t, 9, h.publisher.count(observability.EventNodeExecuted))
}

func TestOrchestrator_Query_RelevantOnFirstPass(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, defaultConfig(), true)

	h.respondWithToolCall()
	h.retriever.EXPECT().Retrieve(mock.Anything, taskflowQuestion).Return(passages, nil).Once()
	h.grader.EXPECT().Grade(mock.Anything, taskflowQuestion, passages).Return(domain.VerdictRelevant, nil).Once()
	h.answerer.EXPECT().GenerateAnswer(mock.Anything, taskflowQuestion, passages).Return(taskflowAnswer, nil).Once()

	result, err := h.orchestrator.Query(ctx, taskflowQuestion)
	require.NoError(t, err)
	require.False(t, result.CacheHit)
	require.Equal(t, taskflowAnswer, result.Answer)
	require.Zero(t, h.publisher.count(observability.EventRewrite))
	require.Equal(t, 1, h.publisher.count(observability.EventQueryCompleted))
}

func TestOrchestrator_Query_RecursionLimitDegrades(t *testing.T) {
	ctx := context.Background()
	cfg := domain.OrchestratorConfig{MaxRetries: 2, RecursionLimit: domain.MinRecursionLimit(2) - 1}
	h := newHarness(t, cfg, true)

	h.respondWithToolCall()
	h.retriever.EXPECT().Retrieve(mock.Anything, mock.Anything).Return("noise", nil).Times(3)
	h.grader.EXPECT().Grade(mock.Anything, mock.Anything, mock.Anything).Return(domain.VerdictNotRelevant, nil).Times(2)
	h.rewriter.EXPECT().Rewrite(mock.Anything, mock.Anything).Return("rewritten", nil).Times(2)

	result, err := h.orchestrator.Query(ctx, "Explain everything about everything")
	require.NoError(t, err)
	require.False(t, result.CacheHit)
	require.Equal(t, domain.RecursionLimitAnswer, result.Answer)
	require.Equal(t, 1, h.publisher.count(observability.EventRecursionAbort))
	require.Zero(t, h.publisher.count(observability.EventQueryCompleted))
}

func TestOrchestrator_Query_MinRecursionLimitIsEnough(t *testing.T) {
	ctx := context.Background()

	for _, maxRetries := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("max_retries=%d", maxRetries), func(t *testing.T) {
			cfg := domain.OrchestratorConfig{MaxRetries: maxRetries, RecursionLimit: domain.MinRecursionLimit(maxRetries)}
			h := newHarness(t, cfg, true)

			h.respondWithToolCall()
			h.retriever.EXPECT().Retrieve(mock.Anything, mock.Anything).Return("noise", nil).Times(maxRetries + 1)
			if maxRetries > 0 {
				h.grader.EXPECT().Grade(mock.Anything, mock.Anything, mock.Anything).
					Return(domain.VerdictNotRelevant, nil).Times(maxRetries)
				h.rewriter.EXPECT().Rewrite(mock.Anything, mock.Anything).Return("rewritten", nil).Times(maxRetries)
			}
			h.fallback.EXPECT().GenerateFallback(mock.Anything, mock.Anything).Return("fallback", nil).Once()

			result, err := h.orchestrator.Query(ctx, "an unanswerable question")
			require.NoError(t, err)
			require.Equal(t, "fallback", result.Answer)
		})
	}
}

func TestOrchestrator_Query_ExhaustedBudgetSkipsGrading(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, domain.OrchestratorConfig{MaxRetries: 0, RecursionLimit: 10}, true)

	h.respondWithToolCall()
	h.retriever.EXPECT().Retrieve(mock.Anything, mock.Anything).Return(passages, nil).Once()
	h.fallback.EXPECT().GenerateFallback(mock.Anything, taskflowQuestion).Return("fallback", nil).Once()

	result, err := h.orchestrator.Query(ctx, taskflowQuestion)
	require.NoError(t, err)
	require.Equal(t, "fallback", result.Answer)
	h.grader.AssertNotCalled(t, "Grade", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_Query_DirectAnswer(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, defaultConfig(), true)

	h.responder.EXPECT().
		Respond(mock.Anything, []domain.Message{domain.UserMessage("hello")}, domain.RetrievalToolSpec).
		Return(&domain.ModelTurn{Content: "Hi! Ask me about the product."}, nil).Once()

	result, err := h.orchestrator.Query(ctx, "hello")
	require.NoError(t, err)
	require.Equal(t, "Hi! Ask me about the product.", result.Answer)
	h.retriever.AssertNotCalled(t, "Retrieve", mock.Anything, mock.Anything)
}

func TestOrchestrator_Query_GradesOriginalQuestion(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, domain.OrchestratorConfig{MaxRetries: 3, RecursionLimit: 50}, true)
	original := "how 2 export??"

	h.respondWithToolCall()
	h.retriever.EXPECT().Retrieve(mock.Anything, original).Return("noise", nil).Once()
	h.retriever.EXPECT().Retrieve(mock.Anything, "How do I export data?").Return(passages, nil).Once()
	h.grader.EXPECT().Grade(mock.Anything, original, "noise").Return(domain.VerdictNotRelevant, nil).Once()
	h.grader.EXPECT().Grade(mock.Anything, original, passages).Return(domain.VerdictRelevant, nil).Once()
	h.rewriter.EXPECT().Rewrite(mock.Anything, original).Return("How do I export data?", nil).Once()
	h.answerer.EXPECT().GenerateAnswer(mock.Anything, original, passages).Return("Use the export button.", nil).Once()

	events := domain.CollectStream(h.orchestrator.QueryStream(ctx, original))

	require.Equal(t, []domain.Node{
		domain.NodeGenerateQueryOrRespond,
		domain.NodeRetrieve,
		domain.NodeRewriteQuestion,
		domain.NodeGenerateQueryOrRespond,
		domain.NodeRetrieve,
		domain.NodeGenerateAnswer,
	}, nodesOf(events))

	for _, e := range events {
		if e.Type == domain.EventNodeUpdate {
			require.Equal(t, original, e.Messages[0].Content)
			require.Equal(t, domain.RoleUser, e.Messages[0].Role)
		}
	}

	last := events[len(events)-1]
	require.Equal(t, domain.EventComplete, last.Type)
	require.Equal(t, "Use the export button.", last.Answer)
}

func TestOrchestrator_Query_NotInitialized(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, defaultConfig(), false)

	_, err := h.orchestrator.Query(ctx, "anything at all")
	require.ErrorIs(t, err, domain.ErrNotInitialized)

	// the cache is checked first, so hits are served without a retriever
	require.NoError(t, h.orchestrator.AddToCache(ctx, taskflowQuestion, taskflowAnswer))
	result, err := h.orchestrator.Query(ctx, taskflowQuestion)
	require.NoError(t, err)
	require.True(t, result.CacheHit)
}

func TestOrchestrator_Query_EmptyQuestion(t *testing.T) {
	h := newHarness(t, defaultConfig(), true)

	_, err := h.orchestrator.Query(context.Background(), "  ")
	require.ErrorIs(t, err, domain.ErrEmptyQuestion)
}

func TestOrchestrator_Query_InfrastructureErrors(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(h *harness)
		wantOp string
	}{
		{
			name: "responder",
			setup: func(h *harness) {
				h.responder.EXPECT().Respond(mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("model unavailable"))
			},
			wantOp: domain.OpRespond,
		},
		{
			name: "retriever",
			setup: func(h *harness) {
				h.respondWithToolCall()
				h.retriever.EXPECT().Retrieve(mock.Anything, mock.Anything).Return("", errors.New("store down"))
			},
			wantOp: domain.OpRetrieve,
		},
		{
			name: "grader",
			setup: func(h *harness) {
				h.respondWithToolCall()
				h.retriever.EXPECT().Retrieve(mock.Anything, mock.Anything).Return(passages, nil)
				h.grader.EXPECT().Grade(mock.Anything, mock.Anything, mock.Anything).
					Return(domain.Verdict(""), errors.New("timeout"))
			},
			wantOp: domain.OpGrade,
		},
		{
			name: "answerer",
			setup: func(h *harness) {
				h.respondWithToolCall()
				h.retriever.EXPECT().Retrieve(mock.Anything, mock.Anything).Return(passages, nil)
				h.grader.EXPECT().Grade(mock.Anything, mock.Anything, mock.Anything).Return(domain.VerdictRelevant, nil)
				h.answerer.EXPECT().GenerateAnswer(mock.Anything, mock.Anything, mock.Anything).
					Return("", errors.New("rate limited"))
			},
			wantOp: domain.OpAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, defaultConfig(), true)
			tt.setup(h)

			result, err := h.orchestrator.Query(context.Background(), taskflowQuestion)
			require.Nil(t, result)

			var infra *domain.InfrastructureError
			require.ErrorAs(t, err, &infra)
			require.Equal(t, tt.wantOp, infra.Op)
			require.Equal(t, 1, h.publisher.count(observability.EventQueryFailed))
		})
	}
}

func TestOrchestrator_Query_StepTimeout(t *testing.T) {
	h := newHarness(t, domain.OrchestratorConfig{MaxRetries: 1, RecursionLimit: 10, StepTimeout: 1}, true)

	h.respondWithToolCall()
	h.retriever.EXPECT().Retrieve(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	_, err := h.orchestrator.Query(context.Background(), taskflowQuestion)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	var infra *domain.InfrastructureError
	require.ErrorAs(t, err, &infra)
	require.Equal(t, domain.OpRetrieve, infra.Op)
}

func TestOrchestrator_QueryStream_CacheHit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, defaultConfig(), true)
	require.NoError(t, h.orchestrator.AddToCache(ctx, taskflowQuestion, taskflowAnswer))

	events := domain.CollectStream(h.orchestrator.QueryStream(ctx, taskflowQuestion))

	require.Len(t, events, 2)
	require.Equal(t, domain.EventCacheHit, events[0].Type)
	require.Equal(t, taskflowAnswer, events[0].Answer)
	require.Equal(t, domain.EventComplete, events[1].Type)
	require.Equal(t, taskflowAnswer, events[1].Answer)
	require.NotNil(t, events[1].CacheInfo)
}

func TestOrchestrator_QueryStream_MatchesQuery(t *testing.T) {
	ctx := context.Background()

	setup := func(h *harness) {
		h.respondWithToolCall()
		h.retriever.EXPECT().Retrieve(mock.Anything, mock.Anything).Return(passages, nil).Once()
		h.grader.EXPECT().Grade(mock.Anything, mock.Anything, mock.Anything).Return(domain.VerdictRelevant, nil).Once()
		h.answerer.EXPECT().GenerateAnswer(mock.Anything, mock.Anything, mock.Anything).Return(taskflowAnswer, nil).Once()
	}

	direct := newHarness(t, defaultConfig(), true)
	setup(direct)
	result, err := direct.orchestrator.Query(ctx, taskflowQuestion)
	require.NoError(t, err)

	streamed := newHarness(t, defaultConfig(), true)
	setup(streamed)
	events := domain.CollectStream(streamed.orchestrator.QueryStream(ctx, taskflowQuestion))

	require.Equal(t, domain.EventCacheMiss, events[0].Type)
	require.Equal(t, []domain.Node{
		domain.NodeGenerateQueryOrRespond,
		domain.NodeRetrieve,
		domain.NodeGenerateAnswer,
	}, nodesOf(events))

	last := events[len(events)-1]
	require.True(t, last.IsTerminal())
	require.Equal(t, domain.EventComplete, last.Type)
	require.Equal(t, result.Answer, last.Answer)

	for _, e := range events[:len(events)-1] {
		require.False(t, e.IsTerminal())
	}
}

func TestOrchestrator_QueryStream_RecursionLimit(t *testing.T) {
	h := newHarness(t, domain.OrchestratorConfig{MaxRetries: 1, RecursionLimit: 2}, true)

	h.respondWithToolCall()
	h.retriever.EXPECT().Retrieve(mock.Anything, mock.Anything).Return("noise", nil).Once()
	h.grader.EXPECT().Grade(mock.Anything, mock.Anything, mock.Anything).Return(domain.VerdictNotRelevant, nil).Once()

	events := domain.CollectStream(h.orchestrator.QueryStream(context.Background(), taskflowQuestion))

	last := events[len(events)-1]
	require.Equal(t, domain.EventError, last.Type)
	require.Equal(t, domain.RecursionLimitAnswer, last.Answer)
	require.ErrorIs(t, last.Err, domain.ErrRecursionLimit)
	require.True(t, last.Degraded())
	require.NotContains(t, last.Err.Error(), "steps")
	require.Len(t, nodesOf(events), 2)
}

func TestOrchestrator_QueryStream_Error(t *testing.T) {
	h := newHarness(t, defaultConfig(), false)

	events := domain.CollectStream(h.orchestrator.QueryStream(context.Background(), "unseen question"))

	require.Len(t, events, 2)
	require.Equal(t, domain.EventCacheMiss, events[0].Type)
	require.Equal(t, domain.EventError, events[1].Type)
	require.ErrorIs(t, events[1].Err, domain.ErrNotInitialized)
	require.Empty(t, events[1].Answer)
}

func blockUntilDone(ctx context.Context, _ []domain.Message, _ domain.ToolSpec) (*domain.ModelTurn, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestOrchestrator_QueryStream_CancelledEndsWithError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHarness(t, defaultConfig(), true)

	h.responder.EXPECT().Respond(mock.Anything, mock.Anything, mock.Anything).RunAndReturn(blockUntilDone)

	events := h.orchestrator.QueryStream(ctx, taskflowQuestion)
	first := <-events
	require.Equal(t, domain.EventCacheMiss, first.Type)

	cancel()
	rest := domain.CollectStream(events)
	require.Len(t, rest, 1)
	require.Equal(t, domain.EventError, rest[0].Type)
	require.ErrorIs(t, rest[0].Err, context.Canceled)
}

func TestOrchestrator_QueryStream_DeadlineEndsWithError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	h := newHarness(t, defaultConfig(), true)

	h.responder.EXPECT().Respond(mock.Anything, mock.Anything, mock.Anything).RunAndReturn(blockUntilDone)

	events := domain.CollectStream(h.orchestrator.QueryStream(ctx, taskflowQuestion))

	require.Len(t, events, 2)
	require.Equal(t, domain.EventCacheMiss, events[0].Type)

	last := events[1]
	require.Equal(t, domain.EventError, last.Type)
	require.ErrorIs(t, last.Err, context.DeadlineExceeded)
	var infra *domain.InfrastructureError
	require.ErrorAs(t, last.Err, &infra)
	require.Equal(t, domain.OpRespond, infra.Op)

	_, err := h.orchestrator.Query(ctx, taskflowQuestion)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOrchestrator_QueryStream_UnreadStreamStillTerminates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := newHarness(t, defaultConfig(), true)

	h.responder.EXPECT().Respond(mock.Anything, mock.Anything, mock.Anything).RunAndReturn(blockUntilDone).Maybe()

	events := h.orchestrator.QueryStream(ctx, taskflowQuestion)
	cancel()

	collected := domain.CollectStream(events)
	require.NotEmpty(t, collected)
	last := collected[len(collected)-1]
	require.True(t, last.IsTerminal())
	require.Equal(t, domain.EventError, last.Type)
	for _, e := range collected[:len(collected)-1] {
		require.False(t, e.IsTerminal())
	}
}

func TestNewOrchestrator_Validation(t *testing.T) {
	gen, err := lexical.NewGenerator(lexical.Config{})
	require.NoError(t, err)
	cache := domain.NewSemanticCacheService(gen, memory.NewIndex(), 0.1)
	models := domain.Models{
		Responder: mocks.NewMockResponseModel(t),
		Grader:    mocks.NewMockRelevanceGrader(t),
		Rewriter:  mocks.NewMockQuestionRewriter(t),
		Answerer:  mocks.NewMockAnswerGenerator(t),
		Fallback:  mocks.NewMockFallbackGenerator(t),
	}

	_, err = domain.NewOrchestrator(nil, models, nil, defaultConfig())
	require.Error(t, err)

	partial := models
	partial.Grader = nil
	_, err = domain.NewOrchestrator(cache, partial, nil, defaultConfig())
	require.Error(t, err)

	_, err = domain.NewOrchestrator(cache, models, nil, domain.OrchestratorConfig{MaxRetries: -1, RecursionLimit: 10})
	require.Error(t, err)

	// a low limit is allowed; runs degrade instead
	o, err := domain.NewOrchestrator(cache, models, nil, domain.OrchestratorConfig{MaxRetries: 2, RecursionLimit: 1})
	require.NoError(t, err)
	require.Same(t, cache, o.Cache())
}

func TestNewOrchestrator_WarnsBelowMinRecursionLimit(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	observability.SetLogger(zap.New(core))
	t.Cleanup(func() { observability.SetLogger(zap.NewNop()) })

	gen, err := lexical.NewGenerator(lexical.Config{})
	require.NoError(t, err)
	models := echo.NewModels().Suite()
	cache := domain.NewSemanticCacheService(gen, memory.NewIndex(), 0.1)

	// 2(N+1)+1 steps is still short of the 3(N+1) a fallback run executes.
	_, err = domain.NewOrchestrator(cache, models, nil, domain.OrchestratorConfig{MaxRetries: 2, RecursionLimit: 7})
	require.NoError(t, err)

	entries := logs.FilterMessageSnippet("each rewrite cycle takes 3 steps").All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(9), entries[0].ContextMap()["required"])

	_, err = domain.NewOrchestrator(cache, models, nil, domain.OrchestratorConfig{MaxRetries: 2, RecursionLimit: 9})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
}

func TestOrchestratorConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.OrchestratorConfig
		wantErr bool
	}{
		{name: "defaults", cfg: domain.OrchestratorConfig{MaxRetries: 2, RecursionLimit: 50}},
		{name: "zero retries", cfg: domain.OrchestratorConfig{MaxRetries: 0, RecursionLimit: 3}},
		{name: "negative retries", cfg: domain.OrchestratorConfig{MaxRetries: -1, RecursionLimit: 3}, wantErr: true},
		{name: "zero limit", cfg: domain.OrchestratorConfig{MaxRetries: 0, RecursionLimit: 0}, wantErr: true},
		{name: "negative timeout", cfg: domain.OrchestratorConfig{RecursionLimit: 3, StepTimeout: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMinRecursionLimit(t *testing.T) {
	require.Equal(t, 3, domain.MinRecursionLimit(0))
	require.Equal(t, 9, domain.MinRecursionLimit(2))
	require.Equal(t, 18, domain.MinRecursionLimit(5))
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		retryCount int
		maxRetries int
		verdict    domain.Verdict
		want       domain.GradeDecision
	}{
		{name: "relevant", retryCount: 0, maxRetries: 2, verdict: domain.VerdictRelevant, want: domain.DecisionGenerateAnswer},
		{name: "not relevant", retryCount: 0, maxRetries: 2, verdict: domain.VerdictNotRelevant, want: domain.DecisionRewriteQuestion},
		{name: "last retry still rewrites", retryCount: 1, maxRetries: 2, verdict: domain.VerdictNotRelevant, want: domain.DecisionRewriteQuestion},
		{name: "budget beats relevant", retryCount: 2, maxRetries: 2, verdict: domain.VerdictRelevant, want: domain.DecisionGenerateFallback},
		{name: "budget beats not relevant", retryCount: 2, maxRetries: 2, verdict: domain.VerdictNotRelevant, want: domain.DecisionGenerateFallback},
		{name: "zero budget", retryCount: 0, maxRetries: 0, verdict: domain.VerdictRelevant, want: domain.DecisionGenerateFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, domain.Decide(tt.retryCount, tt.maxRetries, tt.verdict))
		})
	}
}

func TestGradeDecision_String(t *testing.T) {
	require.Equal(t, "generate_answer", domain.DecisionGenerateAnswer.String())
	require.Equal(t, "rewrite_question", domain.DecisionRewriteQuestion.String())
	require.Equal(t, "generate_fallback", domain.DecisionGenerateFallback.String())
	require.Equal(t, "unknown", domain.GradeDecision(0).String())
}
