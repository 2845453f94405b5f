package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/davidbz/ember/internal/observability"
)

// RecursionLimitAnswer is returned instead of an error when a run hits its step ceiling.
const RecursionLimitAnswer = "I encountered an error while searching for an answer. " +
	"The question might be too complex or outside our documentation scope. Please try:\n" +
	"• Rephrasing your question\n" +
	"• Asking about specific product features\n" +
	"• Breaking down complex questions"

// stepsPerCycle counts generate_query_or_respond, retrieve and the routed handler.
const stepsPerCycle = 3

// OrchestratorConfig bounds a single run.
//
// RecursionLimit counts executed handlers. Each cycle runs three of them, so a
// run with MaxRetries = N needs 3(N+1) steps; anything lower aborts a normal
// fallback run. Grading is routing and is not counted.
type OrchestratorConfig struct {
	MaxRetries     int `env:"ORCHESTRATOR_MAX_RETRIES"     envDefault:"2"`
	RecursionLimit int `env:"ORCHESTRATOR_RECURSION_LIMIT" envDefault:"50"`
	StepTimeout    int `env:"ORCHESTRATOR_STEP_TIMEOUT"    envDefault:"0"` // seconds, 0 disables
}

// MinRecursionLimit is the number of steps the longest normal run needs:
// maxRetries rewrite cycles plus the final retrieval and fallback.
func MinRecursionLimit(maxRetries int) int {
	return stepsPerCycle * (maxRetries + 1)
}

// Validate rejects configurations that cannot run.
func (c OrchestratorConfig) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.RecursionLimit <= 0 {
		return fmt.Errorf("recursion limit must be > 0, got %d", c.RecursionLimit)
	}
	if c.StepTimeout < 0 {
		return fmt.Errorf("step timeout must be >= 0, got %d", c.StepTimeout)
	}
	return nil
}

// Orchestrator answers questions from the semantic cache or by driving the
// retrieve / grade / rewrite state machine.
type Orchestrator struct {
	cache     *SemanticCacheService
	models    Models
	publisher EventPublisher
	cfg       OrchestratorConfig

	mu        sync.RWMutex
	retriever Retriever
}

// NewOrchestrator creates an orchestrator. A retriever is bound later with BindRetriever;
// until then cache misses fail with ErrNotInitialized.
func NewOrchestrator(
	cache *SemanticCacheService,
	models Models,
	publisher EventPublisher,
	cfg OrchestratorConfig,
) (*Orchestrator, error) {
	if cache == nil {
		return nil, errors.New("cache cannot be nil")
	}
	if models.Responder == nil || models.Grader == nil || models.Rewriter == nil ||
		models.Answerer == nil || models.Fallback == nil {
		return nil, errors.New("all models must be provided")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid orchestrator config: %w", err)
	}

	if cfg.RecursionLimit < MinRecursionLimit(cfg.MaxRetries) {
		observability.FromContext(context.Background()).Warn(
			"recursion limit below the steps needed to reach fallback; "+
				"each rewrite cycle takes 3 steps (generate_query_or_respond, retrieve, rewrite_question or final handler)",
			observability.Int("recursion_limit", cfg.RecursionLimit),
			observability.Int("max_retries", cfg.MaxRetries),
			observability.Int("required", MinRecursionLimit(cfg.MaxRetries)))
	}

	return &Orchestrator{
		cache:     cache,
		models:    models,
		publisher: publisher,
		cfg:       cfg,
		mu:        sync.RWMutex{},
		retriever: nil,
	}, nil
}

// BindRetriever installs the retriever used by the retrieve state.
func (o *Orchestrator) BindRetriever(r Retriever) {
	o.mu.Lock()
	o.retriever = r
	o.mu.Unlock()
}

func (o *Orchestrator) boundRetriever() Retriever {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.retriever
}

// Cache returns the semantic cache.
func (o *Orchestrator) Cache() *SemanticCacheService {
	return o.cache
}

// AddToCache seeds the cache with a question/answer pair.
func (o *Orchestrator) AddToCache(ctx context.Context, question, answer string) error {
	return o.cache.AddPair(ctx, question, answer)
}

// Query answers a question synchronously.
// A step-ceiling abort is returned as RecursionLimitAnswer, not as an error.
func (o *Orchestrator) Query(ctx context.Context, question string) (*QueryResult, error) {
	result, err := o.execute(ctx, question, func(Event) bool { return true })
	if errors.Is(err, ErrRecursionLimit) {
		return &QueryResult{
			Answer:    RecursionLimitAnswer,
			CacheHit:  false,
			CacheInfo: nil,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// emitFunc delivers a non-terminal event and reports whether the consumer is still there.
type emitFunc func(Event) bool

// execute is the single code path behind Query and QueryStream.
func (o *Orchestrator) execute(ctx context.Context, question string, emit emitFunc) (*QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	ctx = observability.WithQueryID(ctx, observability.GenerateQueryID())
	logger := observability.FromContext(ctx)
	started := time.Now()

	lookup, err := o.cache.Check(ctx, question, 1)
	if err != nil {
		o.publish(ctx, observability.EventQueryFailed, map[string]interface{}{"op": opOf(err)})
		return nil, fmt.Errorf("cache check failed: %w", err)
	}

	if lookup.Hit {
		info := &CacheInfo{
			MatchedQuestion: lookup.BestMatch.Prompt,
			Distance:        lookup.BestMatch.VectorDistance,
			Similarity:      lookup.BestMatch.CosineSimilarity,
		}
		logger.Info("cache HIT - returning cached answer",
			observability.String("matched_question", info.MatchedQuestion),
			observability.Float64("distance", info.Distance),
			observability.Float64("similarity", info.Similarity))
		o.publish(ctx, observability.EventCacheHit, map[string]interface{}{
			"distance":   info.Distance,
			"similarity": info.Similarity,
		})

		result := &QueryResult{
			Answer:    lookup.BestMatch.Response,
			CacheHit:  true,
			CacheInfo: info,
		}
		if !emit(Event{Type: EventCacheHit, Answer: result.Answer, CacheInfo: info}) {
			return nil, ctx.Err()
		}
		o.publishCompleted(ctx, started, true)
		return result, nil
	}

	logger.Info("cache MISS - running retrieval pipeline")
	o.publish(ctx, observability.EventCacheMiss, nil)
	if !emit(Event{Type: EventCacheMiss}) {
		return nil, ctx.Err()
	}

	retriever := o.boundRetriever()
	if retriever == nil {
		return nil, ErrNotInitialized
	}

	answer, err := o.run(ctx, retriever, newConversationState(question), emit)
	if err != nil {
		if errors.Is(err, ErrRecursionLimit) {
			logger.Warn("run aborted by recursion limit",
				observability.Int("recursion_limit", o.cfg.RecursionLimit))
			o.publish(ctx, observability.EventRecursionAbort, nil)
		} else {
			logger.Error("query failed", observability.Error(err))
			o.publish(ctx, observability.EventQueryFailed, map[string]interface{}{"op": opOf(err)})
		}
		return nil, err
	}

	o.publishCompleted(ctx, started, false)
	return &QueryResult{Answer: answer, CacheHit: false, CacheInfo: nil}, nil
}

// run drives the state machine until a terminal handler produces the answer.
func (o *Orchestrator) run(
	ctx context.Context,
	retriever Retriever,
	state ConversationState,
	emit emitFunc,
) (string, error) {
	logger := observability.FromContext(ctx)
	node := NodeGenerateQueryOrRespond
	steps := 0

	for {
		if steps >= o.cfg.RecursionLimit {
			return "", fmt.Errorf("%w: %d steps without reaching an answer", ErrRecursionLimit, steps)
		}
		steps++

		logger.Debug("executing node",
			observability.String("node", string(node)),
			observability.Int("step", steps),
			observability.Int("retry_count", state.RetryCount))

		var (
			delta stateDelta
			next  Node
			done  bool
			err   error
		)

		switch node {
		case NodeGenerateQueryOrRespond:
			delta, done, err = o.generateQueryOrRespond(ctx, state)
			next = NodeRetrieve
		case NodeRetrieve:
			delta, err = o.retrieve(ctx, retriever, state)
		case NodeRewriteQuestion:
			delta, err = o.rewriteQuestion(ctx, state)
			next = NodeGenerateQueryOrRespond
		case NodeGenerateAnswer:
			delta, err = o.generateAnswer(ctx, state)
			done = true
		case NodeGenerateFallback:
			delta, err = o.generateFallback(ctx, state)
			done = true
		default:
			return "", fmt.Errorf("unknown node %q", node)
		}
		if err != nil {
			return "", err
		}

		state = state.apply(delta)
		o.publish(ctx, observability.EventNodeExecuted, map[string]interface{}{
			"node":        string(node),
			"step":        steps,
			"retry_count": state.RetryCount,
		})

		if !emit(Event{Type: EventNodeUpdate, Node: node, Messages: cloneMessages(state.Messages)}) {
			return "", ctx.Err()
		}

		if done {
			return state.Latest().Content, nil
		}

		if node == NodeRetrieve {
			decision, gradeErr := o.grade(ctx, state)
			if gradeErr != nil {
				return "", gradeErr
			}
			next, err = routeDecision(decision)
			if err != nil {
				return "", err
			}
		}

		node = next
	}
}

// routeDecision maps every GradeDecision to its handler.
func routeDecision(d GradeDecision) (Node, error) {
	switch d {
	case DecisionGenerateAnswer:
		return NodeGenerateAnswer, nil
	case DecisionRewriteQuestion:
		return NodeRewriteQuestion, nil
	case DecisionGenerateFallback:
		return NodeGenerateFallback, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrInvalidDecision, int(d))
	}
}

func (o *Orchestrator) generateQueryOrRespond(ctx context.Context, state ConversationState) (stateDelta, bool, error) {
	stepCtx, cancel := o.stepContext(ctx)
	defer cancel()

	turn, err := o.models.Responder.Respond(stepCtx, cloneMessages(state.Messages), RetrievalToolSpec)
	if err != nil {
		return stateDelta{}, false, infraError(OpRespond, err)
	}
	if turn == nil {
		return stateDelta{}, false, infraError(OpRespond, errors.New("model returned no turn"))
	}

	if !turn.RequestsRetrieval() {
		return stateDelta{Messages: []Message{AssistantMessage(turn.Content)}}, true, nil
	}

	call := *turn.ToolCall
	return stateDelta{Messages: []Message{{
		Role:     RoleAssistant,
		Content:  turn.Content,
		ToolCall: &call,
	}}}, false, nil
}

func (o *Orchestrator) retrieve(ctx context.Context, retriever Retriever, state ConversationState) (stateDelta, error) {
	call := state.Latest().ToolCall
	if call == nil {
		return stateDelta{}, infraError(OpRetrieve, errors.New("no tool call to execute"))
	}

	query := call.Query
	if strings.TrimSpace(query) == "" {
		query = latestUserQuestion(state)
	}

	stepCtx, cancel := o.stepContext(ctx)
	defer cancel()

	passages, err := retriever.Retrieve(stepCtx, query)
	if err != nil {
		return stateDelta{}, infraError(OpRetrieve, err)
	}

	return stateDelta{Messages: []Message{ToolResultMessage(call.ID, passages)}}, nil
}

// grade reads message 0 and the latest message. The retry guard runs first so
// an exhausted budget never spends a grading call.
func (o *Orchestrator) grade(ctx context.Context, state ConversationState) (GradeDecision, error) {
	logger := observability.FromContext(ctx)

	if state.RetryCount >= o.cfg.MaxRetries {
		logger.Warn("max retries reached, generating fallback answer",
			observability.Int("max_retries", o.cfg.MaxRetries))
		return DecisionGenerateFallback, nil
	}

	stepCtx, cancel := o.stepContext(ctx)
	defer cancel()

	verdict, err := o.models.Grader.Grade(stepCtx, state.OriginalQuestion(), state.Latest().Content)
	if err != nil {
		return 0, infraError(OpGrade, err)
	}

	decision := Decide(state.RetryCount, o.cfg.MaxRetries, verdict)
	if decision == DecisionRewriteQuestion {
		logger.Info("documents not relevant, rewriting question",
			observability.Int("attempt", state.RetryCount+1),
			observability.Int("max_retries", o.cfg.MaxRetries))
	}
	return decision, nil
}

func (o *Orchestrator) rewriteQuestion(ctx context.Context, state ConversationState) (stateDelta, error) {
	stepCtx, cancel := o.stepContext(ctx)
	defer cancel()

	rewritten, err := o.models.Rewriter.Rewrite(stepCtx, state.OriginalQuestion())
	if err != nil {
		return stateDelta{}, infraError(OpRewrite, err)
	}

	o.publish(ctx, observability.EventRewrite, map[string]interface{}{"attempt": state.RetryCount + 1})
	observability.FromContext(ctx).Info("question rewritten",
		observability.String("rewritten", rewritten))

	return stateDelta{
		Messages:       []Message{UserMessage(rewritten)},
		RetryIncrement: 1,
	}, nil
}

func (o *Orchestrator) generateAnswer(ctx context.Context, state ConversationState) (stateDelta, error) {
	stepCtx, cancel := o.stepContext(ctx)
	defer cancel()

	answer, err := o.models.Answerer.GenerateAnswer(stepCtx, state.OriginalQuestion(), state.Latest().Content)
	if err != nil {
		return stateDelta{}, infraError(OpAnswer, err)
	}
	return stateDelta{Messages: []Message{AssistantMessage(answer)}}, nil
}

func (o *Orchestrator) generateFallback(ctx context.Context, state ConversationState) (stateDelta, error) {
	stepCtx, cancel := o.stepContext(ctx)
	defer cancel()

	answer, err := o.models.Fallback.GenerateFallback(stepCtx, state.OriginalQuestion())
	if err != nil {
		return stateDelta{}, infraError(OpFallback, err)
	}

	o.publish(ctx, observability.EventFallback, map[string]interface{}{"retry_count": state.RetryCount})
	return stateDelta{Messages: []Message{AssistantMessage(answer)}}, nil
}

func (o *Orchestrator) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.StepTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, time.Duration(o.cfg.StepTimeout)*time.Second)
}

func (o *Orchestrator) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if o.publisher == nil {
		return
	}
	o.publisher.Publish(ctx, eventType, data)
}

func (o *Orchestrator) publishCompleted(ctx context.Context, started time.Time, cacheHit bool) {
	o.publish(ctx, observability.EventQueryCompleted, map[string]interface{}{
		"cache_hit":        cacheHit,
		"duration_seconds": time.Since(started).Seconds(),
	})
}

// latestUserQuestion returns the most recent user message, which is the
// rewritten question after a rewrite cycle.
func latestUserQuestion(state ConversationState) string {
	for i := len(state.Messages) - 1; i >= 0; i-- {
		if state.Messages[i].Role == RoleUser {
			return state.Messages[i].Content
		}
	}
	return state.OriginalQuestion()
}

func cloneMessages(messages []Message) []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}

func opOf(err error) string {
	var infra *InfrastructureError
	if errors.As(err, &infra) {
		return infra.Op
	}
	return "unknown"
}
