package domain

import "errors"

// Role tags a conversation message.
type Role string

const (
	// RoleUser marks a question, original or rewritten.
	RoleUser Role = "user"
	// RoleAssistant marks model output, either an answer or a tool request.
	RoleAssistant Role = "assistant"
	// RoleTool marks retrieved context returned by the retrieval tool.
	RoleTool Role = "tool"
)

// Message is one entry of a conversation.
type Message struct {
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	ToolCall   *ToolCall `json:"tool_call,omitempty"`    // set on assistant tool requests
	ToolCallID string    `json:"tool_call_id,omitempty"` // set on tool results
}

// UserMessage builds a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds a plain assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolResultMessage builds a tool-result message answering the given call.
func ToolResultMessage(callID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID}
}

// ToolCall is a retrieval request emitted by the response model.
type ToolCall struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Query string `json:"query"`
}

// ToolSpec describes the single retrieval capability offered to the response model.
type ToolSpec struct {
	Name        string
	Description string
}

// RetrievalToolSpec is the retrieval tool bound into every GenerateQueryOrRespond call.
//
//nolint:gochecknoglobals // immutable descriptor
var RetrievalToolSpec = ToolSpec{
	Name:        "retrieve_documents",
	Description: "Search and return relevant information from the product documentation.",
}

// ModelTurn is what the response model returns: either a direct answer or a tool request.
type ModelTurn struct {
	Content  string
	ToolCall *ToolCall
}

// RequestsRetrieval reports whether the model asked for the retrieval tool.
func (t *ModelTurn) RequestsRetrieval() bool {
	return t != nil && t.ToolCall != nil
}

// ConversationState is owned by a single in-flight query and never shared.
type ConversationState struct {
	Messages   []Message
	RetryCount int
}

// newConversationState starts a conversation from the original question.
func newConversationState(question string) ConversationState {
	return ConversationState{
		Messages:   []Message{UserMessage(question)},
		RetryCount: 0,
	}
}

// OriginalQuestion returns message 0.
func (s ConversationState) OriginalQuestion() string {
	if len(s.Messages) == 0 {
		return ""
	}
	return s.Messages[0].Content
}

// Latest returns the most recent message.
func (s ConversationState) Latest() Message {
	if len(s.Messages) == 0 {
		return Message{}
	}
	return s.Messages[len(s.Messages)-1]
}

// stateDelta is what a state handler returns; the orchestrator merges it.
type stateDelta struct {
	Messages       []Message
	RetryIncrement int
}

// apply returns a fresh state with the delta merged. The receiver is not modified.
func (s ConversationState) apply(d stateDelta) ConversationState {
	messages := make([]Message, 0, len(s.Messages)+len(d.Messages))
	messages = append(messages, s.Messages...)
	messages = append(messages, d.Messages...)

	return ConversationState{
		Messages:   messages,
		RetryCount: s.RetryCount + d.RetryIncrement,
	}
}

// GradeDecision is the routing outcome after retrieval.
type GradeDecision int

const (
	// DecisionGenerateAnswer routes to the answer generator.
	DecisionGenerateAnswer GradeDecision = iota + 1
	// DecisionRewriteQuestion routes to the question rewriter.
	DecisionRewriteQuestion
	// DecisionGenerateFallback routes to the fallback generator.
	DecisionGenerateFallback
)

// String returns the wire label of the decision.
func (d GradeDecision) String() string {
	switch d {
	case DecisionGenerateAnswer:
		return "generate_answer"
	case DecisionRewriteQuestion:
		return "rewrite_question"
	case DecisionGenerateFallback:
		return "generate_fallback"
	default:
		return "unknown"
	}
}

// Verdict is the binary relevance score returned by the grader.
type Verdict string

const (
	// VerdictRelevant means the context answers the question.
	VerdictRelevant Verdict = "yes"
	// VerdictNotRelevant means it does not.
	VerdictNotRelevant Verdict = "no"
)

// Decide maps the retry budget and a grader verdict to a decision.
// The budget guard is evaluated by the caller before the grader runs; Decide
// repeats it so the mapping stays a pure function of both inputs.
func Decide(retryCount, maxRetries int, verdict Verdict) GradeDecision {
	if retryCount >= maxRetries {
		return DecisionGenerateFallback
	}
	if verdict == VerdictRelevant {
		return DecisionGenerateAnswer
	}
	return DecisionRewriteQuestion
}

// Node names an orchestrator state handler.
type Node string

const (
	NodeGenerateQueryOrRespond Node = "generate_query_or_respond"
	NodeRetrieve               Node = "retrieve"
	NodeRewriteQuestion        Node = "rewrite_question"
	NodeGenerateAnswer         Node = "generate_answer"
	NodeGenerateFallback       Node = "generate_fallback"
)

// CacheEntry is immutable once created.
type CacheEntry struct {
	Question  string
	Answer    string
	Embedding []float64
}

// Pair is a question/answer pair used for seeding and persistence.
type Pair struct {
	Question string
	Answer   string
}

// CacheMatch is a nearest-neighbor candidate from the cache.
type CacheMatch struct {
	Prompt           string  `json:"prompt"`
	Response         string  `json:"response"`
	VectorDistance   float64 `json:"vector_distance"`
	CosineSimilarity float64 `json:"cosine_similarity"`
}

// CacheLookup is the result of a cache check.
type CacheLookup struct {
	Hit       bool
	BestMatch *CacheMatch
	Matches   []CacheMatch // all k candidates, closest first
}

// CacheInfo describes the entry that served a cache hit.
type CacheInfo struct {
	MatchedQuestion string  `json:"matched_question"`
	Distance        float64 `json:"distance"`
	Similarity      float64 `json:"similarity"`
}

// QueryResult is returned by Orchestrator.Query.
type QueryResult struct {
	Answer    string     `json:"answer"`
	CacheHit  bool       `json:"cache_hit"`
	CacheInfo *CacheInfo `json:"cache_info"`
}

// EventType tags a stream event.
type EventType string

const (
	EventCacheHit   EventType = "cache_hit"
	EventCacheMiss  EventType = "cache_miss"
	EventNodeUpdate EventType = "node_update"
	EventComplete   EventType = "complete"
	EventError      EventType = "error"
)

// Event is one element of a query stream.
type Event struct {
	Type      EventType  `json:"type"`
	Node      Node       `json:"node,omitempty"`
	Messages  []Message  `json:"messages,omitempty"`
	Answer    string     `json:"answer,omitempty"`
	CacheInfo *CacheInfo `json:"cache_info,omitempty"`
	Err       error      `json:"-"`
}

// IsTerminal reports whether no event follows this one.
func (e Event) IsTerminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

// Degraded reports whether an error event carries RecursionLimitAnswer as its
// answer. Consumers treat it as an answer, not a failure.
func (e Event) Degraded() bool {
	return e.Type == EventError && errors.Is(e.Err, ErrRecursionLimit)
}
