package domain

import "context"

// EmbeddingGenerator creates vector embeddings from text.
type EmbeddingGenerator interface {
	// Generate creates a vector embedding from text.
	Generate(ctx context.Context, text string) ([]float64, error)

	// Name returns the generator identifier.
	Name() string

	// Dimension returns the vector dimension.
	Dimension() int
}

// VectorIndex stores cache entries and answers nearest-neighbor queries.
//
// Contract:
// - Search results are ordered by ascending cosine distance; ties keep insertion order.
// - Insert appends the whole batch atomically: concurrent readers see all of it or none.
// - Implementations must be safe for concurrent use.
type VectorIndex interface {
	// Search returns up to limit nearest entries.
	Search(ctx context.Context, embedding []float64, limit int) ([]*SearchResult, error)

	// Insert appends entries in order.
	Insert(ctx context.Context, entries []*CacheEntry) error

	// Entries returns every stored entry in insertion order.
	Entries(ctx context.Context) ([]*CacheEntry, error)

	// Len returns the number of stored entries.
	Len(ctx context.Context) (int, error)
}

// SearchResult represents a vector search result.
type SearchResult struct {
	Entry    *CacheEntry
	Distance float64
}

// Retriever returns context passages for a query.
type Retriever interface {
	// Retrieve returns the top passages joined into a single context string.
	Retrieve(ctx context.Context, query string) (string, error)
}

// Ingester loads documents into a retriever's store.
type Ingester interface {
	// Ingest splits, embeds and stores a document, returning the number of chunks stored.
	Ingest(ctx context.Context, source, text string) (int, error)
}

// ResponseModel decides whether to answer directly or to call the retrieval tool.
type ResponseModel interface {
	// Respond runs the model over the conversation with the tool bound into the call.
	Respond(ctx context.Context, messages []Message, tool ToolSpec) (*ModelTurn, error)
}

// RelevanceGrader classifies retrieved context against a question.
type RelevanceGrader interface {
	// Grade returns VerdictRelevant or VerdictNotRelevant.
	Grade(ctx context.Context, question, passages string) (Verdict, error)
}

// QuestionRewriter reformulates a question.
type QuestionRewriter interface {
	Rewrite(ctx context.Context, question string) (string, error)
}

// AnswerGenerator answers a question from retrieved context.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question, passages string) (string, error)
}

// FallbackGenerator produces a context-free degraded answer.
type FallbackGenerator interface {
	GenerateFallback(ctx context.Context, question string) (string, error)
}

// Models bundles the generative collaborators driven by the orchestrator.
type Models struct {
	Responder ResponseModel
	Grader    RelevanceGrader
	Rewriter  QuestionRewriter
	Answerer  AnswerGenerator
	Fallback  FallbackGenerator
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
