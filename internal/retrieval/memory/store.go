// Package memory provides an in-process document retriever.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/observability"
	"github.com/davidbz/ember/internal/retrieval"
)

type passage struct {
	source    string
	content   string
	embedding []float64
}

// Store keeps embedded document chunks in memory and answers top-k queries.
type Store struct {
	embeddingGen domain.EmbeddingGenerator
	chunker      *retrieval.Chunker
	topK         int

	mu       sync.RWMutex
	passages []passage
}

// NewStore creates an empty store.
func NewStore(embeddingGen domain.EmbeddingGenerator, chunker *retrieval.Chunker, topK int) (*Store, error) {
	if embeddingGen == nil {
		return nil, errors.New("embedding generator cannot be nil")
	}
	if chunker == nil {
		return nil, errors.New("chunker cannot be nil")
	}
	if topK < 1 {
		return nil, fmt.Errorf("top k must be >= 1, got %d", topK)
	}

	return &Store{
		embeddingGen: embeddingGen,
		chunker:      chunker,
		topK:         topK,
		mu:           sync.RWMutex{},
		passages:     nil,
	}, nil
}

// Ingest splits, embeds and stores text.
func (s *Store) Ingest(ctx context.Context, source, text string) (int, error) {
	chunks, err := s.chunker.Split(source, text)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := retrieval.EmbedAll(ctx, s.embeddingGen, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed %s: %w", source, err)
	}

	added := make([]passage, len(chunks))
	for i, chunk := range chunks {
		added[i] = passage{source: source, content: chunk, embedding: vectors[i]}
	}

	s.mu.Lock()
	s.passages = append(s.passages, added...)
	s.mu.Unlock()

	return len(chunks), nil
}

// Retrieve returns the top-k passages for query joined by a blank line.
func (s *Store) Retrieve(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("query cannot be empty")
	}

	embedding, err := s.embeddingGen.Generate(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	s.mu.RLock()
	type scored struct {
		content  string
		distance float64
	}
	ranked := make([]scored, len(s.passages))
	for i, p := range s.passages {
		ranked[i] = scored{content: p.content, distance: domain.CosineDistance(embedding, p.embedding)}
	}
	s.mu.RUnlock()

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})
	if len(ranked) > s.topK {
		ranked = ranked[:s.topK]
	}

	contents := make([]string, len(ranked))
	for i, r := range ranked {
		contents[i] = r.content
	}

	observability.FromContext(ctx).Debug("passages retrieved",
		observability.Int("count", len(contents)))

	return strings.Join(contents, retrieval.Separator), nil
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages)
}
