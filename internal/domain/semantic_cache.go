package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/davidbz/ember/internal/observability"
)

const (
	defaultLookupResults = 1
	hydrateConcurrency   = 8
)

// SemanticCacheService implements semantic caching using embeddings and vector search.
//
// A lookup is a hit iff the nearest stored entry lies within the distance
// threshold. The threshold is fixed at construction.
type SemanticCacheService struct {
	embeddingGen EmbeddingGenerator
	index        VectorIndex
	threshold    float64

	// writeMu serialises writers; readers never take it.
	writeMu sync.Mutex
}

// NewSemanticCacheService creates a new semantic cache service.
func NewSemanticCacheService(
	embeddingGen EmbeddingGenerator,
	index VectorIndex,
	threshold float64,
) *SemanticCacheService {
	return &SemanticCacheService{
		embeddingGen: embeddingGen,
		index:        index,
		threshold:    threshold,
		writeMu:      sync.Mutex{},
	}
}

// Threshold returns the configured distance threshold.
func (s *SemanticCacheService) Threshold() float64 {
	return s.threshold
}

// Check looks up the k nearest cached questions and reports whether the closest is a hit.
// It never mutates the store.
func (s *SemanticCacheService) Check(ctx context.Context, query string, k int) (*CacheLookup, error) {
	logger := observability.FromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query cannot be empty")
	}
	query = normalizeNewlines(query)

	if k < 1 {
		k = defaultLookupResults
	}

	embedding, err := s.embeddingGen.Generate(ctx, query)
	if err != nil {
		logger.Error("failed to generate embedding",
			observability.Error(err))
		return nil, infraError(OpEmbed, fmt.Errorf("failed to generate embedding: %w", err))
	}

	results, err := s.index.Search(ctx, embedding, k)
	if err != nil {
		logger.Error("similarity search failed",
			observability.Error(err),
			observability.Int("k", k))
		return nil, infraError(OpSearch, fmt.Errorf("failed to search similar vectors: %w", err))
	}

	lookup := &CacheLookup{
		Hit:       false,
		BestMatch: nil,
		Matches:   make([]CacheMatch, 0, len(results)),
	}

	for _, r := range results {
		if r == nil || r.Entry == nil {
			continue
		}
		distance := clampDistance(r.Distance)
		lookup.Matches = append(lookup.Matches, CacheMatch{
			Prompt:           r.Entry.Question,
			Response:         r.Entry.Answer,
			VectorDistance:   distance,
			CosineSimilarity: SimilarityFromDistance(distance),
		})
	}

	if len(lookup.Matches) == 0 {
		logger.Debug("semantic cache empty or no candidates",
			observability.Float64("threshold", s.threshold))
		return lookup, nil
	}

	best := lookup.Matches[0]
	lookup.BestMatch = &best
	lookup.Hit = best.VectorDistance <= s.threshold

	logger.Debug("semantic cache checked",
		observability.Bool("hit", lookup.Hit),
		observability.Float64("distance", best.VectorDistance),
		observability.Float64("similarity", best.CosineSimilarity),
		observability.Float64("threshold", s.threshold))

	return lookup, nil
}

// AddPair embeds the question and appends a new entry.
func (s *SemanticCacheService) AddPair(ctx context.Context, question, answer string) error {
	return s.HydrateFromPairs(ctx, []Pair{{Question: question, Answer: answer}})
}

// HydrateFromPairs embeds every pair and appends them in order as one atomic batch.
// The end state equals calling AddPair for each pair in order. If any embedding
// fails nothing is inserted.
func (s *SemanticCacheService) HydrateFromPairs(ctx context.Context, pairs []Pair) error {
	if len(pairs) == 0 {
		return nil
	}

	for i, p := range pairs {
		if strings.TrimSpace(p.Question) == "" {
			return fmt.Errorf("pair %d: question cannot be empty", i)
		}
	}

	logger := observability.FromContext(ctx)

	entries := make([]*CacheEntry, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hydrateConcurrency)
	for i, p := range pairs {
		g.Go(func() error {
			question := normalizeNewlines(p.Question)
			embedding, err := s.embeddingGen.Generate(gctx, question)
			if err != nil {
				return fmt.Errorf("failed to generate embedding for pair %d: %w", i, err)
			}
			entries[i] = &CacheEntry{
				Question:  question,
				Answer:    normalizeNewlines(p.Answer),
				Embedding: embedding,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("failed to embed cache pairs",
			observability.Error(err),
			observability.Int("pairs", len(pairs)))
		return infraError(OpEmbed, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.index.Insert(ctx, entries); err != nil {
		logger.Error("failed to index cache entries",
			observability.Error(err))
		return infraError(OpIndex, fmt.Errorf("failed to index in cache: %w", err))
	}

	logger.Info("cache entries added",
		observability.Int("count", len(entries)))
	return nil
}

// normalizeNewlines folds CRLF into LF. The cache file reader does the same
// inside quoted fields, so stored text matches what a reload produces.
func normalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// Len returns the number of stored entries, duplicates included.
func (s *SemanticCacheService) Len(ctx context.Context) (int, error) {
	n, err := s.index.Len(ctx)
	if err != nil {
		return 0, infraError(OpIndex, err)
	}
	return n, nil
}

// Pairs returns every stored question/answer pair in insertion order.
func (s *SemanticCacheService) Pairs(ctx context.Context) ([]Pair, error) {
	entries, err := s.index.Entries(ctx)
	if err != nil {
		return nil, infraError(OpIndex, fmt.Errorf("failed to list cache entries: %w", err))
	}

	pairs := make([]Pair, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, Pair{Question: e.Question, Answer: e.Answer})
	}
	return pairs, nil
}

// SaveToFile writes every pair to path. Embeddings are not persisted.
func (s *SemanticCacheService) SaveToFile(ctx context.Context, path string) error {
	pairs, err := s.Pairs(ctx)
	if err != nil {
		return err
	}

	if err := WritePairsFile(path, pairs); err != nil {
		return err
	}

	observability.FromContext(ctx).Info("cache saved",
		observability.String("path", path),
		observability.Int("pairs", len(pairs)))
	return nil
}

// LoadFromFile parses path and appends its pairs, re-embedding each question.
// A malformed file fails before anything is inserted.
func (s *SemanticCacheService) LoadFromFile(ctx context.Context, path string) error {
	pairs, err := ReadPairsFile(path)
	if err != nil {
		return err
	}

	if err := s.HydrateFromPairs(ctx, pairs); err != nil {
		return err
	}

	observability.FromContext(ctx).Info("cache loaded",
		observability.String("path", path),
		observability.Int("pairs", len(pairs)))
	return nil
}
