package domain_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/ember/internal/cache/memory"
	"github.com/davidbz/ember/internal/domain"
)

// tableEmbedder returns fixed vectors per text so distances are exact.
type tableEmbedder struct {
	vectors map[string][]float64
	failOn  map[string]error
}

func (e *tableEmbedder) Generate(_ context.Context, text string) ([]float64, error) {
	if err, ok := e.failOn[text]; ok {
		return nil, err
	}
	v, ok := e.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return v, nil
}

func (e *tableEmbedder) Name() string  { return "table" }
func (e *tableEmbedder) Dimension() int { return 2 }

func newTableCache(t *testing.T, threshold float64, vectors map[string][]float64) *domain.SemanticCacheService {
	t.Helper()
	return domain.NewSemanticCacheService(
		&tableEmbedder{vectors: vectors, failOn: nil},
		memory.NewIndex(),
		threshold,
	)
}

func cacheLen(t *testing.T, cache *domain.SemanticCacheService) int {
	t.Helper()
	n, err := cache.Len(context.Background())
	require.NoError(t, err)
	return n
}
