package retrieval

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/davidbz/ember/internal/domain"
)

const embedConcurrency = 8

// BatchEmbedder is implemented by generators that embed many texts per call.
type BatchEmbedder interface {
	GenerateBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// EmbedAll embeds texts in order, in one batch call when the generator supports it.
func EmbedAll(ctx context.Context, gen domain.EmbeddingGenerator, texts []string) ([][]float64, error) {
	if batcher, ok := gen.(BatchEmbedder); ok {
		vectors, err := batcher.GenerateBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
		}
		return vectors, nil
	}

	vectors := make([][]float64, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, text := range texts {
		g.Go(func() error {
			vec, err := gen.Generate(gctx, text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
