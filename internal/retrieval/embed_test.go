package retrieval_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/ember/internal/embedding/lexical"
	"github.com/davidbz/ember/internal/mocks"
	"github.com/davidbz/ember/internal/retrieval"
)

func TestEmbedAll_UsesBatchWhenAvailable(t *testing.T) {
	ctx := context.Background()
	gen, err := lexical.NewGenerator(lexical.Config{Dimension: 16})
	require.NoError(t, err)

	vectors, err := retrieval.EmbedAll(ctx, gen, []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	one, err := gen.Generate(ctx, "one")
	require.NoError(t, err)
	require.Equal(t, one, vectors[0])
}

func TestEmbedAll_FallsBackToSingleCalls(t *testing.T) {
	gen := mocks.NewMockEmbeddingGenerator(t)
	gen.EXPECT().Generate(mock.Anything, "a").Return([]float64{1}, nil)
	gen.EXPECT().Generate(mock.Anything, "b").Return([]float64{2}, nil)

	vectors, err := retrieval.EmbedAll(context.Background(), gen, []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1}, {2}}, vectors)
}

func TestEmbedAll_Error(t *testing.T) {
	gen := mocks.NewMockEmbeddingGenerator(t)
	gen.EXPECT().Generate(mock.Anything, "a").Return(nil, errors.New("rate limited")).Maybe()
	gen.EXPECT().Generate(mock.Anything, "b").Return([]float64{2}, nil).Maybe()

	_, err := retrieval.EmbedAll(context.Background(), gen, []string{"a", "b"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limited")
}
