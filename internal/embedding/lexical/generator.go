// Package lexical provides a deterministic, network-free embedding generator.
//
// Vectors are signed feature hashes of lowercased word tokens and word bigrams,
// L2-normalised. Identical texts always embed to identical vectors, so their
// cosine distance is 0.
package lexical

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultDimension is used when Config.Dimension is unset.
	DefaultDimension = 256

	bigramWeight = 0.5
)

// Config holds configuration for the lexical generator.
type Config struct {
	Dimension int `env:"LEXICAL_DIMENSION" envDefault:"256"`
}

// Generator hashes tokens into a fixed-size vector.
type Generator struct {
	dimension int
}

// NewGenerator creates a lexical generator.
func NewGenerator(config Config) (*Generator, error) {
	if config.Dimension == 0 {
		config.Dimension = DefaultDimension
	}
	if config.Dimension < 0 {
		return nil, fmt.Errorf("dimension must be > 0, got %d", config.Dimension)
	}
	return &Generator{dimension: config.Dimension}, nil
}

// Generate embeds text. Text without any word token is rejected.
func (g *Generator) Generate(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, errors.New("text has no tokens")
	}

	vec := make([]float64, g.dimension)
	for _, tok := range tokens {
		g.add(vec, tok, 1)
	}
	for i := 1; i < len(tokens); i++ {
		g.add(vec, tokens[i-1]+" "+tokens[i], bigramWeight)
	}

	normalize(vec)
	return vec, nil
}

// GenerateBatch embeds each text in order.
func (g *Generator) GenerateBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		vec, err := g.Generate(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

func (g *Generator) add(vec []float64, feature string, weight float64) {
	h := xxhash.Sum64String(feature)
	bucket := h % uint64(g.dimension)
	// top bit picks the sign so collisions tend to cancel
	if h>>63 == 1 {
		weight = -weight
	}
	vec[bucket] += weight
}

// Name returns the generator identifier.
func (g *Generator) Name() string {
	return "lexical"
}

// Dimension returns the vector dimension.
func (g *Generator) Dimension() int {
	return g.dimension
}

// Tokenize lowercases text and splits it on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
