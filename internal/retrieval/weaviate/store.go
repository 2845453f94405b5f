// Package weaviate provides a document retriever backed by a Weaviate class
// with client-side vectors.
package weaviate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/observability"
	"github.com/davidbz/ember/internal/retrieval"
)

const (
	propContent = "content"
	propSource  = "source"
	propChunk   = "chunk"

	batchStatusSuccess = "SUCCESS"
)

// Config holds the Weaviate connection settings.
type Config struct {
	URL   string `env:"WEAVIATE_URL"   envDefault:"http://localhost:8080"`
	Class string `env:"WEAVIATE_CLASS" envDefault:"Document"`
}

// Store ingests chunks into a Weaviate class and answers near-vector queries.
type Store struct {
	client       *weaviate.Client
	class        string
	embeddingGen domain.EmbeddingGenerator
	chunker      *retrieval.Chunker
	topK         int
}

// NewClient parses cfg.URL into a Weaviate client.
func NewClient(cfg Config) (*weaviate.Client, error) {
	parsed, err := url.Parse(strings.Trim(cfg.URL, "\"' "))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid weaviate url %q", cfg.URL)
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   parsed.Host,
		Scheme: parsed.Scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}
	return client, nil
}

// NewStore creates the store and makes sure its class exists.
func NewStore(
	ctx context.Context,
	client *weaviate.Client,
	class string,
	embeddingGen domain.EmbeddingGenerator,
	chunker *retrieval.Chunker,
	topK int,
) (*Store, error) {
	if client == nil {
		return nil, errors.New("weaviate client cannot be nil")
	}
	if class == "" {
		return nil, errors.New("class cannot be empty")
	}
	if embeddingGen == nil || chunker == nil {
		return nil, errors.New("embedding generator and chunker are required")
	}
	if topK < 1 {
		return nil, fmt.Errorf("top k must be >= 1, got %d", topK)
	}

	s := &Store{
		client:       client,
		class:        class,
		embeddingGen: embeddingGen,
		chunker:      chunker,
		topK:         topK,
	}

	if err := s.ensureClass(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureClass(ctx context.Context) error {
	logger := observability.FromContext(ctx)

	if _, err := s.client.Schema().ClassGetter().WithClassName(s.class).Do(ctx); err == nil {
		logger.Info("weaviate class already exists", observability.String("class", s.class))
		return nil
	}

	logger.Info("creating weaviate class", observability.String("class", s.class))
	if err := s.client.Schema().ClassCreator().WithClass(documentClass(s.class)).Do(ctx); err != nil {
		return fmt.Errorf("failed to create class %s: %w", s.class, err)
	}
	return nil
}

func documentClass(name string) *models.Class {
	filterable := true

	return &models.Class{
		Class:       name,
		Description: "A chunk of product documentation.",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{
				Name:         propContent,
				DataType:     []string{"text"},
				Description:  "The chunk text.",
				Tokenization: "word",
			},
			{
				Name:            propSource,
				DataType:        []string{"text"},
				Description:     "The document the chunk came from.",
				IndexFilterable: &filterable,
				Tokenization:    "field",
			},
			{
				Name:        propChunk,
				DataType:    []string{"int"},
				Description: "Position of the chunk within its document.",
			},
		},
	}
}

// Ingest splits, embeds and batch-imports text. Object IDs are derived from
// source, position and content, so re-ingesting a document overwrites it.
func (s *Store) Ingest(ctx context.Context, source, text string) (int, error) {
	logger := observability.FromContext(ctx)

	chunks, err := s.chunker.Split(source, text)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		logger.Warn("no chunks produced after splitting", observability.String("source", source))
		return 0, nil
	}

	vectors, err := retrieval.EmbedAll(ctx, s.embeddingGen, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed %s: %w", source, err)
	}

	resp, err := s.client.Batch().ObjectsBatcher().
		WithObjects(buildObjects(s.class, source, chunks, vectors)...).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to save objects to weaviate: %w", err)
	}

	created := 0
	for _, item := range resp {
		if item.Result != nil && item.Result.Status != nil && *item.Result.Status == batchStatusSuccess {
			created++
			continue
		}
		if item.Result != nil && item.Result.Errors != nil {
			for _, e := range item.Result.Errors.Error {
				logger.Warn("weaviate batch item failed",
					observability.String("source", source),
					observability.String("error", e.Message))
			}
		}
	}

	if created < len(chunks) {
		return created, fmt.Errorf("imported %d of %d chunks from %s", created, len(chunks), source)
	}
	return created, nil
}

// Retrieve returns the top-k nearest chunks joined by a blank line.
func (s *Store) Retrieve(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("query cannot be empty")
	}

	embedding, err := s.embeddingGen.Generate(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(toFloat32(embedding))

	fields := []graphql.Field{
		{Name: propContent},
		{Name: propSource},
		{Name: "_additional", Fields: []graphql.Field{
			{Name: "distance"},
		}},
	}

	result, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(s.topK).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("weaviate search failed: %w", err)
	}
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("weaviate search error: %s", result.Errors[0].Message)
	}

	contents := parseContents(result, s.class)

	observability.FromContext(ctx).Debug("passages retrieved",
		observability.String("class", s.class),
		observability.Int("count", len(contents)))

	return strings.Join(contents, retrieval.Separator), nil
}

func buildObjects(class, source string, chunks []string, vectors [][]float64) []*models.Object {
	objects := make([]*models.Object, len(chunks))

	for i, chunk := range chunks {
		objects[i] = &models.Object{
			Class:  class,
			ID:     objectID(source, i, chunk),
			Vector: toFloat32(vectors[i]),
			Properties: map[string]interface{}{
				propContent: chunk,
				propSource:  source,
				propChunk:   i,
			},
		}
	}

	return objects
}

func objectID(source string, index int, chunk string) strfmt.UUID {
	name := source + "#" + strconv.Itoa(index) + "\n" + chunk
	return strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String())
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

// parseContents extracts chunk texts in result order.
func parseContents(result *models.GraphQLResponse, class string) []string {
	if result == nil {
		return nil
	}

	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	objects, ok := data[class].([]interface{})
	if !ok {
		return nil
	}

	contents := make([]string, 0, len(objects))
	for _, obj := range objects {
		m, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		if content, ok := m[propContent].(string); ok && content != "" {
			contents = append(contents, content)
		}
	}
	return contents
}
