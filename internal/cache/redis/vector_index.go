package redis

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/observability"
)

const (
	redisDialectVersion = 2
	bytesPerFloat32     = 4
	entriesPageSize     = 500
	tieMargin           = 8 // extra KNN candidates fetched to settle ties by seq

	fieldEmbedding = "embedding"
	fieldQuestion  = "question"
	fieldAnswer    = "answer"
	fieldSeq       = "seq"
	fieldDistance  = "distance"
)

// VectorIndex implements domain.VectorIndex on a RediSearch FLAT/COSINE index.
//
// Each entry is a hash under "<index>:entry:<seq>". seq comes from a counter
// reserved per batch and orders entries by insertion.
type VectorIndex struct {
	client             *redis.Client
	indexName          string
	embeddingDimension int
}

// NewVectorIndex creates the index if it doesn't exist.
func NewVectorIndex(ctx context.Context, client *redis.Client, indexName string, embeddingDimension int) (*VectorIndex, error) {
	if indexName == "" {
		return nil, errors.New("index name cannot be empty")
	}
	if embeddingDimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be > 0, got %d", embeddingDimension)
	}

	v := &VectorIndex{
		client:             client,
		indexName:          indexName,
		embeddingDimension: embeddingDimension,
	}

	if err := v.createIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return v, nil
}

func (v *VectorIndex) keyPrefix() string {
	return v.indexName + ":entry:"
}

func (v *VectorIndex) seqKey() string {
	return v.indexName + ":seq"
}

// floatsToBytes converts float64 slice to binary byte representation.
func floatsToBytes(fs []float64) []byte {
	buf := make([]byte, len(fs)*bytesPerFloat32)

	for i, f := range fs {
		// RediSearch stores FLOAT32 vectors
		u := math.Float32bits(float32(f))
		binary.LittleEndian.PutUint32(buf[i*bytesPerFloat32:], u)
	}

	return buf
}

func bytesToFloats(b []byte) ([]float64, error) {
	if len(b)%bytesPerFloat32 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of %d", len(b), bytesPerFloat32)
	}

	fs := make([]float64, len(b)/bytesPerFloat32)
	for i := range fs {
		fs[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*bytesPerFloat32:])))
	}
	return fs, nil
}

// Search returns the limit nearest entries by cosine distance.
func (v *VectorIndex) Search(ctx context.Context, embed []float64, limit int) ([]*domain.SearchResult, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1, got %d", limit)
	}
	if len(embed) != v.embeddingDimension {
		return nil, fmt.Errorf("embedding dimension mismatch: index %d, query %d", v.embeddingDimension, len(embed))
	}

	logger := observability.FromContext(ctx)
	logger.Debug("starting vector search",
		observability.String("index", v.indexName),
		observability.Int("limit", limit))

	// KNN picks arbitrarily among equidistant documents, so fetch past the
	// limit until every entry tied with the last kept one has been seen.
	fetch := limit + tieMargin
	var ranked []rankedDoc
	for {
		var err error
		ranked, err = v.knn(ctx, embed, fetch)
		if err != nil {
			logger.Error("vector search failed",
				observability.Error(err))
			return nil, err
		}
		if !needsWiderSearch(ranked, limit, fetch) {
			break
		}
		fetch *= 2
	}

	logger.Debug("vector search completed",
		observability.Int("fetched", fetch),
		observability.Int("docs_returned", len(ranked)))

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]*domain.SearchResult, len(ranked))
	for i, r := range ranked {
		out[i] = &domain.SearchResult{
			Entry: &domain.CacheEntry{
				Question:  r.question,
				Answer:    r.answer,
				Embedding: nil,
			},
			Distance: r.distance,
		}
	}
	return out, nil
}

// knn runs one KNN query for the k nearest documents, ranked by distance then seq.
func (v *VectorIndex) knn(ctx context.Context, embed []float64, k int) ([]rankedDoc, error) {
	query := fmt.Sprintf("*=>[KNN %d @%s $vec AS %s]", k, fieldEmbedding, fieldDistance)

	results, err := v.client.FTSearchWithArgs(ctx, v.indexName, query,
		&redis.FTSearchOptions{
			Return: []redis.FTSearchReturn{
				{FieldName: fieldQuestion},
				{FieldName: fieldAnswer},
				{FieldName: fieldSeq},
				{FieldName: fieldDistance},
			},
			DialectVersion: redisDialectVersion,
			LimitOffset:    0,
			Limit:          k,
			Params: map[string]any{
				"vec": floatsToBytes(embed),
			},
		},
	).Result()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return rankDocuments(results.Docs)
}

// needsWiderSearch reports whether a KNN window of size fetched may have cut
// off entries tied with the limit-th result. A short window saw every document.
func needsWiderSearch(ranked []rankedDoc, limit, fetched int) bool {
	if len(ranked) < fetched || len(ranked) <= limit {
		return false
	}
	return ranked[len(ranked)-1].distance <= ranked[limit-1].distance
}

// Insert reserves a seq range and writes the batch in one MULTI/EXEC.
func (v *VectorIndex) Insert(ctx context.Context, entries []*domain.CacheEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for i, e := range entries {
		if e == nil {
			return fmt.Errorf("entry %d is nil", i)
		}
		if len(e.Embedding) != v.embeddingDimension {
			return fmt.Errorf("entry %d: embedding dimension %d, index expects %d",
				i, len(e.Embedding), v.embeddingDimension)
		}
	}

	logger := observability.FromContext(ctx)

	last, err := v.client.IncrBy(ctx, v.seqKey(), int64(len(entries))).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve sequence: %w", err)
	}
	first := last - int64(len(entries)) + 1

	_, err = v.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, e := range entries {
			seq := first + int64(i)
			pipe.HSet(ctx, v.keyPrefix()+strconv.FormatInt(seq, 10),
				fieldEmbedding, floatsToBytes(e.Embedding),
				fieldQuestion, e.Question,
				fieldAnswer, e.Answer,
				fieldSeq, seq,
			)
		}
		return nil
	})
	if err != nil {
		logger.Error("vector index failed",
			observability.Error(err))
		return fmt.Errorf("failed to index: %w", err)
	}

	logger.Debug("vector index completed",
		observability.Int("entries", len(entries)),
		observability.Int("first_seq", int(first)))
	return nil
}

// Entries pages through the index ordered by seq.
func (v *VectorIndex) Entries(ctx context.Context) ([]*domain.CacheEntry, error) {
	var out []*domain.CacheEntry

	for offset := 0; ; offset += entriesPageSize {
		page, err := v.client.FTSearchWithArgs(ctx, v.indexName, "*",
			&redis.FTSearchOptions{
				Return: []redis.FTSearchReturn{
					{FieldName: fieldQuestion},
					{FieldName: fieldAnswer},
					{FieldName: fieldEmbedding},
				},
				SortBy:         []redis.FTSearchSortBy{{FieldName: fieldSeq, Asc: true}},
				LimitOffset:    offset,
				Limit:          entriesPageSize,
				DialectVersion: redisDialectVersion,
			},
		).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list entries: %w", err)
		}

		for _, doc := range page.Docs {
			embedding, convErr := bytesToFloats([]byte(doc.Fields[fieldEmbedding]))
			if convErr != nil {
				return nil, fmt.Errorf("entry %s: %w", doc.ID, convErr)
			}
			out = append(out, &domain.CacheEntry{
				Question:  doc.Fields[fieldQuestion],
				Answer:    doc.Fields[fieldAnswer],
				Embedding: embedding,
			})
		}

		if len(page.Docs) < entriesPageSize {
			return out, nil
		}
	}
}

// Len returns the number of indexed entries.
func (v *VectorIndex) Len(ctx context.Context) (int, error) {
	res, err := v.client.FTSearchWithArgs(ctx, v.indexName, "*",
		&redis.FTSearchOptions{
			CountOnly:      true,
			DialectVersion: redisDialectVersion,
		},
	).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return res.Total, nil
}

// createIndex creates the Redis search index if it doesn't exist.
func (v *VectorIndex) createIndex(ctx context.Context) error {
	logger := observability.FromContext(ctx)

	if _, err := v.client.FTInfo(ctx, v.indexName).Result(); err == nil {
		logger.Info("redis search index already exists, skipping creation",
			observability.String("index_name", v.indexName))
		return nil
	}

	logger.Info("creating redis search index",
		observability.String("index_name", v.indexName),
		observability.Int("embedding_dimension", v.embeddingDimension))

	_, err := v.client.FTCreate(ctx, v.indexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []any{v.keyPrefix()},
		},
		&redis.FieldSchema{
			FieldName: fieldEmbedding,
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				FlatOptions: &redis.FTFlatOptions{
					Type:           "FLOAT32",
					Dim:            v.embeddingDimension,
					DistanceMetric: "COSINE",
				},
			},
		},
		&redis.FieldSchema{
			FieldName: fieldQuestion,
			FieldType: redis.SearchFieldTypeText,
		},
		&redis.FieldSchema{
			FieldName: fieldAnswer,
			FieldType: redis.SearchFieldTypeText,
			NoIndex:   true,
		},
		&redis.FieldSchema{
			FieldName: fieldSeq,
			FieldType: redis.SearchFieldTypeNumeric,
			Sortable:  true,
		},
	).Result()
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	logger.Info("successfully created redis search index",
		observability.String("index_name", v.indexName))

	return nil
}

type rankedDoc struct {
	question string
	answer   string
	seq      int64
	distance float64
}

// rankDocuments parses KNN hits and orders them by distance, then seq.
func rankDocuments(docs []redis.Document) ([]rankedDoc, error) {
	ranked := make([]rankedDoc, 0, len(docs))

	for _, doc := range docs {
		distance, err := strconv.ParseFloat(doc.Fields[fieldDistance], 64)
		if err != nil {
			return nil, fmt.Errorf("document %s: invalid distance: %w", doc.ID, err)
		}
		seq, err := strconv.ParseInt(doc.Fields[fieldSeq], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("document %s: invalid seq: %w", doc.ID, err)
		}

		ranked = append(ranked, rankedDoc{
			question: doc.Fields[fieldQuestion],
			answer:   doc.Fields[fieldAnswer],
			seq:      seq,
			distance: distance,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].distance != ranked[j].distance {
			return ranked[i].distance < ranked[j].distance
		}
		return ranked[i].seq < ranked[j].seq
	})

	return ranked, nil
}
