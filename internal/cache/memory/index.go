package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/observability"
)

// Index is an in-process VectorIndex with exact cosine search.
//
// Readers load an immutable snapshot and never block. Writers copy the
// snapshot, append and swap, so a batch becomes visible all at once.
type Index struct {
	snapshot atomic.Pointer[[]*domain.CacheEntry]
	writeMu  sync.Mutex
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	idx := &Index{}
	empty := make([]*domain.CacheEntry, 0)
	idx.snapshot.Store(&empty)
	return idx
}

func (i *Index) load() []*domain.CacheEntry {
	return *i.snapshot.Load()
}

// Search returns up to limit entries ordered by ascending cosine distance.
// Entries at equal distance keep insertion order.
func (i *Index) Search(ctx context.Context, embedding []float64, limit int) ([]*domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1, got %d", limit)
	}

	entries := i.load()
	results := make([]*domain.SearchResult, 0, len(entries))
	for _, e := range entries {
		if len(e.Embedding) != len(embedding) {
			return nil, fmt.Errorf("embedding dimension mismatch: stored %d, query %d", len(e.Embedding), len(embedding))
		}
		results = append(results, &domain.SearchResult{
			Entry:    e,
			Distance: domain.CosineDistance(embedding, e.Embedding),
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Distance < results[b].Distance
	})

	if len(results) > limit {
		results = results[:limit]
	}

	observability.FromContext(ctx).Debug("memory index searched",
		observability.Int("entries", len(entries)),
		observability.Int("results", len(results)))

	return results, nil
}

// Insert appends entries in order as one batch.
func (i *Index) Insert(ctx context.Context, entries []*domain.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for n, e := range entries {
		if e == nil {
			return fmt.Errorf("entry %d is nil", n)
		}
		if len(e.Embedding) == 0 {
			return errors.New("entry embedding cannot be empty")
		}
		if len(e.Embedding) != len(entries[0].Embedding) {
			return fmt.Errorf("entry %d: embedding dimension %d differs from batch dimension %d",
				n, len(e.Embedding), len(entries[0].Embedding))
		}
	}

	i.writeMu.Lock()
	defer i.writeMu.Unlock()

	current := i.load()
	if len(current) > 0 && len(current[0].Embedding) != len(entries[0].Embedding) {
		return fmt.Errorf("embedding dimension mismatch: stored %d, new %d",
			len(current[0].Embedding), len(entries[0].Embedding))
	}

	next := make([]*domain.CacheEntry, 0, len(current)+len(entries))
	next = append(next, current...)
	next = append(next, entries...)
	i.snapshot.Store(&next)

	return nil
}

// Entries returns every entry in insertion order.
func (i *Index) Entries(_ context.Context) ([]*domain.CacheEntry, error) {
	entries := i.load()
	out := make([]*domain.CacheEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Len returns the number of stored entries.
func (i *Index) Len(_ context.Context) (int, error) {
	return len(i.load()), nil
}
