package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

type memoryCollection struct {
	dimension int
	order     []string
	records   map[string]Record
}

// MemoryStore is a brute-force in-process Store. Distances are computed with
// full cosine, so vectors need not be normalized.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryStore) Init(ctx context.Context, collection string, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[collection]; ok {
		if c.dimension != dimension && len(c.records) > 0 {
			return fmt.Errorf("%w: collection %s holds %d-dim vectors, embedder produces %d",
				ErrDimensionMismatch, collection, c.dimension, dimension)
		}
		c.dimension = dimension
		return nil
	}

	s.collections[collection] = &memoryCollection{
		dimension: dimension,
		records:   make(map[string]Record),
	}
	return nil
}

func (s *MemoryStore) Upsert(ctx context.Context, collection string, records []Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return 0, fmt.Errorf("collection %s not initialized", collection)
	}
	for _, r := range records {
		if len(r.Embedding) != c.dimension {
			return 0, fmt.Errorf("%w: record %s", ErrDimensionMismatch, r.ID)
		}
	}

	for _, r := range records {
		if _, exists := c.records[r.ID]; !exists {
			c.order = append(c.order, r.ID)
		}
		c.records[r.ID] = r
	}
	return len(records), nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, vector []float32, k int, filter map[string]string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok || k <= 0 {
		return nil, nil
	}

	matches := make([]Match, 0, len(c.records))
	for _, id := range c.order {
		r := c.records[id]
		if !metadataMatches(r.Metadata, filter) {
			continue
		}
		matches = append(matches, Match{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: r.Metadata,
			Distance: cosineDistance(vector, r.Embedding),
		})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Distance < matches[b].Distance
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.collections[collection]; ok {
		return int64(len(c.records)), nil
	}
	return 0, nil
}

func (s *MemoryStore) Reset(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[collection]; ok {
		c.order = nil
		c.records = make(map[string]Record)
	}
	return nil
}

func metadataMatches(metadata map[string]any, filter map[string]string) bool {
	for k, want := range filter {
		got, ok := metadata[k]
		if !ok || fmt.Sprint(got) != want {
			return false
		}
	}
	return true
}

// cosineDistance is 1 - cos(a, b). Zero vectors and mismatched lengths count as
// orthogonal.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
