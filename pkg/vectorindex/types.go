package vectorindex

import (
	"context"
	"errors"
)

var (
	ErrNotInitialized    = errors.New("vector index not initialized")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Document is a chunk of text waiting to be embedded.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// Record is a Document together with its embedding.
type Record struct {
	ID        string
	Content   string
	Metadata  map[string]any
	Embedding []float32
}

// Match is a stored record returned by a similarity query. Distance is the cosine
// distance to the query vector, so smaller is closer.
type Match struct {
	ID       string
	Content  string
	Metadata map[string]any
	Distance float64
}

type Stats struct {
	Initialized    bool   `json:"initialized"`
	DocumentCount  int64  `json:"document_count"`
	CollectionName string `json:"collection_name"`
}

// Store persists records of a named collection. Implementations must treat Upsert
// as insert-or-replace on (collection, id) and Reset as a single atomic step.
type Store interface {
	Init(ctx context.Context, collection string, dimension int) error
	Upsert(ctx context.Context, collection string, records []Record) (int, error)
	Query(ctx context.Context, collection string, embedding []float32, k int, filter map[string]string) ([]Match, error)
	Count(ctx context.Context, collection string) (int64, error)
	Reset(ctx context.Context, collection string) error
}
