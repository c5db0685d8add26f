package rag

import (
	"context"
	"fmt"

	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/pkg/vectorindex"
)

// Passage is a retrieved chunk ready to be placed in a prompt.
type Passage struct {
	ID       string
	Content  string
	Module   string
	Title    string
	Source   string
	Metadata map[string]any
	Distance float64
}

// Searcher is the slice of vectorindex.Index used for retrieval.
type Searcher interface {
	Initialized() bool
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Query(ctx context.Context, vector []float32, k int, filter map[string]string) []vectorindex.Match
}

type Retriever struct {
	index  Searcher
	logger logger.ILogger
}

func NewRetriever(index Searcher, log logger.ILogger) *Retriever {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Retriever{index: index, logger: log}
}

// Search returns up to k passages nearest to query. Any failure yields an empty
// list so generation can still answer without context.
func (r *Retriever) Search(ctx context.Context, query string, k int, filter map[string]string) []Passage {
	if !r.index.Initialized() {
		r.logger.Warn(logModule, "Index not initialized, returning no passages", nil)
		return nil
	}

	vector, err := r.index.EmbedQuery(ctx, query)
	if err != nil {
		r.logger.Error(logModule, "Query embedding failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	matches := r.index.Query(ctx, vector, k, filter)
	passages := make([]Passage, 0, len(matches))
	for _, m := range matches {
		passages = append(passages, Passage{
			ID:       m.ID,
			Content:  m.Content,
			Module:   metaString(m.Metadata, "module", ""),
			Title:    metaString(m.Metadata, "title", ""),
			Source:   metaString(m.Metadata, "source", "textbook"),
			Metadata: m.Metadata,
			Distance: m.Distance,
		})
	}
	return passages
}

func metaString(m map[string]any, key, fallback string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return fallback
		}
		return s
	}
	return fmt.Sprint(v)
}
