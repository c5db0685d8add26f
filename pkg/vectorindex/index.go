package vectorindex

import (
	"context"
	"fmt"

	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/pkg/embedding"
)

const logModule = "VECTOR_INDEX"

type Config struct {
	Collection string
	Dimension  int
}

// Index binds one Store collection to one embedding function. When the store
// cannot be initialized the index stays usable but every call degrades to an
// empty result.
type Index struct {
	store       Store
	embedder    embedding.EmbeddingProvider
	cfg         Config
	logger      logger.ILogger
	initialized bool
}

func New(ctx context.Context, store Store, embedder embedding.EmbeddingProvider, cfg Config, log logger.ILogger) *Index {
	if log == nil {
		log = logger.NewNopLogger()
	}

	idx := &Index{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   log,
	}

	if err := idx.init(ctx); err != nil {
		log.Error(logModule, "Vector index initialization failed", map[string]interface{}{
			"collection": cfg.Collection,
			"error":      err.Error(),
		})
		return idx
	}

	idx.initialized = true
	log.Info(logModule, "Vector index ready", map[string]interface{}{
		"collection": cfg.Collection,
		"dimension":  cfg.Dimension,
	})
	return idx
}

func (i *Index) init(ctx context.Context) error {
	if i.store == nil || i.embedder == nil {
		return fmt.Errorf("store and embedder are required")
	}
	if i.cfg.Dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", i.cfg.Dimension)
	}
	return i.store.Init(ctx, i.cfg.Collection, i.cfg.Dimension)
}

func (i *Index) Initialized() bool {
	return i.initialized
}

func (i *Index) Collection() string {
	return i.cfg.Collection
}

// EmbedQuery embeds a search string. A failure is returned so callers can decide
// how to degrade.
func (i *Index) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if !i.initialized {
		return nil, ErrNotInitialized
	}
	res, err := i.embedder.Generate(ctx, text, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	if len(res.Embedding.Values) != i.cfg.Dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(res.Embedding.Values), i.cfg.Dimension)
	}
	return res.Embedding.Values, nil
}

// Embed computes embeddings for docs one by one. A document that fails is logged
// and left out; the rest are still returned.
func (i *Index) Embed(ctx context.Context, docs []Document) []Record {
	if !i.initialized {
		return nil
	}

	records := make([]Record, 0, len(docs))
	for n, doc := range docs {
		if ctx.Err() != nil {
			i.logger.Warn(logModule, "Embedding interrupted", map[string]interface{}{
				"embedded":  len(records),
				"remaining": len(docs) - n,
			})
			break
		}

		res, err := i.embedder.Generate(ctx, doc.Content, embedding.TaskRetrievalDocument)
		if err != nil {
			i.logger.Warn(logModule, "Skipping document, embedding failed", map[string]interface{}{
				"id":    doc.ID,
				"error": err.Error(),
			})
			continue
		}
		if len(res.Embedding.Values) != i.cfg.Dimension {
			i.logger.Warn(logModule, "Skipping document, wrong embedding dimension", map[string]interface{}{
				"id":   doc.ID,
				"got":  len(res.Embedding.Values),
				"want": i.cfg.Dimension,
			})
			continue
		}

		records = append(records, Record{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: res.Embedding.Values,
		})
	}
	return records
}

// AddBatch upserts every record that carries an embedding of the index dimension
// in one store call and returns how many were written.
func (i *Index) AddBatch(ctx context.Context, records []Record) int {
	if !i.initialized || len(records) == 0 {
		return 0
	}

	valid := make([]Record, 0, len(records))
	for _, r := range records {
		if len(r.Embedding) != i.cfg.Dimension {
			i.logger.Warn(logModule, "Dropping record without a usable embedding", map[string]interface{}{
				"id": r.ID,
			})
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return 0
	}

	n, err := i.store.Upsert(ctx, i.cfg.Collection, valid)
	if err != nil {
		i.logger.Error(logModule, "Batch upsert failed", map[string]interface{}{
			"records": len(valid),
			"error":   err.Error(),
		})
		return 0
	}
	return n
}

// Query returns up to k records nearest to embedding, closest first. Failures are
// logged and reported as no results.
func (i *Index) Query(ctx context.Context, vector []float32, k int, filter map[string]string) []Match {
	if !i.initialized || k <= 0 || len(vector) != i.cfg.Dimension {
		return nil
	}

	matches, err := i.store.Query(ctx, i.cfg.Collection, vector, k, filter)
	if err != nil {
		i.logger.Error(logModule, "Query failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return matches
}

func (i *Index) Clear(ctx context.Context) error {
	if !i.initialized {
		return ErrNotInitialized
	}
	if err := i.store.Reset(ctx, i.cfg.Collection); err != nil {
		return fmt.Errorf("reset collection %s: %w", i.cfg.Collection, err)
	}
	i.logger.Info(logModule, "Collection cleared", map[string]interface{}{
		"collection": i.cfg.Collection,
	})
	return nil
}

func (i *Index) Count(ctx context.Context) int64 {
	if !i.initialized {
		return 0
	}
	n, err := i.store.Count(ctx, i.cfg.Collection)
	if err != nil {
		i.logger.Warn(logModule, "Count failed", map[string]interface{}{"error": err.Error()})
		return 0
	}
	return n
}

func (i *Index) Stats(ctx context.Context) Stats {
	return Stats{
		Initialized:    i.initialized,
		DocumentCount:  i.Count(ctx),
		CollectionName: i.cfg.Collection,
	}
}
