package implementation

import (
	"context"
	"fmt"
	"sort"

	"physical-ai-textbook-be/internal/mapper"
	"physical-ai-textbook-be/internal/model"
	"physical-ai-textbook-be/pkg/vectorindex"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const chunkUpsertBatchSize = 100

// TextbookChunkStore keeps the vector index in Postgres using pgvector. Every
// collection lives in the same table, keyed by (collection, id).
type TextbookChunkStore struct {
	db     *gorm.DB
	mapper *mapper.TextbookChunkMapper
}

func NewTextbookChunkStore(db *gorm.DB) *TextbookChunkStore {
	return &TextbookChunkStore{
		db:     db,
		mapper: mapper.NewTextbookChunkMapper(),
	}
}

var _ vectorindex.Store = (*TextbookChunkStore)(nil)

type chunkRow struct {
	Id       string
	Content  string
	Metadata datatypes.JSON
	Distance float64
}

func (s *TextbookChunkStore) Init(ctx context.Context, collection string, dimension int) error {
	if !s.db.WithContext(ctx).Migrator().HasTable(&model.TextbookChunk{}) {
		return fmt.Errorf("table %s does not exist, run migrations first", model.TextbookChunk{}.TableName())
	}

	var dims []int
	err := s.db.WithContext(ctx).
		Raw("SELECT vector_dims(embedding) FROM textbook_chunks WHERE collection = ? LIMIT 1", collection).
		Scan(&dims).Error
	if err != nil {
		return err
	}

	if len(dims) > 0 && dims[0] != dimension {
		return fmt.Errorf("%w: collection %q holds %d-dimensional vectors, embedder produces %d",
			vectorindex.ErrDimensionMismatch, collection, dims[0], dimension)
	}
	return nil
}

func (s *TextbookChunkStore) Upsert(ctx context.Context, collection string, records []vectorindex.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	rows, err := s.mapper.ToModels(collection, records)
	if err != nil {
		return 0, err
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "metadata", "embedding", "updated_at"}),
		}).
		CreateInBatches(rows, chunkUpsertBatchSize).Error
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *TextbookChunkStore) Query(ctx context.Context, collection string, embedding []float32, k int, filter map[string]string) ([]vectorindex.Match, error) {
	if k <= 0 {
		return nil, nil
	}

	query := s.db.WithContext(ctx).
		Model(&model.TextbookChunk{}).
		Select("id, content, metadata, embedding <=> ? AS distance", pgvector.NewVector(embedding)).
		Where("collection = ?", collection)

	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		query = query.Where("metadata ->> ? = ?", key, filter[key])
	}

	var rows []chunkRow
	if err := query.Order("distance").Limit(k).Scan(&rows).Error; err != nil {
		return nil, err
	}

	matches := make([]vectorindex.Match, 0, len(rows))
	for _, row := range rows {
		chunk := &model.TextbookChunk{Id: row.Id, Content: row.Content, Metadata: row.Metadata}
		matches = append(matches, s.mapper.ToMatch(chunk, row.Distance))
	}
	return matches, nil
}

func (s *TextbookChunkStore) Count(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.TextbookChunk{}).
		Where("collection = ?", collection).
		Count(&count).Error
	return count, err
}

// Reset empties the collection inside one transaction so concurrent readers see
// either the old rows or none.
func (s *TextbookChunkStore) Reset(ctx context.Context, collection string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("collection = ?", collection).Delete(&model.TextbookChunk{}).Error
	})
}
