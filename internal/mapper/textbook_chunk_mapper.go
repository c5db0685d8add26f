package mapper

import (
	"encoding/json"

	"physical-ai-textbook-be/internal/model"
	"physical-ai-textbook-be/pkg/vectorindex"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type TextbookChunkMapper struct{}

func NewTextbookChunkMapper() *TextbookChunkMapper {
	return &TextbookChunkMapper{}
}

func (m *TextbookChunkMapper) ToModel(collection string, r vectorindex.Record) (*model.TextbookChunk, error) {
	meta, err := json.Marshal(r.Metadata)
	if err != nil {
		return nil, err
	}
	return &model.TextbookChunk{
		Collection: collection,
		Id:         r.ID,
		Content:    r.Content,
		Metadata:   datatypes.JSON(meta),
		Embedding:  pgvector.NewVector(r.Embedding),
	}, nil
}

func (m *TextbookChunkMapper) ToModels(collection string, records []vectorindex.Record) ([]*model.TextbookChunk, error) {
	models := make([]*model.TextbookChunk, 0, len(records))
	for _, r := range records {
		c, err := m.ToModel(collection, r)
		if err != nil {
			return nil, err
		}
		models = append(models, c)
	}
	return models, nil
}

// ToMatch decodes the metadata column. JSON numbers come back as float64, so
// chunk_index is narrowed to int again to match what ingestion wrote.
func (m *TextbookChunkMapper) ToMatch(c *model.TextbookChunk, distance float64) vectorindex.Match {
	meta := map[string]any{}
	if len(c.Metadata) > 0 {
		_ = json.Unmarshal(c.Metadata, &meta)
	}
	for _, key := range []string{"chunk_index", "total_chunks"} {
		if f, ok := meta[key].(float64); ok {
			meta[key] = int(f)
		}
	}
	return vectorindex.Match{
		ID:       c.Id,
		Content:  c.Content,
		Metadata: meta,
		Distance: distance,
	}
}
