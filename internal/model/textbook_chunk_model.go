package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// TextbookChunk is one embedded slice of a textbook page. The embedding column is
// left unsized so the table can follow whichever embedder the index was built with.
type TextbookChunk struct {
	Collection string          `gorm:"type:varchar(100);primaryKey"`
	Id         string          `gorm:"type:varchar(255);primaryKey"`
	Content    string          `gorm:"type:text;not null"`
	Metadata   datatypes.JSON  `gorm:"type:jsonb"`
	Embedding  pgvector.Vector `gorm:"type:vector;not null"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

func (TextbookChunk) TableName() string {
	return "textbook_chunks"
}
