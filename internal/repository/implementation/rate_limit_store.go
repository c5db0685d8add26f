package implementation

import (
	"context"
	"errors"
	"time"

	"physical-ai-textbook-be/internal/mapper"
	"physical-ai-textbook-be/internal/model"
	"physical-ai-textbook-be/pkg/ratelimit"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateLimitStore persists limiter records in Postgres. Update seeds the row if it
// is missing and then holds a row lock while the limiter decides.
type RateLimitStore struct {
	db     *gorm.DB
	mapper *mapper.RateLimitMapper
}

func NewRateLimitStore(db *gorm.DB) *RateLimitStore {
	return &RateLimitStore{
		db:     db,
		mapper: mapper.NewRateLimitMapper(),
	}
}

var _ ratelimit.Store = (*RateLimitStore)(nil)

func (s *RateLimitStore) Update(ctx context.Context, id string, seed ratelimit.Record, fn func(rec *ratelimit.Record)) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &model.RateLimitRecord{Identifier: id}
		s.mapper.Apply(row, &seed)

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identifier"}},
			DoNothing: true,
		}).Create(row).Error
		if err != nil {
			return err
		}

		var locked model.RateLimitRecord
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("identifier = ?", id).
			First(&locked).Error
		if err != nil {
			return err
		}

		rec := s.mapper.ToRecord(&locked)
		fn(rec)
		s.mapper.Apply(&locked, rec)
		return tx.Save(&locked).Error
	})
}

func (s *RateLimitStore) Get(ctx context.Context, id string) (*ratelimit.Record, error) {
	var row model.RateLimitRecord
	if err := s.db.WithContext(ctx).Where("identifier = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.mapper.ToRecord(&row), nil
}

func (s *RateLimitStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("window_start < ?", cutoff).
		Delete(&model.RateLimitRecord{})
	return result.RowsAffected, result.Error
}
