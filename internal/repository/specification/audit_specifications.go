package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByEventType struct {
	EventType string
}

func (s ByEventType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_type = ?", s.EventType)
}

type OccurredSince struct {
	Since time.Time
}

func (s OccurredSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("timestamp >= ?", s.Since)
}
