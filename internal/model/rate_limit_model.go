package model

import "time"

type RateLimitRecord struct {
	Id           uint      `gorm:"primaryKey;autoIncrement"`
	Identifier   string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	RequestCount int       `gorm:"not null;default:0"`
	WindowStart  time.Time `gorm:"not null;index"`
	LastRequest  time.Time `gorm:"not null"`
}

func (RateLimitRecord) TableName() string {
	return "rate_limit_records"
}
