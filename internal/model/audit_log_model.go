package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    *uuid.UUID     `gorm:"type:uuid;index"`
	EventType string         `gorm:"type:varchar(30);not null;index"`
	IpAddress string         `gorm:"type:varchar(45)"`
	UserAgent string         `gorm:"type:varchar(500)"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	Timestamp time.Time      `gorm:"not null;index;autoCreateTime"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
