package specification

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"
)

// ByEmail matches case-insensitively; emails are stored lower-cased.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", strings.ToLower(strings.TrimSpace(s.Email)))
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// LockedAt selects accounts whose lock is still in force at the given time.
type LockedAt struct {
	At time.Time
}

func (s LockedAt) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("locked_until IS NOT NULL AND locked_until > ?", s.At)
}
