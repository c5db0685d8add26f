package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email               string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash        string     `gorm:"type:varchar(255);not null"`
	FailedLoginAttempts int        `gorm:"default:0;not null"`
	LockedUntil         *time.Time `gorm:"index"`
	LastLogin           *time.Time
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type UserProfile struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId              uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User                User      `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	ProgrammingLevel    string    `gorm:"type:varchar(20);not null"`
	RoboticsFamiliarity string    `gorm:"type:varchar(20);not null"`
	HardwareExperience  string    `gorm:"type:varchar(20);not null"`
	LearningGoal        string    `gorm:"type:varchar(30);not null"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
