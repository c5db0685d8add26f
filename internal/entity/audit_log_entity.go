package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuditEventType string

const (
	AuditLoginSuccess    AuditEventType = "login_success"
	AuditLoginFailed     AuditEventType = "login_failed"
	AuditLogout          AuditEventType = "logout"
	AuditRegistration    AuditEventType = "registration"
	AuditAccountLocked   AuditEventType = "account_locked"
	AuditAccountUnlocked AuditEventType = "account_unlocked"
	AuditProfileCreated  AuditEventType = "profile_created"
	AuditProfileUpdated  AuditEventType = "profile_updated"
	AuditTokenRefreshed  AuditEventType = "token_refreshed"
)

type AuditLog struct {
	Id        uuid.UUID
	UserId    *uuid.UUID
	EventType AuditEventType
	IpAddress string
	UserAgent string
	Details   map[string]interface{}
	Timestamp time.Time
}
