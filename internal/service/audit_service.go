package service

import (
	"context"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/entity"
	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAuditService interface {
	Record(ctx context.Context, eventType entity.AuditEventType, userID *uuid.UUID, client dto.ClientInfo, details map[string]interface{})
}

type auditService struct {
	uowFactory unitofwork.RepositoryFactory
	auditLog   logger.ILogger
	logger     logger.ILogger
}

// NewAuditService writes every entry to the audit_logs table and mirrors it to
// auditLog, an isolated file stream.
func NewAuditService(uowFactory unitofwork.RepositoryFactory, auditLog logger.ILogger, log logger.ILogger) IAuditService {
	if auditLog == nil {
		auditLog = logger.NewNopLogger()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &auditService{
		uowFactory: uowFactory,
		auditLog:   auditLog,
		logger:     log,
	}
}

// Record never fails the caller; a database error is logged and swallowed.
func (s *auditService) Record(ctx context.Context, eventType entity.AuditEventType, userID *uuid.UUID, client dto.ClientInfo, details map[string]interface{}) {
	entry := &entity.AuditLog{
		Id:        uuid.New(),
		UserId:    userID,
		EventType: eventType,
		IpAddress: truncate(client.IpAddress, 45),
		UserAgent: truncate(client.UserAgent, 500),
		Details:   details,
		Timestamp: timeNow(),
	}

	fields := map[string]interface{}{
		"ip_address": entry.IpAddress,
		"user_agent": entry.UserAgent,
	}
	if userID != nil {
		fields["user_id"] = userID.String()
	}
	for k, v := range details {
		fields[k] = v
	}
	s.auditLog.Info("AUDIT", string(eventType), fields)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AuditLogRepository().Create(ctx, entry); err != nil {
		s.logger.Warn("AUDIT", "Failed to persist audit entry", map[string]interface{}{
			"event_type": string(eventType),
			"error":      err.Error(),
		})
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
