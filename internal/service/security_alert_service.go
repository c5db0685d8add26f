package service

import (
	"context"
	"fmt"
	"time"

	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/internal/pkg/mailer"
	"physical-ai-textbook-be/pkg/events"
	pkgnats "physical-ai-textbook-be/pkg/nats"
)

// EventSubscriber is the slice of the NATS subscriber this service needs.
type EventSubscriber interface {
	Subscribe(eventType string, durableName string, handler pkgnats.EventHandler) error
}

type ISecurityAlertService interface {
	Start() error
	HandleAccountLocked(ctx context.Context, event events.Event) error
}

type securityAlertService struct {
	subscriber   EventSubscriber
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewSecurityAlertService(subscriber EventSubscriber, emailService mailer.IEmailService, log logger.ILogger) ISecurityAlertService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &securityAlertService{
		subscriber:   subscriber,
		emailService: emailService,
		logger:       log,
	}
}

func (s *securityAlertService) Start() error {
	return s.subscriber.Subscribe(events.AccountLocked, "security-alert-mailer", s.HandleAccountLocked)
}

// HandleAccountLocked mails the account owner. A returned error asks the broker to
// redeliver.
func (s *securityAlertService) HandleAccountLocked(ctx context.Context, event events.Event) error {
	data := event.Payload()

	email, _ := data["email"].(string)
	if email == "" {
		s.logger.Warn("SECURITY", "ACCOUNT_LOCKED event without email", map[string]interface{}{"data": data})
		return nil
	}

	lockedUntil := event.Timestamp()
	if raw, ok := data["locked_until"].(string); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			lockedUntil = t
		}
	}
	ip, _ := data["ip_address"].(string)

	if err := s.emailService.SendAccountLockedAlert(email, lockedUntil, ip); err != nil {
		s.logger.Error("SECURITY", "Failed to send lockout alert", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return fmt.Errorf("send lockout alert: %w", err)
	}

	s.logger.Info("SECURITY", "Lockout alert sent", map[string]interface{}{"email": email})
	return nil
}
