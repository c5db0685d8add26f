package service

import (
	"context"
	"time"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/pkg/events"
	"physical-ai-textbook-be/pkg/ratelimit"
)

// RateLimitDecision is what the chat boundary needs to answer or reject a call.
// Remaining is -1 when the limiter could not be consulted and the request was
// let through.
type RateLimitDecision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type IRateLimitService interface {
	Check(ctx context.Context, identifier string) RateLimitDecision
	Status(ctx context.Context, identifier string, authenticated bool) (*dto.RateLimitStatusResponse, error)
	Reset(ctx context.Context, identifier string) error
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
	StartCleanup(ctx context.Context, interval time.Duration)
}

type rateLimitService struct {
	limiter        *ratelimit.Limiter
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewRateLimitService(limiter *ratelimit.Limiter, eventPublisher events.Publisher, log logger.ILogger) IRateLimitService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &rateLimitService{
		limiter:        limiter,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *rateLimitService) Check(ctx context.Context, identifier string) RateLimitDecision {
	decision, err := s.limiter.RecordRequest(ctx, identifier)
	if err != nil {
		s.logger.Error("RATE_LIMIT", "Limiter unavailable, allowing request", map[string]interface{}{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return RateLimitDecision{Allowed: true, Remaining: -1}
	}

	if !decision.Allowed {
		s.logger.Info("RATE_LIMIT", "Anonymous quota exhausted", map[string]interface{}{
			"identifier": identifier,
			"reset_at":   decision.ResetAt,
		})
		evt := events.New(events.RateLimitHit, map[string]interface{}{
			"identifier": identifier,
			"reset_at":   decision.ResetAt.Format(time.RFC3339),
		})
		if err := events.Publish(ctx, s.eventPublisher, evt); err != nil {
			s.logger.Warn("RATE_LIMIT", "Failed to publish RATE_LIMIT_EXCEEDED", map[string]interface{}{"error": err.Error()})
		}
	}

	return RateLimitDecision{
		Allowed:   decision.Allowed,
		Remaining: decision.Remaining,
		ResetAt:   decision.ResetAt,
	}
}

func (s *rateLimitService) Status(ctx context.Context, identifier string, authenticated bool) (*dto.RateLimitStatusResponse, error) {
	quota := s.limiter.Config().MaxRequests
	if authenticated {
		return &dto.RateLimitStatusResponse{
			Remaining:       quota,
			Total:           quota,
			ResetAt:         timeNow(),
			IsAuthenticated: true,
		}, nil
	}

	status, err := s.limiter.Status(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return &dto.RateLimitStatusResponse{
		Remaining:       status.Remaining,
		Total:           status.Total,
		ResetAt:         status.ResetAt,
		IsAuthenticated: false,
	}, nil
}

func (s *rateLimitService) Reset(ctx context.Context, identifier string) error {
	return s.limiter.Reset(ctx, identifier)
}

func (s *rateLimitService) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	deleted, err := s.limiter.CleanupExpired(ctx, retention)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("RATE_LIMIT", "Removed expired rate limit records", map[string]interface{}{"deleted": deleted})
	}
	return deleted, nil
}

// StartCleanup prunes old records every interval until ctx is cancelled.
func (s *rateLimitService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Cleanup(ctx, 0); err != nil {
					s.logger.Warn("RATE_LIMIT", "Cleanup failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}
	}()
}
