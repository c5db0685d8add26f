package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"

	"physical-ai-textbook-be/pkg/upstream"
)

var ErrRetriesExhausted = errors.New("embedding retries exhausted")

// RetryPolicy spaces calls to a remote embedder and backs off on rate limiting.
// MaxRetries counts total attempts, not retries after the first.
type RetryPolicy struct {
	Delay          time.Duration
	InitialBackoff time.Duration
	Multiplier     float64
	MaxRetries     int
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Delay:          2500 * time.Millisecond,
		InitialBackoff: 5 * time.Second,
		Multiplier:     2,
		MaxRetries:     5,
	}
}

// Backoff returns the wait after the given zero-based failed attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	mult := p.Multiplier
	if mult <= 0 {
		mult = 1
	}
	return time.Duration(float64(p.InitialBackoff) * math.Pow(mult, float64(attempt)))
}

// ThrottledProvider wraps a remote provider with fixed call spacing and
// exponential backoff. Only rate-limit and quota failures are retried.
type ThrottledProvider struct {
	next    EmbeddingProvider
	policy  RetryPolicy
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewThrottledProvider(next EmbeddingProvider, policy RetryPolicy) *ThrottledProvider {
	limit := rate.Inf
	if policy.Delay > 0 {
		limit = rate.Every(policy.Delay)
	}
	if policy.MaxRetries <= 0 {
		policy.MaxRetries = 1
	}

	return &ThrottledProvider{
		next:    next,
		policy:  policy,
		limiter: rate.NewLimiter(limit, 1),
		sleep:   sleepContext,
	}
}

func (p *ThrottledProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	var lastErr error
	for attempt := 0; attempt < p.policy.MaxRetries; attempt++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		res, err := p.next.Generate(ctx, text, taskType)
		if err == nil {
			return res, nil
		}
		if !upstream.IsRateLimited(err) {
			return nil, err
		}
		lastErr = err

		if attempt == p.policy.MaxRetries-1 {
			break
		}
		if err := p.sleep(ctx, p.policy.Backoff(attempt)); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, p.policy.MaxRetries, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
