package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Record tracks one anonymous caller's requests in the current window.
type Record struct {
	Identifier   string
	RequestCount int
	WindowStart  time.Time
	LastRequest  time.Time
}

func (r *Record) expired(now time.Time, window time.Duration) bool {
	return now.Sub(r.WindowStart) > window
}

func (r *Record) resetAt(window time.Duration) time.Time {
	return r.WindowStart.Add(window)
}

type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type Status struct {
	Remaining int
	Total     int
	ResetAt   time.Time
}

// Store persists records. Update must load (or seed) the record for id, apply fn
// and write the result back as one atomic step with respect to other Updates on
// the same id.
type Store interface {
	Update(ctx context.Context, id string, seed Record, fn func(rec *Record)) error
	Get(ctx context.Context, id string) (*Record, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Config struct {
	MaxRequests int
	Window      time.Duration
	Retention   time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRequests: 5,
		Window:      24 * time.Hour,
		Retention:   48 * time.Hour,
	}
}

// Limiter enforces a fixed number of requests per window for each identifier.
// The window starts at the first request and restarts on the first request made
// after it has run out.
type Limiter struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func NewLimiter(store Store, cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.Retention <= 0 {
		cfg.Retention = def.Retention
	}
	return &Limiter{
		store: store,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, for tests and replay tooling.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

func (l *Limiter) Config() Config {
	return l.cfg
}

// RecordRequest counts one request for id and reports whether it may proceed.
// A denied request does not advance the counter.
func (l *Limiter) RecordRequest(ctx context.Context, id string) (Decision, error) {
	now := l.now()
	var decision Decision

	err := l.store.Update(ctx, id, Record{Identifier: id, WindowStart: now, LastRequest: now}, func(rec *Record) {
		switch {
		case rec.expired(now, l.cfg.Window):
			rec.WindowStart = now
			rec.LastRequest = now
			rec.RequestCount = 1
			decision = Decision{Allowed: true, Remaining: l.cfg.MaxRequests - 1}
		case rec.RequestCount >= l.cfg.MaxRequests:
			decision = Decision{Allowed: false, Remaining: 0}
		default:
			rec.RequestCount++
			rec.LastRequest = now
			decision = Decision{Allowed: true, Remaining: max(0, l.cfg.MaxRequests-rec.RequestCount)}
		}
		decision.ResetAt = rec.resetAt(l.cfg.Window)
	})
	if err != nil {
		return Decision{}, fmt.Errorf("record request for %s: %w", id, err)
	}
	return decision, nil
}

// Status reports the caller's quota without counting a request.
func (l *Limiter) Status(ctx context.Context, id string) (Status, error) {
	now := l.now()
	full := Status{Remaining: l.cfg.MaxRequests, Total: l.cfg.MaxRequests, ResetAt: now}

	rec, err := l.store.Get(ctx, id)
	if err != nil {
		return Status{}, fmt.Errorf("rate limit status for %s: %w", id, err)
	}
	if rec == nil || rec.expired(now, l.cfg.Window) {
		return full, nil
	}

	return Status{
		Remaining: max(0, l.cfg.MaxRequests-rec.RequestCount),
		Total:     l.cfg.MaxRequests,
		ResetAt:   rec.resetAt(l.cfg.Window),
	}, nil
}

// Reset gives id a fresh window with no requests counted. Unknown ids are left
// alone.
func (l *Limiter) Reset(ctx context.Context, id string) error {
	rec, err := l.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("reset rate limit for %s: %w", id, err)
	}
	if rec == nil {
		return nil
	}

	now := l.now()
	return l.store.Update(ctx, id, *rec, func(r *Record) {
		r.WindowStart = now
		r.LastRequest = now
		r.RequestCount = 0
	})
}

// CleanupExpired deletes records whose window started more than retention ago.
// A non-positive retention uses the configured one.
func (l *Limiter) CleanupExpired(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		retention = l.cfg.Retention
	}
	return l.store.DeleteOlderThan(ctx, l.now().Add(-retention))
}
