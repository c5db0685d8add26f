package events

import (
	"context"
	"time"
)

// Domain event codes. Each is published on subject "events.<CODE>".
const (
	UserRegistered   = "USER_REGISTERED"
	UserLogin        = "USER_LOGIN"
	LoginFailed      = "LOGIN_FAILED"
	AccountLocked    = "ACCOUNT_LOCKED"
	ProfileCompleted = "PROFILE_COMPLETED"
	ContentIngested  = "CONTENT_INGESTED"
	RateLimitHit     = "RATE_LIMIT_EXCEEDED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Publisher is what services depend on; pkg/nats provides the real one.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Publish is a nil-safe helper: events are best effort and never fail the caller.
func Publish(ctx context.Context, p Publisher, event Event) error {
	if p == nil {
		return nil
	}
	return p.Publish(ctx, event)
}

// Recorder keeps published events in memory. Used by tests and by tools that
// run without a broker.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) Types() []string {
	types := make([]string, len(r.Events))
	for i, e := range r.Events {
		types[i] = e.EventType()
	}
	return types
}
