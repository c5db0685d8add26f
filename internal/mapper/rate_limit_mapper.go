package mapper

import (
	"physical-ai-textbook-be/internal/model"
	"physical-ai-textbook-be/pkg/ratelimit"
)

type RateLimitMapper struct{}

func NewRateLimitMapper() *RateLimitMapper {
	return &RateLimitMapper{}
}

func (m *RateLimitMapper) ToRecord(r *model.RateLimitRecord) *ratelimit.Record {
	if r == nil {
		return nil
	}
	return &ratelimit.Record{
		Identifier:   r.Identifier,
		RequestCount: r.RequestCount,
		WindowStart:  r.WindowStart,
		LastRequest:  r.LastRequest,
	}
}

// Apply copies rec onto the stored row, keeping its primary key.
func (m *RateLimitMapper) Apply(dst *model.RateLimitRecord, rec *ratelimit.Record) {
	dst.RequestCount = rec.RequestCount
	dst.WindowStart = rec.WindowStart
	dst.LastRequest = rec.LastRequest
}
