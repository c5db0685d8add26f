package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"physical-ai-textbook-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to          string
	lockedUntil time.Time
	ip          string
	err         error
}

func (m *fakeMailer) SendAccountLockedAlert(toEmail string, lockedUntil time.Time, ipAddress string) error {
	m.to, m.lockedUntil, m.ip = toEmail, lockedUntil, ipAddress
	return m.err
}

func TestHandleAccountLocked(t *testing.T) {
	until := time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC)
	evt := events.New(events.AccountLocked, map[string]interface{}{
		"email":        "ada@example.com",
		"locked_until": until.Format(time.RFC3339),
		"ip_address":   "203.0.113.7",
	})

	m := &fakeMailer{}
	svc := NewSecurityAlertService(nil, m, nil)
	require.NoError(t, svc.HandleAccountLocked(context.Background(), evt))
	assert.Equal(t, "ada@example.com", m.to)
	assert.True(t, until.Equal(m.lockedUntil))
	assert.Equal(t, "203.0.113.7", m.ip)

	failing := &fakeMailer{err: errors.New("smtp down")}
	svc = NewSecurityAlertService(nil, failing, nil)
	assert.Error(t, svc.HandleAccountLocked(context.Background(), evt))

	noEmail := events.New(events.AccountLocked, map[string]interface{}{})
	assert.NoError(t, svc.HandleAccountLocked(context.Background(), noEmail))
}
