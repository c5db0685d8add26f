package nats

import (
	"testing"
	"time"

	"physical-ai-textbook-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	in := events.BaseEvent{
		Type:       events.AccountLocked,
		Data:       map[string]interface{}{"email": "a@b.co"},
		OccurredAt: at,
	}

	data, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(Subject(events.AccountLocked), data)
	require.NoError(t, err)
	assert.Equal(t, events.AccountLocked, out.EventType())
	assert.Equal(t, "a@b.co", out.Payload()["email"])
	assert.True(t, at.Equal(out.Timestamp()))
}

func TestDecodeFallsBackToSubject(t *testing.T) {
	out, err := Decode("events.USER_LOGIN", []byte(`{"data":{"user_id":"1"}}`))
	require.NoError(t, err)
	assert.Equal(t, events.UserLogin, out.EventType())

	_, err = Decode("events.USER_LOGIN", []byte(`not json`))
	assert.Error(t, err)
}
