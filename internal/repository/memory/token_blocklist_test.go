package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBlocklist(t *testing.T) {
	b := NewTokenBlocklist()

	b.Revoke("live", time.Now().Add(time.Hour))
	b.Revoke("stale", time.Now().Add(-time.Minute))
	b.Revoke("", time.Now().Add(time.Hour))

	assert.True(t, b.IsRevoked("live"))
	assert.False(t, b.IsRevoked("stale"))
	assert.False(t, b.IsRevoked("unknown"))
	assert.Equal(t, 1, b.Len())
}
