package upstream

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Category
	}{
		{"429 transient", 429, `{"error":{"message":"Resource has been exhausted"}}`, CategoryRateLimited},
		{"429 daily", 429, "Quota exceeded for metric: requests per day, limit: 0", CategoryDailyQuota},
		{"quota text on 400", 400, "quota exceeded for project", CategoryRateLimited},
		{"unauthorized", 401, "unauthorized", CategoryAuth},
		{"forbidden", 403, "permission denied", CategoryAuth},
		{"bad key on 400", 400, "API key not valid. Please pass a valid API key.", CategoryAuth},
		{"model missing", 404, "models/gemini-9 is not found", CategoryModelNotFound},
		{"gateway timeout", 504, "upstream timed out", CategoryTimeout},
		{"server error", 500, "internal", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status, tt.body))
		})
	}
}

func TestCategoryOfUntypedErrors(t *testing.T) {
	tests := []struct {
		err  error
		want Category
	}{
		{errors.New("googleapi: Error 429: Too Many Requests"), CategoryRateLimited},
		{errors.New("429 Quota exceeded, limit: 0"), CategoryDailyQuota},
		{errors.New("403 forbidden"), CategoryAuth},
		{errors.New("read tcp: i/o timeout"), CategoryTimeout},
		{errors.New("dial tcp: connection refused"), CategoryConnection},
		{errors.New("model not found"), CategoryModelNotFound},
		{errors.New("something odd"), CategoryUnknown},
		{fmt.Errorf("generate: %w", context.DeadlineExceeded), CategoryTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryOf(tt.err))
		})
	}
}

func TestCategoryOfTypedErrorWins(t *testing.T) {
	// The body mentions "rate" but the typed category says auth.
	err := fmt.Errorf("embed chunk: %w", &Error{Provider: "gemini", StatusCode: 401, Category: CategoryAuth, Message: "rate"})

	assert.Equal(t, CategoryAuth, CategoryOf(err))
	assert.False(t, IsRateLimited(err))
}

func TestFromTransport(t *testing.T) {
	assert.Equal(t, CategoryTimeout, FromTransport("ollama", context.DeadlineExceeded).Category)
	assert.Equal(t, CategoryConnection, FromTransport("ollama", errors.New("connection reset")).Category)
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(FromResponse("jina", 429, []byte("slow down"))))
	assert.True(t, IsRateLimited(FromResponse("gemini", 429, []byte("daily limit"))))
	assert.False(t, IsRateLimited(FromResponse("gemini", 500, []byte("boom"))))
	assert.False(t, IsRateLimited(nil))
}
