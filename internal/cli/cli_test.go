package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/service"
	"physical-ai-textbook-be/pkg/content"
	"physical-ai-textbook-be/pkg/ratelimit"
	"physical-ai-textbook-be/pkg/vectorindex"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChat struct {
	ingestCalls []bool
	ingestErr   string
	cleared     bool
	clearErr    error
	stats       vectorindex.Stats
}

func (s *stubChat) Chat(ctx context.Context, userID *uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	return &dto.ChatResponse{}, nil
}

func (s *stubChat) Stats(ctx context.Context) vectorindex.Stats { return s.stats }

func (s *stubChat) Clear(ctx context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared = true
	return nil
}

func (s *stubChat) Ingest(ctx context.Context, clearExisting bool) content.IngestResult {
	s.ingestCalls = append(s.ingestCalls, clearExisting)
	if s.ingestErr != "" {
		return content.IngestResult{Error: s.ingestErr}
	}
	return content.IngestResult{Success: true, FilesFound: 3, FilesProcessed: 3, ChunksCreated: 12, DocumentsAdded: 12, TotalInStore: 12}
}

func (s *stubChat) EnqueueIngest(ctx context.Context, clearExisting bool) (string, error) {
	return "job-1", nil
}

func run(t *testing.T, svc *Services, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := Execute(context.Background(), svc)
	return buf.String(), err
}

func newLimiterService(t *testing.T) service.IRateLimitService {
	t.Helper()
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), ratelimit.Config{MaxRequests: 3, Window: time.Hour})
	return service.NewRateLimitService(limiter, nil, nil)
}

func TestIngestCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		ingestErr string
		wantClear bool
		wantErr   bool
	}{
		{name: "default keeps existing", args: []string{"ingest"}},
		{name: "clear flag", args: []string{"ingest", "--clear"}, wantClear: true},
		{name: "failed run", args: []string{"ingest"}, ingestErr: "Docs path not found", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingestClear = false
			chat := &stubChat{ingestErr: tt.ingestErr}

			out, err := run(t, &Services{Chat: chat}, tt.args...)
			require.Len(t, chat.ingestCalls, 1)
			assert.Equal(t, tt.wantClear, chat.ingestCalls[0])

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.ingestErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "Ingestion complete")
			assert.Contains(t, out, "chunks created")
		})
	}
}

func TestStatsAndClear(t *testing.T) {
	chat := &stubChat{stats: vectorindex.Stats{Initialized: true, DocumentCount: 42, CollectionName: "physical_ai_textbook"}}

	out, err := run(t, &Services{Chat: chat}, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "physical_ai_textbook")
	assert.Contains(t, out, "42")
	assert.NotContains(t, out, "not initialized")

	out, err = run(t, &Services{Chat: chat}, "clear")
	require.NoError(t, err)
	assert.True(t, chat.cleared)
	assert.Contains(t, out, "Collection cleared")

	_, err = run(t, &Services{Chat: &stubChat{clearErr: errors.New("db down")}}, "clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestStatsUninitializedWarns(t *testing.T) {
	out, err := run(t, &Services{Chat: &stubChat{}}, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "not initialized")
}

func TestRateLimitCommands(t *testing.T) {
	limits := newLimiterService(t)
	ctx := context.Background()

	limits.Check(ctx, "fp-123")
	limits.Check(ctx, "fp-123")

	out, err := run(t, &Services{RateLimit: limits}, "ratelimit", "status", "fp-123")
	require.NoError(t, err)
	assert.Contains(t, out, "1/3")

	out, err = run(t, &Services{RateLimit: limits}, "ratelimit", "reset", "fp-123")
	require.NoError(t, err)
	assert.Contains(t, out, "Quota reset for fp-123")

	status, err := limits.Status(ctx, "fp-123", false)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Remaining)

	out, err = run(t, &Services{RateLimit: limits}, "ratelimit", "cleanup", "--retention", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "stale records")
}

func TestCommandsRequireServices(t *testing.T) {
	_, err := run(t, &Services{}, "stats")
	require.Error(t, err)

	_, err = run(t, &Services{}, "ratelimit", "reset", "fp-1")
	require.Error(t, err)

	_, err = run(t, &Services{}, "ratelimit", "reset")
	require.Error(t, err)
}
