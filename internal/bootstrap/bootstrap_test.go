package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"physical-ai-textbook-be/internal/config"
	"physical-ai-textbook-be/pkg/content"
	"physical-ai-textbook-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Ai: config.AIConfig{
			EmbeddingProvider: "hashing",
			LLMProvider:       "gemini",
			LLMModel:          "gemini-2.0-flash",
			LLMTimeout:        time.Second,
			ContextDocs:       4,
		},
		Content: config.ContentConfig{
			Root:         t.TempDir(),
			Collection:   "physical_ai_textbook",
			ChunkSize:    1500,
			ChunkOverlap: 200,
		},
		RateLimit: config.RateLimitConfig{
			MaxRequests: 3,
			Window:      time.Hour,
			Retention:   2 * time.Hour,
			Store:       "memory",
		},
	}
}

func TestNewEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		key      string
		wantNil  bool
		wantDim  int
	}{
		{name: "hashing default", provider: "hashing", wantDim: embedding.DefaultHashingDimension},
		{name: "unknown falls back to hashing", provider: "bogus", wantDim: embedding.DefaultHashingDimension},
		{name: "gemini without key", provider: "gemini", wantNil: true, wantDim: 768},
		{name: "gemini with key", provider: "gemini", key: "k", wantDim: 768},
		{name: "ollama", provider: "ollama", wantDim: 768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Ai.EmbeddingProvider = tt.provider
			cfg.Keys.GoogleGemini = tt.key

			provider, dim := NewEmbeddingProvider(cfg)
			assert.Equal(t, tt.wantNil, provider == nil)
			assert.Equal(t, tt.wantDim, dim)
		})
	}
}

func TestNewRAGEngineWithoutDatabase(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	doc := "---\ntitle: Nodes\n---\n\nROS 2 nodes communicate over topics."
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Content.Root, "module-1-ros2"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Content.Root, "module-1-ros2", "01-nodes.mdx"), []byte(doc), 0o644))

	engine := NewRAGEngine(ctx, nil, cfg, nil)
	stats := engine.Stats(ctx)
	assert.True(t, stats.Initialized)
	assert.Equal(t, "physical_ai_textbook", stats.CollectionName)

	result := engine.Ingest(ctx, content.IngestOptions{})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, 1, result.FilesProcessed)
	assert.EqualValues(t, 1, engine.Stats(ctx).DocumentCount)
}

func TestNewRateLimiterMemory(t *testing.T) {
	cfg := testConfig(t)
	limiter := NewRateLimiter(context.Background(), nil, cfg)

	assert.Equal(t, 3, limiter.Config().MaxRequests)
	decision, err := limiter.RecordRequest(context.Background(), "fp")
	require.NoError(t, err)
	assert.Equal(t, 2, decision.Remaining)
}
