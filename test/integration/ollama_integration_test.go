package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"physical-ai-textbook-be/pkg/embedding"
	"physical-ai-textbook-be/pkg/llm"
	"physical-ai-textbook-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "gemma:2b"
	defaultEmbedModel    = "nomic-embed-text"
)

func ollamaBaseURL(t *testing.T) string {
	t.Helper()

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/tags")
	if err != nil {
		t.Skipf("Skipping Ollama test: %s unreachable (%v)", baseURL, err)
	}
	resp.Body.Close()
	return baseURL
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestOllamaEmbeddings(t *testing.T) {
	baseURL := ollamaBaseURL(t)
	provider := embedding.NewOllamaProvider(baseURL, envOr("OLLAMA_EMBEDDING_MODEL", defaultEmbedModel), time.Minute)

	ctx := context.Background()
	doc, err := provider.Generate(ctx, "A ROS 2 node publishes sensor data on a topic.", embedding.TaskRetrievalDocument)
	require.NoError(t, err)
	require.NotEmpty(t, doc.Embedding.Values)

	query, err := provider.Generate(ctx, "How do ROS 2 nodes share data?", embedding.TaskRetrievalQuery)
	require.NoError(t, err)
	assert.Len(t, query.Embedding.Values, len(doc.Embedding.Values))
}

func TestOllamaChat(t *testing.T) {
	baseURL := ollamaBaseURL(t)
	provider := ollama.NewOllamaProvider(baseURL, envOr("OLLAMA_MODEL", defaultOllamaModel), 2*time.Minute)

	history := []llm.Message{
		{Role: "system", Content: "You are a concise robotics tutor."},
		{Role: "user", Content: "In one sentence, what is a URDF file?"},
	}

	start := time.Now()
	reply, err := provider.Chat(context.Background(), history, llm.WithTemperature(0.2), llm.WithMaxTokens(128))
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	t.Logf("Ollama replied in %s: %s", time.Since(start).Round(time.Millisecond), reply)
}
