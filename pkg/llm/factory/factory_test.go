package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physical-ai-textbook-be/pkg/llm/gemini"
	"physical-ai-textbook-be/pkg/llm/ollama"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider("gemini", "", "", "key", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &gemini.GeminiProvider{}, p)

	p, err = NewLLMProvider("ollama", "llama3", "", "", time.Second)
	require.NoError(t, err)
	require.IsType(t, &ollama.OllamaProvider{}, p)
	assert.Equal(t, "http://localhost:11434", p.(*ollama.OllamaProvider).BaseURL)

	_, err = NewLLMProvider("gemini", "", "", "", time.Second)
	assert.Error(t, err)

	_, err = NewLLMProvider("openai", "", "", "", time.Second)
	assert.EqualError(t, err, "unsupported LLM provider: openai")
}
