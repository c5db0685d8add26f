package factory

import (
	"fmt"
	"time"

	"physical-ai-textbook-be/pkg/llm"
	"physical-ai-textbook-be/pkg/llm/gemini"
	"physical-ai-textbook-be/pkg/llm/huggingface"
	"physical-ai-textbook-be/pkg/llm/ollama"
)

// NewLLMProvider builds the chat model named by providerType. Remote providers
// without an API key are rejected so callers can fall back to the unavailable
// message instead of failing on first use.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini":
		if apiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(apiKey, modelName, timeout), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName, timeout), nil
	case "huggingface":
		if apiKey == "" {
			return nil, fmt.Errorf("huggingface provider requires an API key")
		}
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
