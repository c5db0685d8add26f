package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"physical-ai-textbook-be/pkg/upstream"
)

const (
	geminiProviderName  = "gemini"
	geminiDefaultModel  = "text-embedding-004"
	geminiDefaultAPIURL = "https://generativelanguage.googleapis.com/v1"
)

type geminiRequestPart struct {
	Text string `json:"text"`
}

type geminiRequestContent struct {
	Parts []geminiRequestPart `json:"parts"`
}

type geminiRequest struct {
	Model    string               `json:"model"`
	Content  geminiRequestContent `json:"content"`
	TaskType string               `json:"task_type,omitempty"`
}

type GeminiProvider struct {
	ApiKey  string
	Model   string
	BaseURL string
	client  *http.Client
}

func NewGeminiProvider(apiKey string, timeout time.Duration) *GeminiProvider {
	return &GeminiProvider{
		ApiKey:  apiKey,
		Model:   geminiDefaultModel,
		BaseURL: geminiDefaultAPIURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	req := geminiRequest{
		Model:    "models/" + p.Model,
		Content:  geminiRequestContent{Parts: []geminiRequestPart{{Text: text}}},
		TaskType: taskType,
	}
	endpoint := fmt.Sprintf("%s/models/%s:embedContent", p.BaseURL, p.Model)

	var out EmbeddingResponse
	if err := upstream.PostJSON(ctx, p.client, geminiProviderName, endpoint, p.header(), req, &out); err != nil {
		return nil, err
	}
	if len(out.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding from gemini")
	}
	return &out, nil
}

func (p *GeminiProvider) header() http.Header {
	return http.Header{"X-Goog-Api-Key": {p.ApiKey}}
}
