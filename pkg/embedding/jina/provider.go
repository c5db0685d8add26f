package jina

import (
	"context"
	"errors"
	"net/http"
	"time"

	"physical-ai-textbook-be/pkg/embedding"
	"physical-ai-textbook-be/pkg/upstream"
)

const providerName = "jina"

type JinaProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewJinaProvider(apiKey string, timeout time.Duration) *JinaProvider {
	return &JinaProvider{
		apiKey:  apiKey,
		baseURL: "https://api.jina.ai/v1/embeddings",
		model:   "jina-embeddings-v2-base-en",
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the provider at another endpoint, e.g. a proxy.
func (p *JinaProvider) WithBaseURL(url string) *JinaProvider {
	p.baseURL = url
	return p
}

// Generate ignores taskType; the v2 models embed queries and passages alike.
func (p *JinaProvider) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	var out embeddingResponse
	err := upstream.PostJSON(ctx, p.client, providerName, p.baseURL, upstream.Bearer(p.apiKey),
		embeddingRequest{Model: p.model, Input: []string{text}}, &out)
	if err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, upstream.FromMessage(providerName, out.Error.Message)
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, errors.New("empty embeddings from jina api")
	}

	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: out.Data[0].Embedding},
	}, nil
}
