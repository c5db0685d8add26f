package ollama

import (
	"context"
	"net/http"
	"time"

	"physical-ai-textbook-be/pkg/llm"
	"physical-ai-textbook-be/pkg/upstream"
)

const providerName = "ollama"

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

var _ llm.LLMProvider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string, timeout time.Duration) *OllamaProvider {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Resolve(llm.Options{Temperature: 0.7, Model: o.ModelName}, opts...)

	req := chatRequest{
		Model:    options.Model,
		Messages: make([]chatMessage, len(history)),
		Options:  chatOptions{Temperature: options.Temperature, NumPredict: options.MaxTokens},
	}
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = llm.RoleAssistant
		}
		req.Messages[i] = chatMessage{Role: role, Content: msg.Content}
	}

	var out chatResponse
	if err := upstream.PostJSON(ctx, o.Client, providerName, o.BaseURL+"/api/chat", nil, req, &out); err != nil {
		return "", err
	}
	return out.Message.Content, nil
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, llm.UserPrompt(prompt), opts...)
}
