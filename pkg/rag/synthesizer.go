package rag

import (
	"context"
	"time"

	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/pkg/llm"
	"physical-ai-textbook-be/pkg/upstream"
)

const logModule = "RAG"

type Source struct {
	Module string `json:"module"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// Answer is the outcome of one generation. On failure Text holds a reader-facing
// message, Error is set and Sources is empty.
type Answer struct {
	Text     string
	Sources  []Source
	Error    bool
	Category upstream.Category
}

type SynthesizerConfig struct {
	Timeout   time.Duration
	MaxTokens int

	// ContextTokens caps the passage text placed in the prompt. Zero disables the cap.
	ContextTokens int
}

type Synthesizer struct {
	model       llm.LLMProvider
	cfg         SynthesizerConfig
	logger      logger.ILogger
	countTokens TokenCounter
}

// NewSynthesizer accepts a nil model; Generate then answers with the
// service-unavailable message.
func NewSynthesizer(model llm.LLMProvider, cfg SynthesizerConfig, log logger.ILogger, counter TokenCounter) *Synthesizer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Synthesizer{model: model, cfg: cfg, logger: log, countTokens: counter}
}

func (s *Synthesizer) Available() bool {
	return s.model != nil
}

func (s *Synthesizer) Generate(ctx context.Context, query string, passages []Passage, profile Profile) Answer {
	if s.model == nil {
		return Answer{Text: ModelUnavailableMessage, Error: true}
	}

	retrieved := len(passages)
	passages, contextTokens := fitPassages(passages, s.cfg.ContextTokens, s.countTokens)

	sources := make([]Source, 0, len(passages))
	for _, p := range passages {
		source := p.Source
		if source == "" {
			source = "textbook"
		}
		sources = append(sources, Source{Module: p.Module, Title: p.Title, Source: source})
	}

	prompt := BuildPrompt(query, passages, profile)
	if s.countTokens != nil {
		s.logger.Debug(logModule, "Prompt built", map[string]interface{}{
			"passages":       len(passages),
			"dropped":        retrieved - len(passages),
			"context_tokens": contextTokens,
			"prompt_tokens":  s.countTokens(prompt),
		})
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	var opts []llm.Option
	if s.cfg.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(s.cfg.MaxTokens))
	}

	text, err := s.model.Generate(ctx, prompt, opts...)
	if err != nil {
		category := upstream.CategoryOf(err)
		s.logger.Error(logModule, "Failed to generate response", map[string]interface{}{
			"category": category.String(),
			"error":    err.Error(),
		})
		return Answer{Text: FailureMessage(category), Error: true, Category: category}
	}

	return Answer{Text: text, Sources: sources}
}
