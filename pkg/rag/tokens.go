package rag

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// TokenCounter returns the number of tokens in text.
type TokenCounter func(text string) int

// NewTiktokenCounter counts with the BPE of model, or cl100k_base for models
// tiktoken does not know (gemini, llama and friends). The encoding is loaded on
// first use. If no encoding can be loaded the count is estimated at four runes
// per token.
func NewTiktokenCounter(model string) TokenCounter {
	var (
		once sync.Once
		enc  *tiktoken.Tiktoken
	)
	return func(text string) int {
		once.Do(func() {
			enc = loadEncoding(model)
		})
		if enc == nil {
			return estimateTokens(text)
		}
		return len(enc.Encode(text, nil, nil))
	}
}

func loadEncoding(model string) *tiktoken.Tiktoken {
	if model != "" {
		if e, err := tiktoken.EncodingForModel(model); err == nil {
			return e
		}
	}
	e, err := tiktoken.GetEncoding(fallbackEncoding)
	if err != nil {
		return nil
	}
	return e
}

func estimateTokens(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// fitPassages keeps passages in rank order while their combined content stays
// within budget tokens. The top passage is always kept. A budget <= 0 or a nil
// counter keeps everything.
func fitPassages(passages []Passage, budget int, count TokenCounter) ([]Passage, int) {
	if budget <= 0 || count == nil || len(passages) == 0 {
		return passages, -1
	}

	used := count(passages[0].Content)
	kept := 1
	for _, p := range passages[1:] {
		n := count(p.Content)
		if used+n > budget {
			break
		}
		used += n
		kept++
	}
	return passages[:kept], used
}
