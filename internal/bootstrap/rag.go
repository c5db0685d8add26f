package bootstrap

import (
	"context"
	"log"
	"strings"

	"physical-ai-textbook-be/internal/config"
	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/internal/repository/implementation"
	"physical-ai-textbook-be/pkg/content"
	"physical-ai-textbook-be/pkg/embedding"
	"physical-ai-textbook-be/pkg/embedding/jina"
	"physical-ai-textbook-be/pkg/llm"
	"physical-ai-textbook-be/pkg/llm/factory"
	"physical-ai-textbook-be/pkg/rag"
	"physical-ai-textbook-be/pkg/vectorindex"

	"gorm.io/gorm"
)

// Output sizes of the default model behind each embedding provider.
var embeddingDimensions = map[string]int{
	"gemini":  768,
	"ollama":  768,
	"jina":    768,
	"hashing": embedding.DefaultHashingDimension,
}

// NewEmbeddingProvider builds the configured embedder and reports its vector
// size. Remote providers are wrapped with call spacing and rate-limit backoff.
func NewEmbeddingProvider(cfg *config.Config) (embedding.EmbeddingProvider, int) {
	name := strings.ToLower(cfg.Ai.EmbeddingProvider)

	dimension := cfg.Ai.EmbeddingDimension
	if dimension <= 0 {
		dimension = embeddingDimensions[name]
	}

	policy := embedding.RetryPolicy{
		Delay:          cfg.Ai.EmbedDelay,
		InitialBackoff: cfg.Ai.EmbedInitialBackoff,
		Multiplier:     cfg.Ai.EmbedBackoffFactor,
		MaxRetries:     cfg.Ai.EmbedMaxRetries,
	}

	switch name {
	case "ollama":
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel, cfg.Ai.EmbeddingTimeout), dimension
	case "jina":
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
		return embedding.NewThrottledProvider(jina.NewJinaProvider(cfg.Keys.Jina, cfg.Ai.EmbeddingTimeout), policy), dimension
	case "gemini":
		if cfg.Keys.GoogleGemini == "" {
			log.Printf("[WARN] GEMINI_API_KEY is not set, the textbook index will stay uninitialized")
			return nil, dimension
		}
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
		return embedding.NewThrottledProvider(embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingTimeout), policy), dimension
	default:
		if dimension <= 0 {
			dimension = embedding.DefaultHashingDimension
		}
		log.Printf("[INFO] Using Embedding Provider: HASHING (dim %d)", dimension)
		return embedding.NewHashingProvider(dimension), dimension
	}
}

// NewLLMProvider returns nil when the model cannot be configured; chat then
// answers with the unavailable message instead of failing to boot.
func NewLLMProvider(cfg *config.Config) llm.LLMProvider {
	var baseURL, apiKey string
	switch cfg.Ai.LLMProvider {
	case "ollama":
		baseURL = cfg.Ai.OllamaBaseURL
	case "huggingface":
		baseURL, apiKey = cfg.Ai.HuggingFaceBaseURL, cfg.Keys.HuggingFace
	default:
		apiKey = cfg.Keys.GoogleGemini
	}

	provider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, baseURL, apiKey, cfg.Ai.LLMTimeout)
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM Provider: %v", err)
		return nil
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	return provider
}

// NewRAGEngine wires the pgvector-backed index, the ingestion pipeline and the
// answer synthesizer into one orchestrator.
func NewRAGEngine(ctx context.Context, db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) *rag.Orchestrator {
	if sysLogger == nil {
		sysLogger = logger.NewNopLogger()
	}
	embedder, dimension := NewEmbeddingProvider(cfg)

	var store vectorindex.Store = vectorindex.NewMemoryStore()
	if db != nil {
		store = implementation.NewTextbookChunkStore(db)
	}

	index := vectorindex.New(ctx, store, embedder, vectorindex.Config{
		Collection: cfg.Content.Collection,
		Dimension:  dimension,
	}, sysLogger)

	moduleNames, err := content.LoadModuleNames(cfg.Content.ModuleNamesFile)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Falling back to default module names", map[string]interface{}{"error": err.Error()})
		moduleNames = content.DefaultModuleNames
	}

	pipeline := content.NewPipeline(index, content.PipelineConfig{
		Root:         cfg.Content.Root,
		ChunkSize:    cfg.Content.ChunkSize,
		ChunkOverlap: cfg.Content.ChunkOverlap,
		ModuleNames:  moduleNames,
	}, sysLogger)

	synthesizer := rag.NewSynthesizer(
		NewLLMProvider(cfg),
		rag.SynthesizerConfig{
			Timeout:       cfg.Ai.LLMTimeout,
			MaxTokens:     cfg.Ai.LLMMaxTokens,
			ContextTokens: cfg.Ai.ContextTokens,
		},
		sysLogger,
		rag.NewTiktokenCounter(cfg.Ai.LLMModel),
	)

	return rag.NewOrchestrator(index, synthesizer, pipeline, rag.OrchestratorConfig{
		ContextDocs: cfg.Ai.ContextDocs,
	}, sysLogger)
}
