package rag

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/pkg/content"
	"physical-ai-textbook-be/pkg/vectorindex"
)

const DefaultContextDocs = 4

var tracer = otel.Tracer("physical-ai-textbook-be/pkg/rag")

type Kind string

const (
	KindGreeting Kind = "greeting"
	KindHelp     Kind = "help"
	KindAnswer   Kind = "answer"
	KindFallback Kind = "fallback"
	KindError    Kind = "error"
)

type ChatResult struct {
	Response string
	Sources  []Source
	UsedRAG  bool
	Kind     Kind
}

// Attributed reports whether the boundary should append Attribution. Only the
// configuration fallbacks go out without it.
func (r ChatResult) Attributed() bool {
	return r.Kind != KindFallback
}

// Index is everything the orchestrator needs from the vector index.
type Index interface {
	Searcher
	Clear(ctx context.Context) error
	Stats(ctx context.Context) vectorindex.Stats
}

// Ingester runs a content ingestion pass.
type Ingester interface {
	Ingest(ctx context.Context, opts content.IngestOptions) content.IngestResult
}

type OrchestratorConfig struct {
	ContextDocs int
}

// Orchestrator answers chat turns: canned replies first, then retrieval and
// generation over the textbook index.
type Orchestrator struct {
	index       Index
	retriever   *Retriever
	synthesizer *Synthesizer
	ingester    Ingester
	cfg         OrchestratorConfig
	logger      logger.ILogger
}

func NewOrchestrator(index Index, synthesizer *Synthesizer, ingester Ingester, cfg OrchestratorConfig, log logger.ILogger) *Orchestrator {
	if cfg.ContextDocs <= 0 {
		cfg.ContextDocs = DefaultContextDocs
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Orchestrator{
		index:       index,
		retriever:   NewRetriever(index, log),
		synthesizer: synthesizer,
		ingester:    ingester,
		cfg:         cfg,
		logger:      log,
	}
}

func (o *Orchestrator) Chat(ctx context.Context, query string, profile Profile) ChatResult {
	ctx, span := tracer.Start(ctx, "rag.chat")
	defer span.End()

	if containsAny(query, greetingPhrases) {
		span.SetAttributes(attribute.String("rag.kind", string(KindGreeting)))
		return ChatResult{Response: GreetingMessage, Kind: KindGreeting}
	}
	if containsAny(query, helpPhrases) {
		span.SetAttributes(attribute.String("rag.kind", string(KindHelp)))
		return ChatResult{Response: HelpMessage, Kind: KindHelp}
	}

	if !o.index.Initialized() || !o.synthesizer.Available() {
		o.logger.Warn(logModule, "RAG service not initialized, using fallback response", nil)
		return ChatResult{Response: NotInitializedMessage, Kind: KindFallback}
	}

	if o.index.Stats(ctx).DocumentCount == 0 {
		o.logger.Warn(logModule, "No documents in RAG store", nil)
		return ChatResult{Response: EmptyStoreMessage, Kind: KindFallback}
	}

	passages := o.retriever.Search(ctx, query, o.cfg.ContextDocs, nil)
	answer := o.synthesizer.Generate(ctx, query, passages, profile)

	span.SetAttributes(
		attribute.Int("rag.passages", len(passages)),
		attribute.Bool("rag.error", answer.Error),
	)

	if answer.Error {
		return ChatResult{Response: answer.Text, UsedRAG: len(passages) > 0, Kind: KindError}
	}
	return ChatResult{
		Response: answer.Text,
		Sources:  answer.Sources,
		UsedRAG:  len(passages) > 0,
		Kind:     KindAnswer,
	}
}

func (o *Orchestrator) Stats(ctx context.Context) vectorindex.Stats {
	return o.index.Stats(ctx)
}

func (o *Orchestrator) Clear(ctx context.Context) error {
	return o.index.Clear(ctx)
}

func (o *Orchestrator) Ingest(ctx context.Context, opts content.IngestOptions) content.IngestResult {
	if o.ingester == nil {
		return content.IngestResult{Error: "ingestion is not configured"}
	}
	return o.ingester.Ingest(ctx, opts)
}

// containsAny is a plain case-insensitive substring check, so "this" matches "hi".
func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
