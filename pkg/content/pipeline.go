package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/pkg/vectorindex"
)

const logModule = "CONTENT_INGEST"

var tracer = otel.Tracer("physical-ai-textbook-be/pkg/content")

// Indexer is the part of vectorindex.Index the pipeline writes through.
type Indexer interface {
	Initialized() bool
	Embed(ctx context.Context, docs []vectorindex.Document) []vectorindex.Record
	AddBatch(ctx context.Context, records []vectorindex.Record) int
	Clear(ctx context.Context) error
	Count(ctx context.Context) int64
}

type PipelineConfig struct {
	Root         string
	ChunkSize    int
	ChunkOverlap int
	ModuleNames  map[string]string
}

type IngestOptions struct {
	ClearExisting bool
}

type IngestResult struct {
	Success        bool   `json:"success"`
	FilesFound     int    `json:"files_found"`
	FilesProcessed int    `json:"files_processed"`
	ChunksCreated  int    `json:"chunks_created"`
	DocumentsAdded int    `json:"documents_added"`
	TotalInStore   int64  `json:"total_in_store"`
	Error          string `json:"error,omitempty"`
}

// Pipeline turns a directory of MDX chapters into index records. Only one run may
// be in flight; a second caller gets an unsuccessful result right away.
type Pipeline struct {
	index  Indexer
	cfg    PipelineConfig
	logger logger.ILogger
	mu     sync.Mutex
}

func NewPipeline(index Indexer, cfg PipelineConfig, log logger.ILogger) *Pipeline {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = DefaultChunkOverlap
	}
	if cfg.ModuleNames == nil {
		cfg.ModuleNames = DefaultModuleNames
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Pipeline{index: index, cfg: cfg, logger: log}
}

func (p *Pipeline) Root() string {
	return p.cfg.Root
}

func (p *Pipeline) Ingest(ctx context.Context, opts IngestOptions) IngestResult {
	ctx, span := tracer.Start(ctx, "rag.ingest")
	defer span.End()

	if !p.mu.TryLock() {
		return IngestResult{Error: "ingestion already in progress"}
	}
	defer p.mu.Unlock()

	if !p.index.Initialized() {
		return IngestResult{Error: "RAG service not initialized. Check the embedding provider configuration."}
	}

	if info, err := os.Stat(p.cfg.Root); err != nil || !info.IsDir() {
		return IngestResult{Error: fmt.Sprintf("Docs directory not found: %s", p.cfg.Root)}
	}

	if opts.ClearExisting {
		if err := p.index.Clear(ctx); err != nil {
			p.logger.Error(logModule, "Failed to clear collection", map[string]interface{}{"error": err.Error()})
			return IngestResult{Error: "failed to clear existing documents"}
		}
		p.logger.Info(logModule, "Cleared existing documents", nil)
	}

	files, err := Discover(p.cfg.Root)
	if err != nil {
		return IngestResult{Error: fmt.Sprintf("failed to list docs directory: %v", err)}
	}
	p.logger.Info(logModule, "Discovered content files", map[string]interface{}{
		"root":  p.cfg.Root,
		"files": len(files),
	})

	var docs []vectorindex.Document
	processed := 0
	for _, path := range files {
		fileDocs, err := p.parseFile(path)
		if err != nil {
			p.logger.Warn(logModule, "Skipping unreadable file", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			continue
		}
		if len(fileDocs) == 0 {
			continue
		}
		docs = append(docs, fileDocs...)
		processed++
	}

	added := 0
	if len(docs) > 0 {
		added = p.index.AddBatch(ctx, p.index.Embed(ctx, docs))
	}

	result := IngestResult{
		Success:        true,
		FilesFound:     len(files),
		FilesProcessed: processed,
		ChunksCreated:  len(docs),
		DocumentsAdded: added,
		TotalInStore:   p.index.Count(ctx),
	}

	span.SetAttributes(
		attribute.Int("ingest.files_found", result.FilesFound),
		attribute.Int("ingest.chunks_created", result.ChunksCreated),
		attribute.Int("ingest.documents_added", result.DocumentsAdded),
	)
	p.logger.Info(logModule, "Ingestion finished", map[string]interface{}{
		"files_processed": result.FilesProcessed,
		"chunks_created":  result.ChunksCreated,
		"documents_added": result.DocumentsAdded,
		"total_in_store":  result.TotalInStore,
	})
	return result
}

// parseFile returns the chunk documents of one file. A file that cleans down to
// nothing yields no documents and is logged.
func (p *Pipeline) parseFile(path string) ([]vectorindex.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text := Clean(string(raw))
	if text == "" {
		p.logger.Warn(logModule, "Empty content after cleaning", map[string]interface{}{"path": path})
		return nil, nil
	}

	filename := filepath.Base(path)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	moduleDir := filepath.Base(filepath.Dir(path))
	moduleLabel, ok := p.cfg.ModuleNames[moduleDir]
	if !ok {
		moduleLabel = moduleDir
	}
	title := ExtractTitle(string(raw), filename)

	source, err := filepath.Rel(filepath.Dir(filepath.Clean(p.cfg.Root)), path)
	if err != nil {
		source = path
	}
	source = filepath.ToSlash(source)

	chunks := Chunk(text, p.cfg.ChunkSize, p.cfg.ChunkOverlap)
	docs := make([]vectorindex.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, vectorindex.Document{
			ID:      fmt.Sprintf("%s/%s_chunk_%d", moduleDir, stem, i),
			Content: chunk,
			Metadata: map[string]any{
				"source":       source,
				"module":       moduleLabel,
				"module_dir":   moduleDir,
				"title":        title,
				"chunk_index":  i,
				"total_chunks": len(chunks),
				"filename":     filename,
			},
		})
	}
	return docs, nil
}
