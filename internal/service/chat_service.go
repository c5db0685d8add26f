package service

import (
	"context"
	"encoding/json"
	"errors"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/pkg/content"
	"physical-ai-textbook-be/pkg/events"
	"physical-ai-textbook-be/pkg/rag"
	"physical-ai-textbook-be/pkg/vectorindex"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
)

// ChatEngine is the retrieval and generation core. *rag.Orchestrator satisfies it.
type ChatEngine interface {
	Chat(ctx context.Context, query string, profile rag.Profile) rag.ChatResult
	Stats(ctx context.Context) vectorindex.Stats
	Clear(ctx context.Context) error
	Ingest(ctx context.Context, opts content.IngestOptions) content.IngestResult
}

type IChatService interface {
	Chat(ctx context.Context, userID *uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	Stats(ctx context.Context) vectorindex.Stats
	Clear(ctx context.Context) error
	Ingest(ctx context.Context, clearExisting bool) content.IngestResult
	// EnqueueIngest hands an ingestion run to the background consumer and
	// returns its job id.
	EnqueueIngest(ctx context.Context, clearExisting bool) (string, error)
}

type chatService struct {
	engine           ChatEngine
	profiles         IUserService
	publisherService IPublisherService
	eventPublisher   events.Publisher
	logger           logger.ILogger
}

func NewChatService(
	engine ChatEngine,
	profiles IUserService,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IChatService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &chatService{
		engine:           engine,
		profiles:         profiles,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *chatService) Chat(ctx context.Context, userID *uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	var profile rag.Profile
	if userID != nil && s.profiles != nil {
		attrs, err := s.profiles.ProfileAttributes(ctx, *userID)
		if err != nil {
			// A missing personalization is not worth failing the turn over.
			s.logger.Warn("CHAT", "Failed to load profile", map[string]interface{}{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
		}
		profile = attrs
	}

	result := s.engine.Chat(ctx, req.Message, profile)

	text := result.Response
	if result.Attributed() {
		text += rag.Attribution
	}

	sources := make([]dto.SourceInfo, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, dto.SourceInfo{
			Module: src.Module,
			Title:  src.Title,
			Source: src.Source,
		})
	}

	return &dto.ChatResponse{
		Response: text,
		Sources:  sources,
		UsedRAG:  result.UsedRAG,
	}, nil
}

func (s *chatService) Stats(ctx context.Context) vectorindex.Stats {
	return s.engine.Stats(ctx)
}

func (s *chatService) Clear(ctx context.Context) error {
	if err := s.engine.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("CHAT", "Cleared textbook collection", nil)
	return nil
}

func (s *chatService) Ingest(ctx context.Context, clearExisting bool) content.IngestResult {
	result := s.engine.Ingest(ctx, content.IngestOptions{ClearExisting: clearExisting})

	if result.Success {
		evt := events.New(events.ContentIngested, map[string]interface{}{
			"files_processed": result.FilesProcessed,
			"chunks_created":  result.ChunksCreated,
			"documents_added": result.DocumentsAdded,
			"total_in_store":  result.TotalInStore,
			"clear_existing":  clearExisting,
		})
		if err := events.Publish(ctx, s.eventPublisher, evt); err != nil {
			s.logger.Warn("CHAT", "Failed to publish CONTENT_INGESTED", map[string]interface{}{"error": err.Error()})
		}
	} else {
		s.logger.Error("CHAT", "Ingestion failed", map[string]interface{}{"error": result.Error})
	}

	return result
}

func (s *chatService) EnqueueIngest(ctx context.Context, clearExisting bool) (string, error) {
	if s.publisherService == nil {
		return "", errors.New("ingestion queue not configured")
	}

	job := dto.IngestJobMessage{
		JobId:         watermill.NewUUID(),
		ClearExisting: clearExisting,
		RequestedAt:   timeNow(),
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return "", err
	}

	s.logger.Info("CHAT", "Ingestion job queued", map[string]interface{}{
		"job_id":         job.JobId,
		"clear_existing": clearExisting,
	})
	return job.JobId, nil
}
