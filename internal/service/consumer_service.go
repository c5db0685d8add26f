package service

import (
	"context"
	"encoding/json"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService runs queued ingestion jobs one at a time, in arrival order.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	chat       IChatService
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	chat IChatService,
	log logger.ILogger,
) IConsumerService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		chat:       chat,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job dto.IngestJobMessage
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error("INGEST", "Failed to unmarshal ingest job", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Retrying a payload that cannot be decoded never succeeds.
		msg.Ack()
		return
	}

	cs.logger.Info("INGEST", "Processing ingest job", map[string]interface{}{
		"job_id":         job.JobId,
		"clear_existing": job.ClearExisting,
	})

	result := cs.chat.Ingest(ctx, job.ClearExisting)

	cs.logger.Info("INGEST", "Ingest job finished", map[string]interface{}{
		"job_id":          job.JobId,
		"success":         result.Success,
		"files_processed": result.FilesProcessed,
		"documents_added": result.DocumentsAdded,
		"error":           result.Error,
	})

	// Failed runs are reported in the result and retried by an operator, not by
	// redelivery.
	msg.Ack()
}
