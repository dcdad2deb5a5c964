package service

import (
	"context"
	"encoding/json"

	"agri-assistant-be/internal/pkg/logger"
	"agri-assistant-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// DocumentNotifier pushes document-ready notifications to a session's
// connected UI clients.
type DocumentNotifier interface {
	PublishDocumentReady(sessionId, documentId, displayName string)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub   *gochannel.GoChannel
	notifier DocumentNotifier
	log      logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, notifier DocumentNotifier, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:   pubSub,
		notifier: notifier,
		log:      log,
	}
}

// Consume subscribes to ingestion events and fans them out to the session's
// websocket clients so the UI can show the grounding chip without polling.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, events.TopicDocumentIngested)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var evt events.DocumentIngested
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.log.Error("Consumer", "Failed to unmarshal ingestion event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Ack malformed messages, retrying cannot fix them.
		msg.Ack()
		return
	}

	cs.log.Info("Consumer", "Document ingested", map[string]interface{}{
		"session_id":  evt.SessionId,
		"document_id": evt.DocumentId,
		"filename":    evt.DisplayName,
	})

	if cs.notifier != nil {
		cs.notifier.PublishDocumentReady(evt.SessionId, evt.DocumentId, evt.DisplayName)
	}

	msg.Ack()
}
