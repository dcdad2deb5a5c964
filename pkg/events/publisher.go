package events

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Publisher pushes domain events onto the in-process bus.
type Publisher struct {
	pubSub *gochannel.GoChannel
}

func NewPublisher(pubSub *gochannel.GoChannel) *Publisher {
	return &Publisher{pubSub: pubSub}
}

// PublishDocumentIngested emits a DOCUMENT_INGESTED event. Publishing is
// best-effort from the caller's perspective; a failed publish must never
// fail the ingestion itself.
func (p *Publisher) PublishDocumentIngested(evt DocumentIngested) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pubSub.Publish(TopicDocumentIngested, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicDocumentIngested, err)
	}
	return nil
}
