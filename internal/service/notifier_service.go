package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/pkg/logger"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/events"
	pktNats "github.com/deekshith1818/MULTI-PDF-RAG/pkg/nats"
)

// ProgressDelivery pushes a progress event to a session's live
// connections. Implemented by the websocket hub.
type ProgressDelivery interface {
	Send(sessionID string, progress events.IngestProgress)
}

// INotifierService bridges the in-process event bus to websocket
// clients, mirroring to NATS when configured.
type INotifierService interface {
	Consume(ctx context.Context) error
}

type notifierService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	delivery  ProgressDelivery
	mirror    *pktNats.Publisher // nil when NATS is not configured
	logger    logger.ILogger
}

func NewNotifierService(
	pubSub *gochannel.GoChannel,
	topicName string,
	delivery ProgressDelivery,
	mirror *pktNats.Publisher,
	sysLogger logger.ILogger,
) INotifierService {
	return &notifierService{
		pubSub:    pubSub,
		topicName: topicName,
		delivery:  delivery,
		mirror:    mirror,
		logger:    sysLogger,
	}
}

func (ns *notifierService) Consume(ctx context.Context) error {
	messages, err := ns.pubSub.Subscribe(ctx, ns.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ns.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ns *notifierService) processMessage(ctx context.Context, msg *message.Message) {
	var progress events.IngestProgress
	if err := json.Unmarshal(msg.Payload, &progress); err != nil {
		ns.logger.Error("NotifierService", "Failed to unmarshal progress event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads would loop forever on Nack
		return
	}

	ns.delivery.Send(progress.SessionID, progress)

	// The mirror is best-effort; a NATS outage must not block progress
	// frames to the browser.
	if ns.mirror != nil {
		if err := ns.mirror.Publish(ctx, progress); err != nil {
			ns.logger.Warn("NotifierService", "NATS mirror publish failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
