package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	mu       sync.Mutex
	received []events.IngestProgress
}

func (d *recordingDelivery) Send(_ string, progress events.IngestProgress) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.received = append(d.received, progress)
}

func (d *recordingDelivery) all() []events.IngestProgress {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.IngestProgress, len(d.received))
	copy(out, d.received)
	return out
}

func TestNotifierDeliversProgressToHub(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	delivery := &recordingDelivery{}
	notifier := NewNotifierService(pubSub, events.TopicIngestProgress, delivery, nil, noopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, notifier.Consume(ctx))

	publisher := NewPublisherService(events.TopicIngestProgress, pubSub)
	evt := events.NewIngestProgress("session-1", events.StageIndexed, "", "fp")
	payload, err := json.Marshal(evt)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))

	assert.Eventually(t, func() bool {
		received := delivery.all()
		return len(received) == 1 &&
			received[0].SessionID == "session-1" &&
			received[0].Stage == events.StageIndexed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotifierSkipsMalformedPayloads(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	delivery := &recordingDelivery{}
	notifier := NewNotifierService(pubSub, events.TopicIngestProgress, delivery, nil, noopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, notifier.Consume(ctx))

	publisher := NewPublisherService(events.TopicIngestProgress, pubSub)
	require.NoError(t, publisher.Publish(ctx, []byte("{not json")))

	good, err := json.Marshal(events.NewIngestProgress("session-2", events.StageReceived, "", ""))
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, good))

	// The bad frame is dropped (Acked) and the good one still arrives.
	assert.Eventually(t, func() bool {
		received := delivery.all()
		return len(received) == 1 && received[0].SessionID == "session-2"
	}, 2*time.Second, 10*time.Millisecond)
}
