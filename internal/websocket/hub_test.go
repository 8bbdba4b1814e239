package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/pkg/logger"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/events"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

var _ logger.ILogger = noopLogger{}

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		Hub:       hub,
		SessionID: sessionID,
		Send:      make(chan []byte, 8),
	}
}

func TestHubDeliversToRightSession(t *testing.T) {
	hub := NewHub(nil, noopLogger{})
	go hub.Run()

	alice := newTestClient(hub, "session-alice")
	bob := newTestClient(hub, "session-bob")
	hub.register <- alice
	hub.register <- bob

	progress := events.NewIngestProgress("session-alice", events.StageIndexed, "", "abc123")

	// Registration lands asynchronously, so retry until the frame arrives.
	var frame []byte
	require.Eventually(t, func() bool {
		hub.Send("session-alice", progress)
		select {
		case frame = <-alice.Send:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	var decoded struct {
		Type string                `json:"type"`
		Data events.IngestProgress `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &decoded))
	assert.Equal(t, "ingest_progress", decoded.Type)
	assert.Equal(t, "session-alice", decoded.Data.SessionID)
	assert.Equal(t, events.StageIndexed, decoded.Data.Stage)

	select {
	case data := <-bob.Send:
		t.Fatalf("frame for session-alice delivered to session-bob: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFansOutToAllTabsOfSession(t *testing.T) {
	hub := NewHub(nil, noopLogger{})
	go hub.Run()

	tab1 := newTestClient(hub, "session-1")
	tab2 := newTestClient(hub, "session-1")
	hub.register <- tab1
	hub.register <- tab2

	progress := events.NewIngestProgress("session-1", events.StageReceived, "report.pdf", "")

	require.Eventually(t, func() bool {
		hub.Send("session-1", progress)
		return len(tab1.Send) > 0 && len(tab2.Send) > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub(nil, noopLogger{})
	go hub.Run()

	client := newTestClient(hub, "session-1")
	hub.register <- client
	hub.unregister <- client

	require.Eventually(t, func() bool {
		select {
		case _, open := <-client.Send:
			return !open
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	// A send after unregister must not panic or block.
	hub.Send("session-1", events.NewIngestProgress("session-1", events.StageFailed, "x.pdf", "gone"))
}
