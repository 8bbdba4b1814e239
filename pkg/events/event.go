package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "INGEST_PROGRESS").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic form events take after crossing a broker,
// where only the subject and raw payload survive.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TopicIngestProgress is the in-process bus topic ingest publishes to.
const TopicIngestProgress = "ingest.progress"

// Ingest pipeline stages, in the order a document moves through them.
// StageCacheHit short-circuits the middle three.
const (
	StageReceived  = "received"
	StageExtracted = "extracted"
	StageChunked   = "chunked"
	StageEmbedded  = "embedded"
	StageIndexed   = "indexed"
	StageCacheHit  = "cache_hit"
	StageFailed    = "failed"
)

// IngestProgress reports one pipeline stage for one session's upload.
// Document is empty for stages that cover the whole batch (indexed,
// cache_hit).
type IngestProgress struct {
	SessionID  string    `json:"session_id"`
	Stage      string    `json:"stage"`
	Document   string    `json:"document,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewIngestProgress(sessionID, stage, document, detail string) IngestProgress {
	return IngestProgress{
		SessionID:  sessionID,
		Stage:      stage,
		Document:   document,
		Detail:     detail,
		OccurredAt: time.Now(),
	}
}

func (e IngestProgress) EventType() string {
	return "INGEST_PROGRESS"
}

func (e IngestProgress) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":  e.SessionID,
		"stage":       e.Stage,
		"document":    e.Document,
		"detail":      e.Detail,
		"occurred_at": e.OccurredAt,
	}
}

func (e IngestProgress) Timestamp() time.Time {
	return e.OccurredAt
}
