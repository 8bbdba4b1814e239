package store

import (
	"time"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
)

// Turn is one question/answer exchange in a conversation.
type Turn struct {
	Question string             `json:"question"`
	Answer   string             `json:"answer"`
	Sources  []entity.SourceRef `json:"sources,omitempty"`
	AskedAt  time.Time          `json:"asked_at"`
}

// Session is the per-user conversation state. Everything an operation
// needs travels on this object; there are no package-level globals for
// the "current" index or conversation.
type Session struct {
	ID          string            `json:"id"`
	Fingerprint string            `json:"fingerprint"`
	Documents   []entity.Document `json:"documents"`
	Turns       []Turn            `json:"turns"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// HasIndex reports whether any document set has been ingested for this
// session.
func (s *Session) HasIndex() bool {
	return s.Fingerprint != ""
}

// ResetConversation drops all turns. Called on explicit clear and when
// an upload changes the session fingerprint.
func (s *Session) ResetConversation() {
	s.Turns = nil
}
