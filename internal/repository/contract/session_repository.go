package contract

import (
	"context"
	"errors"

	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/store"
)

// ErrSessionNotFound is returned by Get when the session has expired or
// never existed.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository holds conversation state for the lifetime of a user
// session. Backed by an in-process cache by default, Redis optionally.
type SessionRepository interface {
	Save(ctx context.Context, session *store.Session) error
	Get(ctx context.Context, sessionID string) (*store.Session, error)
	Delete(ctx context.Context, sessionID string) error
}
