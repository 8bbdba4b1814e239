package service

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/dto"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/contract"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/store"
)

// ISessionService owns conversation sessions: creation with a signed
// token, snapshots for the UI, and load/save plus per-session locking
// for the ingest and chat services.
type ISessionService interface {
	Create(ctx context.Context) (*dto.CreateSessionResponse, error)
	Snapshot(ctx context.Context, sessionId string) (*dto.SessionSnapshotResponse, error)
	Load(ctx context.Context, sessionId string) (*store.Session, error)
	Save(ctx context.Context, session *store.Session) error
	// Lock serializes operations on one session; the returned func
	// releases it. Distinct sessions proceed concurrently.
	Lock(sessionId string) func()
}

type sessionService struct {
	sessionRepo contract.SessionRepository
	jwtSecret   string
	tokenTTL    time.Duration

	// One mutex per live session. Entries are tiny and sessions are
	// capped by the repo TTL, so the map is never pruned.
	locks sync.Map
}

func NewSessionService(sessionRepo contract.SessionRepository, jwtSecret string, tokenTTL time.Duration) ISessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

func (s *sessionService) Create(ctx context.Context) (*dto.CreateSessionResponse, error) {
	now := time.Now()
	session := &store.Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{
		"session_id": session.ID,
		"exp":        now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		SessionId: session.ID,
		Token:     signedToken,
	}, nil
}

func (s *sessionService) Snapshot(ctx context.Context, sessionId string) (*dto.SessionSnapshotResponse, error) {
	session, err := s.sessionRepo.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	documents := make([]dto.DocumentReport, len(session.Documents))
	for i, d := range session.Documents {
		documents[i] = dto.DocumentReport{
			Name:  d.Name,
			Pages: d.Pages,
		}
	}

	return &dto.SessionSnapshotResponse{
		SessionId:   session.ID,
		Fingerprint: session.Fingerprint,
		Documents:   documents,
		TurnCount:   len(session.Turns),
		CreatedAt:   session.CreatedAt,
	}, nil
}

func (s *sessionService) Load(ctx context.Context, sessionId string) (*store.Session, error) {
	return s.sessionRepo.Get(ctx, sessionId)
}

func (s *sessionService) Save(ctx context.Context, session *store.Session) error {
	session.UpdatedAt = time.Now()
	return s.sessionRepo.Save(ctx, session)
}

func (s *sessionService) Lock(sessionId string) func() {
	value, _ := s.locks.LoadOrStore(sessionId, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
