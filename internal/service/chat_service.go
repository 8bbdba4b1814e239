package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/dto"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/rag"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/store"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"
)

// IChatService answers questions against a session's indexed documents
// and keeps the conversation transcript.
type IChatService interface {
	Ask(ctx context.Context, sessionId string, request *dto.AskRequest) (*dto.AskResponse, error)
	History(ctx context.Context, sessionId string) ([]*dto.TurnResponse, error)
	Clear(ctx context.Context, sessionId string) error
}

type chatService struct {
	sessionService ISessionService
	chain          *rag.Chain
}

func NewChatService(
	sessionService ISessionService,
	embeddingProvider embedding.Provider,
	llmProvider llm.Provider,
	indexStore vectorindex.Store,
	chainConfig rag.Config,
) IChatService {
	ragLogger := initRagLogger()
	retriever := rag.NewRetriever(embeddingProvider, indexStore)
	chain := rag.NewChain(retriever, llmProvider, chainConfig, ragLogger)

	return &chatService{
		sessionService: sessionService,
		chain:          chain,
	}
}

// initRagLogger writes retrieval diagnostics to their own file so chunk
// scores and prompt sizes don't flood the main log.
func initRagLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "rag_chain.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (s *chatService) Ask(ctx context.Context, sessionId string, request *dto.AskRequest) (*dto.AskResponse, error) {
	unlock := s.sessionService.Lock(sessionId)
	defer unlock()

	session, err := s.sessionService.Load(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	answer, err := s.chain.Ask(ctx, session.Fingerprint, request.Question, session.Turns)
	if err != nil {
		return nil, err
	}

	session.Turns = append(session.Turns, store.Turn{
		Question: request.Question,
		Answer:   answer.Text,
		Sources:  answer.Sources,
		AskedAt:  time.Now(),
	})
	if err := s.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}

	return &dto.AskResponse{
		Answer:  answer.Text,
		Sources: answer.Sources,
	}, nil
}

func (s *chatService) History(ctx context.Context, sessionId string) ([]*dto.TurnResponse, error) {
	unlock := s.sessionService.Lock(sessionId)
	defer unlock()

	session, err := s.sessionService.Load(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	history := make([]*dto.TurnResponse, len(session.Turns))
	for i, t := range session.Turns {
		history[i] = &dto.TurnResponse{
			Question: t.Question,
			Answer:   t.Answer,
			Sources:  t.Sources,
			AskedAt:  t.AskedAt,
		}
	}
	return history, nil
}

func (s *chatService) Clear(ctx context.Context, sessionId string) error {
	unlock := s.sessionService.Lock(sessionId)
	defer unlock()

	session, err := s.sessionService.Load(ctx, sessionId)
	if err != nil {
		return err
	}

	session.ResetConversation()
	return s.sessionService.Save(ctx, session)
}
