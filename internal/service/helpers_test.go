package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/pkg/logger"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/memory"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/pdf"
)

// fakeExtractor treats the upload bytes as plain UTF-8 text with form
// feeds as page breaks, so tests don't need real PDF fixtures.
type fakeExtractor struct{}

func (fakeExtractor) Extract(raw []byte) ([]entity.PageText, error) {
	text := string(raw)
	if strings.HasPrefix(text, "!invalid") {
		return nil, pdf.ErrInvalidPDF
	}
	if strings.TrimSpace(text) == "" {
		return nil, pdf.ErrNoText
	}

	var pages []entity.PageText
	for i, pageText := range strings.Split(text, "\f") {
		pages = append(pages, entity.PageText{Page: i + 1, Text: pageText})
	}
	return pages, nil
}

// axisEmbedder maps Paris-flavored text onto one axis and everything
// else onto the other, and counts document embedding calls.
type axisEmbedder struct {
	mu       sync.Mutex
	docCalls int
}

func vectorFor(text string) []float32 {
	if strings.Contains(text, "Paris") {
		return []float32{1, 0}
	}
	return []float32{0, 1}
}

func (f *axisEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.docCalls++
	f.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = vectorFor(t)
	}
	return out, nil
}

func (f *axisEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return vectorFor(text), nil
}

func (f *axisEmbedder) documentCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docCalls
}

// scriptedLLM returns a fixed reply and records each history it saw.
type scriptedLLM struct {
	mu        sync.Mutex
	reply     string
	histories [][]llm.Message
}

func (f *scriptedLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := make([]llm.Message, len(history))
	copy(copied, history)
	f.histories = append(f.histories, copied)
	return f.reply, nil
}

func (f *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func (f *scriptedLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.histories)
}

func (f *scriptedLLM) lastHistory() []llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.histories) == 0 {
		return nil
	}
	return f.histories[len(f.histories)-1]
}

// recordingPublisher captures progress payloads in-process.
type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *recordingPublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *recordingPublisher) published() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.payloads))
	copy(out, p.payloads)
	return out
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

var _ logger.ILogger = noopLogger{}

func newTestSessionService() ISessionService {
	repo := memory.NewSessionRepository(time.Hour)
	return NewSessionService(repo, "test-secret", time.Hour)
}
