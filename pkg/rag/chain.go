package rag

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/rag/prompt"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/store"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"
)

// ErrNoDocumentsIndexed means a question arrived before any PDF was
// ingested. The chain refuses to call the model in that state.
var ErrNoDocumentsIndexed = errors.New("no documents indexed for this conversation")

// excerptRunes bounds the source preview returned with each answer.
const excerptRunes = 300

// Config encapsulates generation parameters.
type Config struct {
	TopK          int
	HistoryWindow int
	Temperature   float64
}

// DefaultConfig returns the stock retrieval configuration.
func DefaultConfig() Config {
	return Config{
		TopK:          4,
		HistoryWindow: 10,
		Temperature:   0.3,
	}
}

// Answer is the model's reply plus the chunks it was grounded on.
type Answer struct {
	Text    string
	Sources []entity.SourceRef
}

// Chain runs one conversational retrieval round: embed the question,
// pull the closest chunks, fold in recent history, and ask the model.
type Chain struct {
	retriever   *Retriever
	llmProvider llm.Provider
	config      Config
	logger      *log.Logger
}

func NewChain(retriever *Retriever, llmProvider llm.Provider, config Config, logger *log.Logger) *Chain {
	if config.TopK <= 0 {
		config.TopK = DefaultConfig().TopK
	}
	if config.HistoryWindow <= 0 {
		config.HistoryWindow = DefaultConfig().HistoryWindow
	}
	return &Chain{
		retriever:   retriever,
		llmProvider: llmProvider,
		config:      config,
		logger:      logger,
	}
}

// Ask answers one question against the session's indexed documents.
// turns is the conversation so far, oldest first; the question is used
// verbatim for retrieval, with no history condensation step.
func (c *Chain) Ask(ctx context.Context, fingerprint string, question string, turns []store.Turn) (*Answer, error) {
	if fingerprint == "" {
		return nil, ErrNoDocumentsIndexed
	}

	// Fail before any upstream call when the index is missing.
	exists, err := c.retriever.HasIndex(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNoDocumentsIndexed
	}

	matches, err := c.retriever.Retrieve(ctx, fingerprint, question, c.config.TopK)
	if err != nil {
		if errors.Is(err, vectorindex.ErrNotFound) {
			return nil, ErrNoDocumentsIndexed
		}
		return nil, err
	}

	c.logger.Printf("[DEBUG] Retrieved %d chunks for fingerprint %s", len(matches), fingerprint)

	history := c.historyMessages(turns)
	promptText := prompt.NewContextualBuilder(matches, question).Build()
	fullHistory := append(history, llm.Message{Role: llm.RoleUser, Content: promptText})

	response, err := c.llmProvider.Chat(ctx, fullHistory, llm.WithTemperature(c.config.Temperature))
	if err != nil {
		c.logger.Printf("[ERROR] LLM generation failed: %v", err)
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	return &Answer{
		Text:    response,
		Sources: sourcesFromMatches(matches),
	}, nil
}

// historyMessages converts the most recent turns into alternating
// user/assistant messages, oldest first.
func (c *Chain) historyMessages(turns []store.Turn) []llm.Message {
	if len(turns) > c.config.HistoryWindow {
		turns = turns[len(turns)-c.config.HistoryWindow:]
	}

	messages := make([]llm.Message, 0, len(turns)*2)
	for _, t := range turns {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: t.Question})
		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: t.Answer})
	}
	return messages
}

func sourcesFromMatches(matches []vectorindex.Match) []entity.SourceRef {
	sources := make([]entity.SourceRef, len(matches))
	for i, m := range matches {
		sources[i] = entity.SourceRef{
			Document: m.Chunk.Document,
			Page:     m.Chunk.Page,
			Score:    m.Score,
			Excerpt:  excerpt(m.Chunk.Text, excerptRunes),
			Text:     m.Chunk.Text,
		}
	}
	return sources
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
