package rag

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/store"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory vectorindex.Store for chain tests.
type memStore struct {
	indexes   map[string]*vectorindex.Index
	manifests map[string]vectorindex.Manifest
}

func newMemStore() *memStore {
	return &memStore{
		indexes:   make(map[string]*vectorindex.Index),
		manifests: make(map[string]vectorindex.Manifest),
	}
}

func (s *memStore) Has(_ context.Context, fingerprint string) (bool, error) {
	_, ok := s.indexes[fingerprint]
	return ok, nil
}

func (s *memStore) Build(_ context.Context, manifest vectorindex.Manifest, chunks []entity.Chunk, vectors [][]float32) error {
	idx := vectorindex.NewIndex()
	for i := range chunks {
		if err := idx.Add(chunks[i], vectors[i]); err != nil {
			return err
		}
	}
	s.indexes[manifest.Fingerprint] = idx
	s.manifests[manifest.Fingerprint] = manifest
	return nil
}

func (s *memStore) Search(_ context.Context, fingerprint string, vector []float32, topK int) ([]vectorindex.Match, error) {
	idx, ok := s.indexes[fingerprint]
	if !ok {
		return nil, vectorindex.ErrNotFound
	}
	return idx.Search(vector, topK), nil
}

func (s *memStore) Manifest(_ context.Context, fingerprint string) (*vectorindex.Manifest, error) {
	m, ok := s.manifests[fingerprint]
	if !ok {
		return nil, vectorindex.ErrNotFound
	}
	return &m, nil
}

// fakeEmbedder returns a fixed query vector and counts calls.
type fakeEmbedder struct {
	queryVector []float32
	queryCalls  int
	docCalls    int
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	f.docCalls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.queryVector
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	f.queryCalls++
	return f.queryVector, nil
}

// fakeLLM records the history it was handed and replies from a script.
type fakeLLM struct {
	reply    string
	err      error
	calls    int
	messages []llm.Message
	opts     llm.Options
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	f.messages = history
	for _, o := range options {
		o(&f.opts)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func seedParisIndex(t *testing.T, s vectorindex.Store) {
	t.Helper()
	chunks := []entity.Chunk{
		{Text: "The capital of France is Paris.", Document: "europe.pdf", Page: 3, Seq: 0},
		{Text: "Berlin is the capital of Germany.", Document: "europe.pdf", Page: 7, Seq: 1},
	}
	vectors := [][]float32{{1, 0}, {0, 1}}
	manifest := vectorindex.Manifest{Fingerprint: "fp-europe"}
	require.NoError(t, s.Build(context.Background(), manifest, chunks, vectors))
}

func TestAskWithoutIndexFailsBeforeUpstreamCalls(t *testing.T) {
	embedder := &fakeEmbedder{queryVector: []float32{1, 0}}
	model := &fakeLLM{reply: "should never run"}
	chain := NewChain(NewRetriever(embedder, newMemStore()), model, DefaultConfig(), discardLogger())

	for _, fingerprint := range []string{"", "deadbeef"} {
		_, err := chain.Ask(context.Background(), fingerprint, "What is the capital of France?", nil)
		assert.ErrorIs(t, err, ErrNoDocumentsIndexed)
	}

	assert.Zero(t, embedder.queryCalls, "no embedding call may happen without an index")
	assert.Zero(t, model.calls, "no LLM call may happen without an index")
}

func TestAskAnswersFromIndexedChunks(t *testing.T) {
	memory := newMemStore()
	seedParisIndex(t, memory)

	embedder := &fakeEmbedder{queryVector: []float32{1, 0}}
	model := &fakeLLM{reply: "Paris is the capital of France."}
	chain := NewChain(NewRetriever(embedder, memory), model, DefaultConfig(), discardLogger())

	answer, err := chain.Ask(context.Background(), "fp-europe", "What is the capital of France?", nil)
	require.NoError(t, err)

	assert.Equal(t, "Paris is the capital of France.", answer.Text)
	assert.Equal(t, 1, model.calls)
	assert.InDelta(t, 0.3, model.opts.Temperature, 1e-9)

	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "europe.pdf", answer.Sources[0].Document)
	assert.Equal(t, 3, answer.Sources[0].Page)
	assert.Contains(t, answer.Sources[0].Excerpt, "Paris")
	assert.GreaterOrEqual(t, answer.Sources[0].Score, answer.Sources[1].Score)
}

func TestHistoryIncludedBeforeGroundedPrompt(t *testing.T) {
	memory := newMemStore()
	seedParisIndex(t, memory)

	embedder := &fakeEmbedder{queryVector: []float32{1, 0}}
	model := &fakeLLM{reply: "It borders Spain, among others."}
	chain := NewChain(NewRetriever(embedder, memory), model, DefaultConfig(), discardLogger())

	turns := []store.Turn{
		{Question: "What is the capital of France?", Answer: "Paris.", AskedAt: time.Now()},
		{Question: "How many pages is the document?", Answer: "Twelve.", AskedAt: time.Now()},
	}

	_, err := chain.Ask(context.Background(), "fp-europe", "Which countries border it?", turns)
	require.NoError(t, err)

	require.Len(t, model.messages, 5, "two turns plus the grounded prompt")
	assert.Equal(t, llm.RoleUser, model.messages[0].Role)
	assert.Equal(t, "What is the capital of France?", model.messages[0].Content)
	assert.Equal(t, llm.RoleAssistant, model.messages[1].Role)
	assert.Equal(t, "Paris.", model.messages[1].Content)
	assert.Equal(t, llm.RoleAssistant, model.messages[3].Role)

	final := model.messages[4]
	assert.Equal(t, llm.RoleUser, final.Role)
	assert.Contains(t, final.Content, "<user_question>")
	assert.Contains(t, final.Content, "Which countries border it?")
	assert.Contains(t, final.Content, "The capital of France is Paris.")
	assert.Contains(t, final.Content, "europe.pdf (page 3)")
}

func TestHistoryWindowKeepsRecentTurns(t *testing.T) {
	memory := newMemStore()
	seedParisIndex(t, memory)

	embedder := &fakeEmbedder{queryVector: []float32{1, 0}}
	model := &fakeLLM{reply: "ok"}
	config := Config{TopK: 4, HistoryWindow: 10, Temperature: 0.3}
	chain := NewChain(NewRetriever(embedder, memory), model, config, discardLogger())

	turns := make([]store.Turn, 12)
	for i := range turns {
		turns[i] = store.Turn{Question: "question " + string(rune('a'+i)), Answer: "answer"}
	}

	_, err := chain.Ask(context.Background(), "fp-europe", "latest?", turns)
	require.NoError(t, err)

	// 10 retained turns * 2 messages + the grounded prompt.
	require.Len(t, model.messages, 21)
	assert.Equal(t, "question c", model.messages[0].Content, "oldest two turns fall out of the window")
}

func TestLongSourceTextGetsTruncatedExcerpt(t *testing.T) {
	memory := newMemStore()
	long := strings.Repeat("reimbursement policy §4.2 applies. ", 20)
	chunks := []entity.Chunk{{Text: long, Document: "policy.pdf", Page: 1, Seq: 0}}
	require.NoError(t, memory.Build(context.Background(),
		vectorindex.Manifest{Fingerprint: "fp-policy"}, chunks, [][]float32{{1, 0}}))

	embedder := &fakeEmbedder{queryVector: []float32{1, 0}}
	model := &fakeLLM{reply: "ok"}
	chain := NewChain(NewRetriever(embedder, memory), model, DefaultConfig(), discardLogger())

	answer, err := chain.Ask(context.Background(), "fp-policy", "what applies?", nil)
	require.NoError(t, err)

	require.Len(t, answer.Sources, 1)
	assert.Len(t, []rune(answer.Sources[0].Excerpt), 300)
	assert.Equal(t, long, answer.Sources[0].Text, "full text stays available alongside the excerpt")
}

func TestLLMFailureSurfaces(t *testing.T) {
	memory := newMemStore()
	seedParisIndex(t, memory)

	upstream := errors.New("model overloaded")
	embedder := &fakeEmbedder{queryVector: []float32{1, 0}}
	chain := NewChain(NewRetriever(embedder, memory), &fakeLLM{err: upstream}, DefaultConfig(), discardLogger())

	_, err := chain.Ask(context.Background(), "fp-europe", "anything", nil)
	assert.ErrorIs(t, err, upstream)
}
