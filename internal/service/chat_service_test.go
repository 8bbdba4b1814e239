package service

import (
	"context"
	"testing"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/dto"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/rag"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/textsplit"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex/filestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatHarness struct {
	chat     IChatService
	ingest   IIngestService
	sessions ISessionService
	model    *scriptedLLM
}

func newChatHarness(t *testing.T) *chatHarness {
	t.Helper()

	indexStore, err := filestore.NewStore(t.TempDir())
	require.NoError(t, err)

	sessions := newTestSessionService()
	embedder := &axisEmbedder{}
	model := &scriptedLLM{reply: "Paris is the capital of France."}

	ingest := NewIngestService(
		sessions,
		fakeExtractor{},
		textsplit.New(1000, 200),
		embedder,
		indexStore,
		&recordingPublisher{},
		noopLogger{},
	)
	chat := NewChatService(sessions, embedder, model, indexStore, rag.DefaultConfig())

	return &chatHarness{
		chat:     chat,
		ingest:   ingest,
		sessions: sessions,
		model:    model,
	}
}

func (h *chatHarness) newSessionWithDocuments(t *testing.T) string {
	t.Helper()
	created, err := h.sessions.Create(context.Background())
	require.NoError(t, err)
	_, err = h.ingest.Ingest(context.Background(), created.SessionId, []dto.UploadedFile{parisUpload, berlinUpload})
	require.NoError(t, err)
	return created.SessionId
}

func TestAskAnswersAndAppendsTurn(t *testing.T) {
	h := newChatHarness(t)
	sessionId := h.newSessionWithDocuments(t)
	ctx := context.Background()

	response, err := h.chat.Ask(ctx, sessionId, &dto.AskRequest{Question: "What is the capital of France?"})
	require.NoError(t, err)

	assert.Equal(t, "Paris is the capital of France.", response.Answer)
	require.NotEmpty(t, response.Sources)
	assert.Equal(t, "europe.pdf", response.Sources[0].Document)
	assert.Equal(t, 1, response.Sources[0].Page)
	assert.Contains(t, response.Sources[0].Excerpt, "Paris")

	history, err := h.chat.History(ctx, sessionId)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "What is the capital of France?", history[0].Question)
	assert.Equal(t, response.Answer, history[0].Answer)
	assert.NotEmpty(t, history[0].Sources)
}

func TestAskCarriesHistoryIntoFollowUps(t *testing.T) {
	h := newChatHarness(t)
	sessionId := h.newSessionWithDocuments(t)
	ctx := context.Background()

	_, err := h.chat.Ask(ctx, sessionId, &dto.AskRequest{Question: "What is the capital of France?"})
	require.NoError(t, err)

	_, err = h.chat.Ask(ctx, sessionId, &dto.AskRequest{Question: "How many residents does it have?"})
	require.NoError(t, err)

	require.Equal(t, 2, h.model.calls())
	second := h.model.lastHistory()
	// One full prior turn plus the grounded prompt.
	require.Len(t, second, 3)
	assert.Equal(t, "What is the capital of France?", second[0].Content)
	assert.Equal(t, "Paris is the capital of France.", second[1].Content)
	assert.Contains(t, second[2].Content, "How many residents does it have?")
}

func TestAskWithoutDocumentsRefusesBeforeLLM(t *testing.T) {
	h := newChatHarness(t)
	created, err := h.sessions.Create(context.Background())
	require.NoError(t, err)

	_, err = h.chat.Ask(context.Background(), created.SessionId, &dto.AskRequest{Question: "anything"})
	assert.ErrorIs(t, err, rag.ErrNoDocumentsIndexed)
	assert.Zero(t, h.model.calls())
}

func TestAskUnknownSessionFails(t *testing.T) {
	h := newChatHarness(t)

	_, err := h.chat.Ask(context.Background(), "missing", &dto.AskRequest{Question: "anything"})
	assert.Error(t, err)
	assert.Zero(t, h.model.calls())
}

func TestClearDropsConversationButKeepsIndex(t *testing.T) {
	h := newChatHarness(t)
	sessionId := h.newSessionWithDocuments(t)
	ctx := context.Background()

	_, err := h.chat.Ask(ctx, sessionId, &dto.AskRequest{Question: "What is the capital of France?"})
	require.NoError(t, err)

	require.NoError(t, h.chat.Clear(ctx, sessionId))

	history, err := h.chat.History(ctx, sessionId)
	require.NoError(t, err)
	assert.Empty(t, history)

	// The index survives a cleared conversation; asking again works
	// with fresh history.
	response, err := h.chat.Ask(ctx, sessionId, &dto.AskRequest{Question: "What is the capital of France?"})
	require.NoError(t, err)
	assert.NotEmpty(t, response.Answer)
	finalHistory := h.model.lastHistory()
	assert.Len(t, finalHistory, 1, "cleared conversations start with no prior turns")
}
