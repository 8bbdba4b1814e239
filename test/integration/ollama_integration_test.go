package integration

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm"
	ollamallm "github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm/ollama"
)

// Live smoke tests for the local Ollama providers. They skip when no
// Ollama server is reachable so the suite stays green without one.

const ollamaTimeout = 120 * time.Second

func ollamaEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// requireOllama pings the server and skips the test when it is down.
func requireOllama(t *testing.T) string {
	t.Helper()
	base := ollamaEnv("OLLAMA_BASE_URL", "http://localhost:11434")

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Get(base)
	if err != nil {
		t.Skipf("Skipping: Ollama not running at %s: %v", base, err)
	}
	res.Body.Close()
	t.Logf("Ollama is running at %s (status: %d)", base, res.StatusCode)
	return base
}

func TestOllamaEmbedding(t *testing.T) {
	base := requireOllama(t)
	model := ollamaEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text")
	provider := embedding.NewOllamaProvider(base, model, ollamaTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), ollamaTimeout)
	defer cancel()

	vectors, err := provider.EmbedDocuments(ctx, []string{
		"The fingerprint cache keys indexes by document content.",
		"Cosine similarity ranks chunks against the question.",
	})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	require.NotEmpty(t, vectors[0])
	assert.Equal(t, len(vectors[0]), len(vectors[1]), "document vectors must share a dimension")

	query, err := provider.EmbedQuery(ctx, "how are chunks ranked?")
	require.NoError(t, err)
	assert.Equal(t, len(vectors[0]), len(query), "query vectors must match document dimensions")
}

func TestOllamaChat(t *testing.T) {
	base := requireOllama(t)
	model := ollamaEnv("OLLAMA_CHAT_MODEL", "llama3.1")
	provider := ollamallm.NewOllamaProvider(base, model, ollamaTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), ollamaTimeout)
	defer cancel()

	response, err := provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: "Say 'Ollama works!' in one short sentence."},
	}, llm.WithTemperature(0))
	require.NoError(t, err)
	t.Logf("Response: %s", response)
	assert.NotEmpty(t, response)
}

func TestOllamaMultiTurnConversation(t *testing.T) {
	base := requireOllama(t)
	model := ollamaEnv("OLLAMA_CHAT_MODEL", "llama3.1")
	provider := ollamallm.NewOllamaProvider(base, model, ollamaTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), ollamaTimeout)
	defer cancel()

	// The "model" role exercises the provider's role mapping; the chain
	// uses RoleAssistant, but Gemini-shaped history may carry "model".
	conversation := []llm.Message{
		{Role: llm.RoleUser, Content: "My name is John."},
		{Role: "model", Content: "Nice to meet you, John!"},
		{Role: llm.RoleUser, Content: "What is my name? Answer with just the name."},
	}

	response, err := provider.Chat(ctx, conversation, llm.WithTemperature(0))
	require.NoError(t, err)
	t.Logf("Response: %s", response)

	if !strings.Contains(response, "John") {
		t.Logf("Warning: response may not retain context: %s", response)
	}
}
