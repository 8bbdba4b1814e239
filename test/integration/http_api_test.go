package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/bootstrap"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/config"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/server"
)

// envelope mirrors the serverutils response shape for decoding.
type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeData(t *testing.T, res *http.Response, dst interface{}) envelope {
	t.Helper()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", string(body))
	if dst != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, dst))
	}
	return env
}

// testConfig builds a hermetic config: file-backed index in a temp dir,
// in-memory sessions, and the ollama providers so boot needs no API
// key. Nothing in this test ever reaches a model service.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        dir + "/app.log",
			CorsAllowedOrigins: "*",
			JWTSecret:          "integration-test-secret",
		},
		Session: config.SessionConfig{Store: "memory", TTLMinutes: 60},
		Pipeline: config.PipelineConfig{
			ChunkSize:     1000,
			ChunkOverlap:  200,
			TopK:          4,
			HistoryWindow: 10,
		},
		Ai: config.AIConfig{
			EmbeddingProvider: "ollama",
			LLMProvider:       "ollama",
			OllamaBaseURL:     "http://localhost:11434",
			OllamaChatModel:   "llama3.1",
			OllamaEmbedModel:  "nomic-embed-text",
			Temperature:       0.3,
			RequestTimeout:    5 * time.Second,
		},
		Index: config.IndexConfig{Store: "file", CacheDir: dir + "/index"},
	}
}

func TestSessionAndChatFlow(t *testing.T) {
	t.Chdir(t.TempDir()) // container and chat service write relative log paths

	cfg := testConfig(t)
	container := bootstrap.NewContainer(nil, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	// 1. Create a session.
	res, err := app.Test(httptest.NewRequest("POST", "/api/sessions/v1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var created struct {
		SessionId string `json:"session_id"`
		Token     string `json:"token"`
	}
	env := decodeData(t, res, &created)
	assert.Equal(t, "success", env.Status)
	require.NotEmpty(t, created.SessionId)
	require.NotEmpty(t, created.Token)

	authed := func(method, target string, body io.Reader) *http.Request {
		req := httptest.NewRequest(method, target, body)
		req.Header.Set("Authorization", "Bearer "+created.Token)
		return req
	}

	// 2. Snapshot requires the token.
	res, err = app.Test(httptest.NewRequest("GET", "/api/sessions/v1/me", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, err = app.Test(authed("GET", "/api/sessions/v1/me", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var snapshot struct {
		SessionId string `json:"session_id"`
		TurnCount int    `json:"turn_count"`
	}
	decodeData(t, res, &snapshot)
	assert.Equal(t, created.SessionId, snapshot.SessionId)
	assert.Equal(t, 0, snapshot.TurnCount)

	// 3. Garbage tokens are rejected, valid ones pass via query param too.
	req := httptest.NewRequest("GET", "/api/sessions/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/api/sessions/v1/me?token="+created.Token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// 4. Asking before any upload is a conflict, never a model call.
	ask := strings.NewReader(`{"question":"what is this about?"}`)
	req = authed("POST", "/api/chat/v1", ask)
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	env = decodeData(t, res, nil)
	assert.Equal(t, "error", env.Status)

	// 5. Upload validation: no files, then a file that is not a PDF.
	req = authed("POST", "/api/documents/v1", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("documents", "not-a-pdf.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text pretending to be a pdf"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req = authed("POST", "/api/documents/v1", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// 6. An empty question fails validation before reaching the service.
	req = authed("POST", "/api/chat/v1", strings.NewReader(`{"question":""}`))
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// 7. History is empty and clearable.
	res, err = app.Test(authed("GET", "/api/chat/v1/history", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	var turns []json.RawMessage
	decodeData(t, res, &turns)
	assert.Empty(t, turns)

	res, err = app.Test(authed("DELETE", "/api/chat/v1/history", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// 8. Liveness endpoint needs no token.
	res, err = app.Test(httptest.NewRequest("GET", "/healthz", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
