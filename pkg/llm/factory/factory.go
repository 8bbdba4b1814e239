package factory

import (
	"fmt"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/config"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm/gemini"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm/huggingface"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm/ollama"
)

// NewLLMProvider builds the chat backend selected by LLM_PROVIDER.
func NewLLMProvider(cfg config.AIConfig) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY is required for the gemini provider")
		}
		return gemini.NewGeminiProvider(cfg.GoogleAPIKey, cfg.GeminiChatModel, cfg.RequestTimeout), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.OllamaChatModel, cfg.RequestTimeout), nil
	case "huggingface":
		if cfg.HFAPIKey == "" {
			return nil, fmt.Errorf("HF_API_KEY is required for the huggingface provider")
		}
		return huggingface.NewHuggingFaceProvider(cfg.HFAPIKey, cfg.HFBaseURL, cfg.HFModel, cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}
