package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Pipeline PipelineConfig
	Ai       AIConfig
	Index    IndexConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type SessionConfig struct {
	Store      string // "memory" or "redis"
	TTLMinutes int
}

type PipelineConfig struct {
	ChunkSize     int
	ChunkOverlap  int
	TopK          int
	HistoryWindow int
}

type AIConfig struct {
	GoogleAPIKey      string
	EmbeddingProvider string // "gemini" or "ollama"
	GeminiEmbedModel  string
	GeminiChatModel   string
	OllamaBaseURL     string
	OllamaEmbedModel  string
	OllamaChatModel   string
	JinaAPIKey        string
	HFAPIKey          string
	HFBaseURL         string
	HFModel           string
	LLMProvider       string // "gemini", "ollama" or "huggingface"
	Temperature       float64
	RequestTimeout    time.Duration
}

type IndexConfig struct {
	Store    string // "file" or "postgres"
	CacheDir string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("SERVER_PORT", "8080"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8080"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", "dev-session-secret"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Session: SessionConfig{
			Store:      getEnv("SESSION_STORE", "memory"),
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
		Pipeline: PipelineConfig{
			ChunkSize:     getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:  getEnvAsInt("CHUNK_OVERLAP", 200),
			TopK:          getEnvAsInt("RETRIEVAL_TOP_K", 4),
			HistoryWindow: getEnvAsInt("HISTORY_WINDOW", 10),
		},
		Ai: AIConfig{
			GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			GeminiEmbedModel:  getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			GeminiChatModel:   getEnv("GEMINI_CHAT_MODEL", "gemini-2.5-flash"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OllamaChatModel:   getEnv("OLLAMA_CHAT_MODEL", "llama3.1"),
			JinaAPIKey:        getEnv("JINA_API_KEY", ""),
			HFAPIKey:          getEnv("HF_API_KEY", ""),
			HFBaseURL:         getEnv("HF_BASE_URL", ""),
			HFModel:           getEnv("HF_MODEL", "meta-llama/Llama-3.1-8B-Instruct"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			Temperature:       getEnvAsFloat("LLM_TEMPERATURE", 0.3),
			RequestTimeout:    time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
		},
		Index: IndexConfig{
			Store:    getEnv("VECTOR_STORE", "file"),
			CacheDir: getEnv("INDEX_CACHE_DIR", "data/index"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
