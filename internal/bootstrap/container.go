package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/config"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/controller"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/handler"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/pkg/logger"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/contract"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/memory"
	redisrepo "github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/redis"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/unitofwork"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/service"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/websocket"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding/jina"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/events"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm/factory"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/pdf"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/rag"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/textsplit"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex/filestore"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex/pgstore"

	pktNats "github.com/deekshith1818/MULTI-PDF-RAG/pkg/nats"
)

type Container struct {
	// Controllers
	SessionController  controller.ISessionController
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController

	// Background Services (Exposed for main.go to run)
	NotifierService service.INotifierService

	// WebSockets & Progress
	ProgressHandler *handler.ProgressHandler
	WebSocketHub    *websocket.Hub

	// Shared Facades
	Logger logger.ILogger
}

// NewContainer wires the full ingest/chat pipeline. db may be nil when
// the file-backed vector store is selected.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS mirror (optional): external consumers can tail ingest events.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = pub
		}
	}

	// Redis (optional): cross-instance progress fan-out and the redis
	// session store. Without it everything degrades to single-instance.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		client := redis.NewClient(opt)
		if _, err := client.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Progress delivery stays local", err)
		} else {
			rdb = client
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Providers
	// Embedding Provider based on Config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
			cfg.Ai.RequestTimeout,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaAPIKey, cfg.Ai.RequestTimeout)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(
			cfg.Ai.GoogleAPIKey,
			cfg.Ai.GeminiEmbedModel,
			cfg.Ai.RequestTimeout,
		)
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.GeminiEmbedModel)
	}

	// LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(cfg.Ai)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s", cfg.Ai.LLMProvider)

	// Vector Index Store based on Config
	var indexStore vectorindex.Store
	if cfg.Index.Store == "postgres" {
		if db == nil {
			log.Fatalf("[FATAL] VECTOR_STORE=postgres requires DB_CONNECTION_STRING")
		}
		uowFactory := unitofwork.NewRepositoryFactory(db)
		indexStore = pgstore.NewStore(uowFactory)
		log.Printf("[INFO] Using Vector Store: POSTGRES (pgvector)")
	} else {
		fileStore, err := filestore.NewStore(cfg.Index.CacheDir)
		if err != nil {
			log.Fatalf("[FATAL] Failed to open index cache dir %s: %v", cfg.Index.CacheDir, err)
		}
		indexStore = fileStore
		log.Printf("[INFO] Using Vector Store: FILE (%s)", cfg.Index.CacheDir)
	}

	// Session Storage based on Config
	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	var sessionRepo contract.SessionRepository
	if cfg.Session.Store == "redis" && rdb != nil {
		sessionRepo = redisrepo.NewSessionRepository(rdb, sessionTTL)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		if cfg.Session.Store == "redis" {
			log.Printf("[WARN] Redis session store requested but Redis is unavailable, falling back to memory")
		}
		sessionRepo = memory.NewSessionRepository(sessionTTL)
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// 4. Services
	publisherService := service.NewPublisherService(events.TopicIngestProgress, pubSub)
	sessionService := service.NewSessionService(sessionRepo, cfg.App.JWTSecret, sessionTTL)

	ingestService := service.NewIngestService(
		sessionService,
		pdf.NewExtractor(),
		textsplit.New(cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap),
		embeddingProvider, // Injected
		indexStore,        // Injected
		publisherService,
		sysLogger,
	)

	chatService := service.NewChatService(
		sessionService,
		embeddingProvider, // Injected
		llmProvider,       // Injected
		indexStore,
		rag.Config{
			TopK:          cfg.Pipeline.TopK,
			HistoryWindow: cfg.Pipeline.HistoryWindow,
			Temperature:   cfg.Ai.Temperature,
		},
	)

	notifierService := service.NewNotifierService(
		pubSub,
		events.TopicIngestProgress,
		wsHub, // Hub implements ProgressDelivery
		natsPub,
		wsLogger,
	)

	// Handler
	progressHandler := handler.NewProgressHandler(wsHub, cfg.App.JWTSecret)

	// 5. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		ProgressHandler:    progressHandler,
		WebSocketHub:       wsHub,
		SessionController:  controller.NewSessionController(sessionService),
		DocumentController: controller.NewDocumentController(ingestService),
		ChatController:     controller.NewChatController(chatService),

		NotifierService: notifierService,

		Logger: sysLogger,
	}
}
