package bootstrap

import (
	"context"
	"log"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/controller"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/llm/factory"
	"ai-docchat-be/pkg/store"

	pktNats "ai-docchat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	SessionController  controller.ISessionController
	AdminController    controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	CleanupService  service.ICleanupService

	pubSub    *gochannel.GoChannel
	natsPub   *pktNats.Publisher
	rdb       *redis.Client
	sysLogger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := logger.NewIsolatedLogger("logs/llm_rag.log")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. In-Memory Session State
	documents := store.NewDocumentStore()
	activity := store.NewActivityTracker()

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis, second embedding cache level. Optional: empty URL disables it.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// 4. AI Providers
	// Embedding chain: the network provider sits behind the cache, the cache
	// behind the fallback. Chat never fails for lack of an embedding.
	var networkProvider embedding.Provider
	configured := true
	if cfg.Ai.Provider == "ollama" {
		networkProvider = embedding.NewOllamaProvider(cfg.Ai.BaseURL, cfg.Ai.EmbeddingModel, cfg.Ai.RequestTimeout)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		networkProvider = embedding.NewOpenAIProvider(cfg.Ai.APIKey, cfg.Ai.BaseURL, cfg.Ai.EmbeddingModel, cfg.Ai.RequestTimeout)
		configured = cfg.Ai.APIKey != ""
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}
	embeddingProvider := embedding.NewFallbackProvider(
		embedding.NewCacheProvider(networkProvider, rdb),
		configured,
	)

	llmProvider, err := factory.NewChatProvider(
		cfg.Ai.Provider,
		cfg.Ai.APIKey,
		cfg.Ai.BaseURL,
		cfg.Ai.ChatModel,
		cfg.Ai.StreamTimeout,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.ChatModel)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Ingest.TopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ingest.TopicName,
		documents,
		activity,
		embeddingProvider,
		natsPub,
		cfg.Ingest.ChunkSize,
		cfg.Ingest.ChunkOverlap,
	)

	documentService := service.NewDocumentService(documents, activity, publisherService, cfg.App.UploadDir)
	chatService := service.NewChatService(
		llmProvider,
		embeddingProvider,
		documents,
		activity,
		cfg.Ai,
		sysLogger,
		ragLogger,
	)
	cleanupService := service.NewCleanupService(
		documents,
		activity,
		natsPub,
		sysLogger,
		cfg.App.UploadDir,
		cfg.Cleanup.IdleThreshold,
	)

	// 6. Controllers
	return &Container{
		ChatController:     controller.NewChatController(chatService),
		DocumentController: controller.NewDocumentController(documentService),
		SessionController:  controller.NewSessionController(cleanupService),
		AdminController:    controller.NewAdminController(cleanupService, documents, activity, cfg.Ai.Provider),

		ConsumerService: consumerService,
		CleanupService:  cleanupService,

		pubSub:    pubSub,
		natsPub:   natsPub,
		rdb:       rdb,
		sysLogger: sysLogger,
	}
}

// Shutdown releases long-lived resources. Safe to call once at exit.
func (c *Container) Shutdown() {
	c.CleanupService.Stop()
	if err := c.pubSub.Close(); err != nil {
		log.Printf("[WARN] Failed to close message bus: %v", err)
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.sysLogger.Sync()
}
