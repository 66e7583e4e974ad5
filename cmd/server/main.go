// Package main is the entry point for the SupportHub Conversation Service.
// @title SupportHub Conversation Service API
// @version 1.0
// @description Conversational state management for customer support assistants: sessions, context compaction, intent classification and guided flows
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/supporthub/conversation-service
// @contact.email support@supporthub.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Static API key sent as a bearer token
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/supporthub/conversation-service/docs"
	"github.com/supporthub/conversation-service/internal/api/handlers"
	"github.com/supporthub/conversation-service/internal/api/middleware"
	"github.com/supporthub/conversation-service/internal/api/routes"
	"github.com/supporthub/conversation-service/internal/config"
	"github.com/supporthub/conversation-service/internal/core/knowledge"
	"github.com/supporthub/conversation-service/internal/core/store"
	memknowledge "github.com/supporthub/conversation-service/internal/infrastructure/knowledge/memory"
	mongoknowledge "github.com/supporthub/conversation-service/internal/infrastructure/knowledge/mongodb"
	pgknowledge "github.com/supporthub/conversation-service/internal/infrastructure/knowledge/postgres"
	memstore "github.com/supporthub/conversation-service/internal/infrastructure/store/memory"
	redisstore "github.com/supporthub/conversation-service/internal/infrastructure/store/redis"
	"github.com/supporthub/conversation-service/internal/pkg/encryption"
	"github.com/supporthub/conversation-service/internal/services/classifier"
	"github.com/supporthub/conversation-service/internal/services/conversation"
	"github.com/supporthub/conversation-service/internal/services/flows"
	"github.com/supporthub/conversation-service/internal/services/responder"
	"github.com/supporthub/conversation-service/internal/services/sweeper"
	"github.com/supporthub/conversation-service/internal/services/triggers"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	setupLogging(cfg.Log)

	ctx := context.Background()

	// Initialize session store using factory pattern
	sessionStore, err := createStore(cfg.Store)
	if err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}
	defer sessionStore.Close()

	// Initialize knowledge provider using factory pattern
	knowledgeProvider, err := createKnowledgeProvider(ctx, cfg.Knowledge)
	if err != nil {
		log.Fatalf("failed to initialize knowledge provider: %v", err)
	}
	defer knowledgeProvider.Close(ctx)

	// Initialize conversation manager
	manager, err := conversation.NewManager(&conversation.Config{
		Store:                sessionStore,
		CompressionThreshold: cfg.Conversation.CompressionThreshold,
		MaxMessages:          cfg.Conversation.MaxMessages,
		Retention:            cfg.Conversation.Retention,
		PreserveThreshold:    cfg.Conversation.PreserveThreshold,
		PreserveRecent:       cfg.Conversation.PreserveRecent,
	})
	if err != nil {
		log.Fatalf("failed to initialize conversation manager: %v", err)
	}

	// Initialize intent classifier
	intentClassifier := classifier.New()

	// Initialize flow orchestrator
	orchestrator, err := flows.NewOrchestrator(&flows.Config{
		Store:         sessionStore,
		Manager:       manager,
		MaxEscalation: cfg.Flows.MaxEscalation,
	})
	if err != nil {
		log.Fatalf("failed to initialize flow orchestrator: %v", err)
	}

	// Initialize trigger detector
	detector, err := triggers.NewDetector(&triggers.Config{
		Orchestrator: orchestrator,
	})
	if err != nil {
		log.Fatalf("failed to initialize trigger detector: %v", err)
	}

	// Initialize responder
	replyResponder, err := responder.NewResponder(&responder.Config{
		Store:      sessionStore,
		Manager:    manager,
		Classifier: intentClassifier,
		Detector:   detector,
		Knowledge:  knowledgeProvider,
		Completer:  createCompleter(cfg.Responder),
	})
	if err != nil {
		log.Fatalf("failed to initialize responder: %v", err)
	}

	// Start background session sweeper
	if cfg.Sweep.Enabled {
		sweep, err := sweeper.New(&sweeper.Config{
			Store:    sessionStore,
			Manager:  manager,
			Interval: cfg.Sweep.Interval,
			MaxIdle:  cfg.Sweep.MaxIdle,
		})
		if err != nil {
			log.Fatalf("failed to initialize session sweeper: %v", err)
		}
		sweep.Start()
		defer sweep.Stop()
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(cfg, sessionStore, knowledgeProvider, manager, orchestrator, replyResponder)

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// setupLogging applies the configured global log level and output format.
func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// createStore creates a session store based on the configuration.
func createStore(cfg config.StoreConfig) (store.Store, error) {
	storeType := store.Type(cfg.Type)

	switch storeType {
	case store.TypeMemory:
		var opts []memstore.Option
		if cfg.MaxSessions > 0 {
			opts = append(opts, memstore.WithMaxSessions(cfg.MaxSessions))
		}
		return memstore.New(opts...), nil
	case store.TypeRedis:
		encryptor, err := createEncryptor(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		return redisstore.New(redisstore.Config{
			Host:       cfg.RedisHost,
			Port:       cfg.RedisPort,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			SessionTTL: cfg.SessionTTL,
		}, redisstore.WithEncryptor(encryptor))
	default:
		log.Fatalf("unsupported store type: %s", cfg.Type)
		return nil, nil
	}
}

// createKnowledgeProvider creates a knowledge provider based on the configuration.
func createKnowledgeProvider(ctx context.Context, cfg config.KnowledgeConfig) (knowledge.Provider, error) {
	knowledgeType := knowledge.Type(cfg.Type)

	switch knowledgeType {
	case knowledge.TypeMemory:
		if cfg.SeedFile != "" {
			return memknowledge.NewFromFile(cfg.SeedFile)
		}
		return memknowledge.New(), nil
	case knowledge.TypeMongoDB:
		return mongoknowledge.New(ctx, &mongoknowledge.Config{
			URI:          cfg.MongoURI,
			DatabaseName: cfg.MongoDatabase,
		})
	case knowledge.TypePostgres:
		return pgknowledge.New(cfg.PostgresDSN)
	default:
		log.Fatalf("unsupported knowledge type: %s", cfg.Type)
		return nil, nil
	}
}

// createEncryptor creates an encryptor for session payloads at rest.
func createEncryptor(encryptionKey string) (encryption.Encryptor, error) {
	if encryptionKey == "" {
		// Use NoOp encryptor in development
		log.Println("warning: SESSION_ENCRYPTION_KEY not set, using NoOp encryptor")
		return encryption.NewNoOpEncryptor(), nil
	}

	return encryption.NewAESEncryptor(encryptionKey)
}

// createCompleter creates the completion backend, or nil to fall back to
// template replies.
func createCompleter(cfg config.ResponderConfig) responder.Completer {
	if cfg.OpenAIAPIKey == "" {
		log.Println("OPENAI_API_KEY not set, using template replies")
		return nil
	}

	completer, err := responder.NewOpenAICompleter(&responder.OpenAIConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		BaseURL:     cfg.OpenAIBaseURL,
		MaxHistory:  cfg.MaxHistory,
		Temperature: float32(cfg.Temperature),
	})
	if err != nil {
		log.Printf("warning: failed to initialize completion backend: %v", err)
		return nil
	}

	return completer
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, sessionStore store.Store, knowledgeProvider knowledge.Provider, manager conversation.Manager, orchestrator flows.Orchestrator, replyResponder responder.Responder) *gin.Engine {
	router := gin.New()

	// Create middleware
	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	authMw := middleware.NewAuthMiddleware(cfg.Auth.APIKey)

	corsCfg := middleware.DefaultCORSConfig()
	router.Use(middleware.NewCORSMiddleware(corsCfg))
	middleware.SetupCORSRoutes(router, corsCfg)

	// Create handlers
	healthHandler := handlers.NewHealthHandler(sessionStore, knowledgeProvider)
	sessionsHandler := handlers.NewSessionsHandler(sessionStore, manager, cfg.Store.MaxSessions, cfg.Sweep.MaxIdle)
	messagesHandler := handlers.NewMessagesHandler(replyResponder, manager)
	flowsHandler := handlers.NewFlowsHandler(orchestrator, manager)

	// Setup routes
	routesCfg := &routes.Config{
		HealthHandler:   healthHandler,
		SessionsHandler: sessionsHandler,
		MessagesHandler: messagesHandler,
		FlowsHandler:    flowsHandler,
		AuthMiddleware:  authMw,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw)

	// Swagger documentation endpoint
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
