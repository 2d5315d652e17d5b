package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"cinedesk/internal/auth"
	"cinedesk/internal/config"
	"cinedesk/internal/domain/repositories"
	"cinedesk/internal/handler"
	"cinedesk/internal/middleware"
	"cinedesk/internal/repository/memory"
	"cinedesk/internal/repository/postgres"
	"cinedesk/internal/service"
	serviceLLM "cinedesk/internal/service/llm"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Document storage
	var (
		docRepo   repositories.DocumentRepository
		txManager repositories.TransactionManager
	)
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		logger.Info("database connected", "max_conns", 25, "min_conns", 5)

		docRepo = postgres.NewDocumentRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		})
		txManager = postgres.NewTransactionManager(pool, logger)
	} else {
		if cfg.Environment == "prod" {
			log.Fatal("DATABASE_URL is required in prod")
		}
		logger.Warn("DATABASE_URL not set - documents are kept in memory")
		store := memory.NewDocumentStore()
		docRepo, txManager = store, store
	}

	docService := service.NewDocumentService(docRepo, txManager, logger)

	// Setup LLM providers and the agent team
	providerRegistry, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM providers: %v", err)
	}

	movies, permissions := serviceLLM.SetupMovieClients(cfg, logger)
	llmServices, err := serviceLLM.SetupServices(serviceLLM.Dependencies{
		Documents:   docService,
		Movies:      movies,
		Permissions: permissions,
	}, providerRegistry, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup agent services: %v", err)
	}

	chatHandler := handler.NewChatHandler(llmServices.Supervisor, logger)
	agentsHandler := handler.NewAgentsHandler(llmServices.Supervisor)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /api/agents", agentsHandler.ListAgents)
	mux.HandleFunc("POST /api/chat", chatHandler.Chat)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → RequestLogger → Recovery → Auth → Routes
	h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.RequestID()(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Agent runs chain several model calls, so writes get a generous timeout
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port, "model", llmServices.Model.Model)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
