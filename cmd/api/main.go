package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/config"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/handlers"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/logger"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/middleware"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/narrator"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/services"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/session"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Dungeon Master API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case "workersai":
		if cfg.CFAccountID == "" || cfg.CFAPIToken == "" {
			log.Error("CF_ACCOUNT_ID and CF_API_TOKEN are required when using workersai provider")
			os.Exit(1)
		}
		llmService = services.NewWorkersAIService(cfg.CFAccountID, cfg.CFAPIToken, cfg.ModelName)
		log.Info("Using Cloudflare Workers AI provider")
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		llmService = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName)
		log.Info("Using Anthropic LLM provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"workersai", "anthropic"})
		os.Exit(1)
	}

	store := storage.NewRedisStore(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()
	if err := llmService.InitModel(initCtx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	narrationService := narrator.New(llmService, log, cfg.NarrationMaxAttempts, cfg.NarrationBackoff)
	manager := session.NewManager(store, store, narrationService, log, cfg.SessionIdleTimeout)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, cfg.ModelName, log)
	mux.Handle("/health", healthHandler)

	sessionsHandler := handlers.NewSessionsHandler(manager, log)
	mux.Handle("/v1/sessions", sessionsHandler)

	sessionHandler := handlers.NewSessionHandler(manager, log)
	mux.Handle("/v1/sessions/", sessionHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
