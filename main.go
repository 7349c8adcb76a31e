package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/capstudio/captionforge/api"
	"github.com/capstudio/captionforge/config"
	"github.com/capstudio/captionforge/curate"
	"github.com/capstudio/captionforge/fallback"
	"github.com/capstudio/captionforge/llm"
	"github.com/capstudio/captionforge/policy"
	"github.com/capstudio/captionforge/service"
	"github.com/capstudio/captionforge/store"
)

func main() {
	// .env is optional; environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()

	log.Printf("Starting captionforge...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Upstream URL: %s", cfg.OpenAIBaseURL)
	log.Printf("Model: %s", cfg.Model)
	log.Printf("Database: %s", cfg.DatabaseURL)
	if cfg.OpenAIAPIKey == "" {
		log.Printf("WARN: OPENAI_API_KEY is not set; generation requests will fail")
	}

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize upstream client
	llmClient := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.LLMTimeout)

	// Initialize hashtag policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize pipeline
	curator := curate.New(curate.Config{AnchorTag: cfg.AnchorTag}, policyEngine)
	svc := service.New(llmClient, curator, fallback.New(), db, cfg)

	// Initialize handler
	h := api.NewHandler(svc, db, llmClient, cfg)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down captionforge...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Captionforge stopped")
}
