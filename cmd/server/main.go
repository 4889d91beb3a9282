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

	"assistant-backend/internal/config"
	"assistant-backend/internal/database"
	"assistant-backend/internal/handlers"
	"assistant-backend/internal/llm"
	"assistant-backend/internal/repository"
	"assistant-backend/internal/router"
)

func main() {
	log.Println("🚀 Starting Gemini AI Chat Server...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")
	if cfg.GeminiAPIKey != "" {
		log.Println("✓ API key loaded")
	} else {
		log.Println("✗ API key missing; chat requests will report a configuration error")
	}

	// ──── Step 2: Initialize Gemini Client & Dispatcher ────
	var dispatcher *llm.Dispatcher
	var geminiClient *llm.GeminiClient
	if cfg.GeminiAPIKey != "" {
		var err error
		geminiClient, err = llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer geminiClient.Close()

		dispatcher = llm.NewDispatcher(
			geminiClient,
			cfg.GeminiModels,
			time.Duration(cfg.GeminiAttemptTimeout)*time.Second,
		)
		log.Printf("✓ Gemini client initialized (%d candidate models)", len(cfg.GeminiModels))
	}

	// ──── Step 3: Initialize Optional Chat Log Store ────
	var chatLogRepo *repository.ChatLogRepo
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("✗ PostgreSQL connection failed: %v", err)
		}
		defer pool.Close()

		if err := database.RunMigrations(pool, "migrations"); err != nil {
			log.Fatalf("✗ Database migration failed: %v", err)
		}

		chatLogRepo = repository.NewChatLogRepo(pool)
		log.Println("✓ PostgreSQL connected, chat log enabled")
	} else {
		log.Println("- No DATABASE_URL, chat log disabled")
	}

	// ──── Step 4: Initialize Handlers & Router ────
	// Ports stay nil when their backing piece is not configured; the
	// handler reports a configuration error (chat) or the route is not
	// mounted (history).
	var dispatchPort handlers.Dispatcher
	var listerPort handlers.ModelLister
	if dispatcher != nil {
		dispatchPort = dispatcher
		listerPort = geminiClient
	}
	var logPort handlers.ChatLogStore
	if chatLogRepo != nil {
		logPort = chatLogRepo
	}

	chatHandler := handlers.NewChatHandler(dispatchPort, listerPort, logPort, cfg.IsDevelopment())

	r := router.New(chatHandler, router.Options{
		ChatRateLimit:  cfg.ChatRateLimit,
		ChatRateWindow: time.Duration(cfg.ChatRateWindowSecs) * time.Second,
		HistoryEnabled: chatLogRepo != nil,
	})

	// ──── Step 5: Start HTTP Server ────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Backend running on http://localhost:%s", cfg.Port)
	log.Printf("  Chat:   POST http://localhost:%s/api/chat", cfg.Port)
	log.Printf("  Models: GET  http://localhost:%s/api/models", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
