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

	"smartlens-backend/internal/config"
	"smartlens-backend/internal/database"
	"smartlens-backend/internal/handlers"
	"smartlens-backend/internal/middleware"
	"smartlens-backend/internal/repository"
	"smartlens-backend/internal/router"
	"smartlens-backend/internal/services"
	"smartlens-backend/internal/session"
)

func main() {
	log.Println("🔍 Starting SmartLens Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 5: Initialize Gemini Client ────
	geminiClient, err := services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiClient.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	lessonRepo := repository.NewLessonRepo(pool)
	lessonCache := services.NewLessonCache(redisClient, time.Duration(cfg.LessonCacheTTLMinute)*time.Minute)
	lessonService := services.NewLessonService(geminiClient, lessonCache, cfg.MaxInputChars, cfg.QuizQuestionCount)
	youtubeService := services.NewYouTubeService()
	fileExtractService := services.NewFileExtractService()
	sessionAuth := middleware.NewSessionAuth(cfg.SessionSecret)
	sessionStore := session.NewStore()

	// ──── Initialize Handlers ────
	sessionHandler := handlers.NewSessionHandler(sessionAuth, sessionStore)
	lessonHandler := handlers.NewLessonHandler(lessonService, youtubeService, fileExtractService, lessonRepo, sessionStore)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(sessionAuth, sessionHandler, lessonHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Generation blocks on one upstream AI call, observed in seconds.
		WriteTimeout: 90 * time.Second,
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

	log.Printf("✓ SmartLens Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
