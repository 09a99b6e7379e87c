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

	"memodeck-client/internal/api"
	"memodeck-client/internal/config"
	"memodeck-client/internal/handlers"
	"memodeck-client/internal/middleware"
	"memodeck-client/internal/models"
	"memodeck-client/internal/notify"
	"memodeck-client/internal/poller"
	"memodeck-client/internal/router"
	"memodeck-client/internal/store"
	"memodeck-client/internal/tracker"
	"memodeck-client/internal/websocket"
)

func main() {
	log.Println("🚀 Starting Memodeck Study Engine...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Open Local Store ────
	var kv store.KV
	if cfg.RedisURL != "" {
		redisKV, err := store.NewRedisKV(cfg.RedisURL, "memodeck:")
		if err != nil {
			log.Fatalf("✗ Redis store initialization failed: %v", err)
		}
		defer redisKV.Close()
		kv = redisKV
		log.Println("✓ Redis store connected")
	} else {
		fileKV, err := store.NewFileKV(cfg.StorePath)
		if err != nil {
			log.Fatalf("✗ File store initialization failed: %v", err)
		}
		kv = fileKV
		log.Printf("✓ File store ready at %s", cfg.StorePath)
	}
	sessions := store.NewSessionStore(kv)

	// ──── Step 3: Initialize API Client ────
	apiClient := api.NewClient(cfg.APIBaseURL, cfg.APIToken)
	if !apiClient.HasCredential() {
		log.Println("⚠ No API credential configured; remote operations will fail until one is set")
	}
	log.Printf("✓ API client ready for %s", cfg.APIBaseURL)

	// ──── Step 4: Start WebSocket Hub ────
	wsHub := websocket.NewHub(cfg.LocalJWTSecret)
	sink := notify.Multi{notify.LogNotifier{}, wsHub}
	log.Println("✓ WebSocket hub started")

	// ──── Step 5: Initialize Job Poller ────
	jobPoller := poller.New(apiClient, poller.Hooks{
		OnStatusChange: func(jobID, status string) {
			sink.Notify(models.WSMessage{
				Type:    "status_update",
				Payload: models.StatusUpdate{JobID: jobID, Status: status},
			})
		},
		OnSuccess: func(jobID, deckID string) {
			sink.Notify(models.WSMessage{
				Type:    "completed",
				Payload: models.CompletedEvent{JobID: jobID, DeckID: deckID},
			})
		},
		OnFailure: func(jobID, message string) {
			sink.Notify(models.WSMessage{
				Type:    "error",
				Payload: models.ErrorEvent{JobID: jobID, ErrorCode: "JOB_FAILED", ErrorMessage: message},
			})
		},
	}, poller.Config{
		PollInterval:     cfg.PollInterval,
		Watchdog:         cfg.JobTimeout,
		VerifyDelay:      cfg.VerifyDelay,
		VerifyRetryDelay: cfg.VerifyRetryDelay,
	})
	log.Println("✓ Job poller ready")

	// ──── Step 6: Initialize Session Tracker ────
	studyTracker := tracker.New(apiClient, sessions, func(elapsed int) {
		sink.Notify(models.WSMessage{
			Type:    "tick",
			Payload: models.TickEvent{ElapsedSeconds: elapsed},
		})
	})
	log.Println("✓ Session tracker ready")

	// ──── Step 7: Start HTTP Server ────
	jwtAuth := middleware.NewJWTAuth(cfg.LocalJWTSecret)
	generateHandler := handlers.NewGenerateHandler(jobPoller, apiClient)
	studyHandler := handlers.NewStudyHandler(studyTracker)
	deckHandler := handlers.NewDeckHandler(apiClient)

	r := router.New(jwtAuth, generateHandler, studyHandler, deckHandler, wsHub, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		jobPoller.Cancel()
		studyTracker.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Memodeck Study Engine ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
