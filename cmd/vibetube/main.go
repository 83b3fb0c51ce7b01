package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vibetube/internal/pipeline"
	"vibetube/internal/server"
	"vibetube/shared/ai"
	"vibetube/shared/config"
	"vibetube/shared/gmail"
	"vibetube/shared/monitoring"
	"vibetube/shared/scheduler"
	"vibetube/shared/storage"
	"vibetube/shared/youtube"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := storage.New(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to store: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare store schema: %v", err)
	}

	gmailClient, err := gmail.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create Gmail client: %v", err)
	}

	youtubeClient, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, cfg.Newsletter.MetadataBatchSize)
	if err != nil {
		log.Fatalf("Failed to create YouTube client: %v", err)
	}

	classifier, err := ai.NewClassifier(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
	if err != nil {
		log.Fatalf("Failed to create classifier: %v", err)
	}

	pipe := pipeline.New(
		gmailClient,
		youtubeClient,
		youtube.NewTranscriptFetcher(),
		classifier,
		store,
		cfg.Newsletter.EnrichmentWorkers,
	)

	monitor := monitoring.NewMonitor()
	srv := server.New(pipe, store, monitor, cfg.Server.BaseURL)

	if cfg.Schedule != "" {
		sched := scheduler.New(cfg.Schedule, func(ctx context.Context) error {
			_, err := pipe.Run(ctx, true)
			return err
		})
		go func() {
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Scheduler stopped with error: %v", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("VibeTube listening on :%d", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
