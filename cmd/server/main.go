package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"propintel/internal/config"
	"propintel/internal/extractor"
	_ "propintel/internal/extractor/claude"
	_ "propintel/internal/extractor/gemini"
	_ "propintel/internal/extractor/openai"
	"propintel/internal/handler"
	"propintel/internal/metrics"
	"propintel/internal/notify/noop"
	"propintel/internal/notify/ses"
	"propintel/internal/ocr/vision"
	"propintel/internal/pipeline"
	"propintel/internal/port"
	"propintel/internal/repository/memory"
	"propintel/internal/router"
	"propintel/internal/service"
	s3storage "propintel/internal/storage/s3"
)

// @title PropIntel API
// @version 1.0
// @description Property document intelligence: OCR, structured field extraction and batch fusion for scanned property documents.
// @BasePath /api/v1

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	metrics.Register()

	// Extraction pipeline
	textExtractor := vision.NewClient(&cfg.OCR)
	fieldExtractor, err := extractor.NewFromConfig(&cfg.Extractor, &cfg.Pipeline)
	if err != nil {
		return fmt.Errorf("failed to build field extractor: %w", err)
	}
	processor := pipeline.NewProcessor(textExtractor, fieldExtractor, pipeline.Config{
		InterDocumentDelay: cfg.Pipeline.InterDocumentDelay,
	})

	// Object storage is optional: without it the API still accepts direct
	// uploads, it just cannot archive them or resolve storage-sourced batches.
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	notifier, err := buildNotifier(&cfg.Notify)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}

	// Initialize repository and services
	repo := memory.NewBatchRepo()
	batchSvc := service.NewBatchService(repo, processor, storage, notifier, &cfg.S3)

	// Initialize handlers
	batchH := handler.NewBatchHandler(batchSvc)
	extractH := handler.NewExtractHandler(batchSvc)
	healthH := handler.NewHealthHandler(func(ctx context.Context) error {
		_, err := repo.List(ctx)
		return err
	})

	// Setup router
	r := router.Setup(cfg, batchH, extractH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Queue worker drains in-flight batches before exiting
	worker := service.NewBatchQueueWorker(repo, batchSvc, service.BatchQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	<-workerDone
	log.Printf("Shutdown complete")
	return nil
}

func buildNotifier(cfg *config.NotifyConfig) (port.BatchNotifier, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewNotifier(cfg)
	default:
		return noop.NewNotifier(), nil
	}
}
