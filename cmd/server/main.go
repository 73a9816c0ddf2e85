package main

import (
	"fmt"
	"log"
	"time"

	"billscan/internal/config"
	"billscan/internal/extract"
	"billscan/internal/extract/openai"
	"billscan/internal/fetch"
	"billscan/internal/handler"
	"billscan/internal/ocr"
	"billscan/internal/port"
	"billscan/internal/router"
	"billscan/internal/service"
	s3storage "billscan/internal/storage/s3"
)

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

	// Object storage for s3:// document URLs; optional
	var storage port.ObjectStorage
	if cfg.S3.AccessKey != "" || cfg.S3.Endpoint != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	fetcher := fetch.NewFetcher(&cfg.Fetch, storage)
	reader := ocr.NewClient(&cfg.OCR)

	fallback := extract.NewAdapter(
		openai.NewExtractor(&cfg.Extractor),
		extract.WithRateLimit(cfg.Extractor.RatePerSecond, cfg.Extractor.RateBurst),
		extract.WithTimeout(time.Duration(cfg.Pipeline.FallbackTimeoutSecs)*time.Second),
	)

	extractionSvc := service.NewExtractionService(fetcher, reader, fallback, cfg.Pipeline.PageConcurrency)

	extractH := handler.NewExtractHandler(extractionSvc)
	healthH := handler.NewHealthHandler()

	r := router.Setup(extractH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
