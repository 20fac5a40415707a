package main

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/OsloVision/paddle-ocr-http/internal/cache"
	"github.com/OsloVision/paddle-ocr-http/internal/config"
	"github.com/OsloVision/paddle-ocr-http/internal/db"
	"github.com/OsloVision/paddle-ocr-http/internal/engine"
	"github.com/OsloVision/paddle-ocr-http/internal/jobs"
	"github.com/OsloVision/paddle-ocr-http/internal/ocr"
	"github.com/OsloVision/paddle-ocr-http/internal/storage"
)

// Standalone worker binary, for deployments that keep OCR processing off
// the API instances.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if !cfg.JobsEnabled() {
		log.Fatal("DATABASE_URL is required for the worker")
	}
	if !cfg.StorageEnabled() {
		log.Fatal("S3_ENDPOINT and S3_BUCKET_NAME are required for the worker")
	}

	log.Println("OCR worker starting...")

	pgDB, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Postgres init failed: %v", err)
	}
	defer pgDB.Close()

	objectStore, err := storage.NewObjectStore(
		context.Background(),
		cfg.S3Endpoint,
		cfg.S3AccessKey,
		cfg.S3SecretKey,
		cfg.S3Bucket,
	)
	if err != nil {
		log.Fatalf("Object storage init failed: %v", err)
	}

	eng, err := engine.New(cfg.Engine, engine.Options{
		PaddleExePath:    cfg.PaddleExePath,
		PaddleModelsPath: cfg.PaddleModelsPath,
		TesseractLangs:   cfg.TesseractLangs,
		OCRSpaceAPIKey:   cfg.OCRSpaceAPIKey,
		OCRSpaceLang:     cfg.OCRSpaceLang,
	})
	if err != nil {
		log.Fatalf("Engine init failed: %v", err)
	}
	if closer, ok := eng.(io.Closer); ok {
		defer closer.Close()
	}

	var store cache.Store = cache.NewNoop()
	if cfg.CacheEnabled() {
		store = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}

	ocrService := ocr.NewService(eng, store, cfg.MaxUploadBytes, cfg.CacheTTL)
	jobService := jobs.NewService(jobs.NewPostgresRepository(pgDB), objectStore, ocrService)

	log.Printf("OCR worker running (engine=%s), polling every 2 seconds", eng.Name())
	jobService.RunWorker(context.Background(), 2*time.Second)
}
