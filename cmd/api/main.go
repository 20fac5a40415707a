package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/OsloVision/paddle-ocr-http/internal/cache"
	"github.com/OsloVision/paddle-ocr-http/internal/config"
	"github.com/OsloVision/paddle-ocr-http/internal/db"
	"github.com/OsloVision/paddle-ocr-http/internal/engine"
	"github.com/OsloVision/paddle-ocr-http/internal/jobs"
	"github.com/OsloVision/paddle-ocr-http/internal/middleware"
	"github.com/OsloVision/paddle-ocr-http/internal/ocr"
	"github.com/OsloVision/paddle-ocr-http/internal/storage"
)

const workerInterval = 2 * time.Second

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// ───────────────────────── ENGINE ─────────────────────────
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

	// ───────────────────────── CACHE ─────────────────────────
	var store cache.Store = cache.NewNoop()
	if cfg.CacheEnabled() {
		store = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		log.Printf("Result cache enabled at %s", cfg.RedisAddr)
	}

	ocrService := ocr.NewService(eng, store, cfg.MaxUploadBytes, cfg.CacheTTL)
	ocrHandler := ocr.NewHandler(ocrService)

	// ───────────────────────── GIN ─────────────────────────
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── CORE ROUTES ─────────────────────────
	r.GET("/health", ocrHandler.Health)
	r.POST("/ocr", ocrHandler.Extract)

	// ───────────────────────── JOB QUEUE (OPTIONAL) ─────────────────────────
	if cfg.JobsEnabled() {
		if !cfg.StorageEnabled() {
			log.Fatal("Job queue needs S3_ENDPOINT and S3_BUCKET_NAME alongside DATABASE_URL")
		}

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

		jobRepo := jobs.NewPostgresRepository(pgDB)
		jobService := jobs.NewService(jobRepo, objectStore, ocrService)
		jobHandler := jobs.NewHandler(jobService)

		jobRoutes := r.Group("/ocr/jobs")
		if cfg.JWTSecret != "" {
			jobRoutes.Use(middleware.Auth(cfg.JWTSecret))
		}
		{
			jobRoutes.POST("", jobHandler.Submit)
			jobRoutes.GET("/:id", jobHandler.Get)
		}

		go jobService.RunWorker(context.Background(), workerInterval)
	}

	// ───────────────────────── START ─────────────────────────
	log.Printf("OCR API running at http://%s (engine=%s, limit=%d bytes)",
		cfg.Addr(), eng.Name(), cfg.MaxUploadBytes)
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
