package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all deployment settings, read from environment variables.
// Optional subsystems (job queue, object storage, result cache, auth) stay
// disabled when their variables are unset.
type Config struct {
	Host           string `env:"HOST" env-default:"0.0.0.0"`
	Port           int    `env:"PORT" env-default:"5000"`
	Debug          bool   `env:"DEBUG" env-default:"false"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" env-default:"20971520"`

	// Engine selects the OCR backend: paddle, tesseract or ocrspace.
	Engine string `env:"OCR_ENGINE" env-default:"paddle"`

	PaddleExePath    string `env:"PADDLE_EXE_PATH" env-default:"/opt/paddleocr/bin/PaddleOCR-json"`
	PaddleModelsPath string `env:"PADDLE_MODELS_PATH" env-default:"/opt/paddleocr/models"`
	TesseractLangs   string `env:"TESSERACT_LANGS" env-default:"eng"`
	OCRSpaceAPIKey   string `env:"OCRSPACE_API_KEY"`
	OCRSpaceLang     string `env:"OCRSPACE_LANG" env-default:"eng"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" env-default:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" env-default:"24h"`

	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET"`

	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET_NAME"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", cfg.MaxUploadBytes)
	}
	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JobsEnabled reports whether the async job queue should be wired up.
func (c *Config) JobsEnabled() bool {
	return c.DatabaseURL != ""
}

// StorageEnabled reports whether object storage is configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3Bucket != ""
}

// CacheEnabled reports whether the Redis result cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
