package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool against the given DSN and makes sure the job
// schema exists.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	log.Println("Connected to PostgreSQL")
	return pool, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	jobsTableSQL := `
		CREATE TABLE IF NOT EXISTS ocr_jobs (
			id UUID PRIMARY KEY,
			object_key VARCHAR(500) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'SUBMITTED',
			result JSONB NULL,
			error TEXT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := pool.Exec(ctx, jobsTableSQL); err != nil {
		return err
	}

	statusIndexSQL := `
		CREATE INDEX IF NOT EXISTS ocr_jobs_status_idx
		ON ocr_jobs (status, created_at)
	`
	if _, err := pool.Exec(ctx, statusIndexSQL); err != nil {
		return err
	}

	return nil
}
