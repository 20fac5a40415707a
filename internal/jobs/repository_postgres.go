package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OsloVision/paddle-ocr-http/internal/ocr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, job *Job) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ocr_jobs (id, object_key, status)
		VALUES ($1, $2, $3)
	`, job.ID, job.ObjectKey, job.Status)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Job, error) {
	var job Job
	var result []byte
	var errMsg *string

	err := r.db.QueryRow(ctx, `
		SELECT id, object_key, status, result, error, created_at, updated_at
		FROM ocr_jobs
		WHERE id = $1
	`, id).Scan(&job.ID, &job.ObjectKey, &job.Status, &result, &errMsg, &job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(result) > 0 {
		var res ocr.Result
		if err := json.Unmarshal(result, &res); err != nil {
			return nil, fmt.Errorf("decode stored result: %w", err)
		}
		job.Result = &res
	}
	if errMsg != nil {
		job.Error = *errMsg
	}
	return &job, nil
}

// ClaimNext claims the oldest submitted job with SKIP LOCKED so multiple
// workers never grab the same row.
func (r *PostgresRepository) ClaimNext(ctx context.Context) (*Job, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var job Job
	err = tx.QueryRow(ctx, `
		SELECT id, object_key
		FROM ocr_jobs
		WHERE status = $1
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`, StatusSubmitted).Scan(&job.ID, &job.ObjectKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE ocr_jobs
		SET status = $1, updated_at = now()
		WHERE id = $2
	`, StatusProcessing, job.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	job.Status = StatusProcessing
	return &job, nil
}

func (r *PostgresRepository) MarkDone(ctx context.Context, id string, result *ocr.Result) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		UPDATE ocr_jobs
		SET status = $1, result = $2, updated_at = now()
		WHERE id = $3
	`, StatusDone, encoded, id)
	return err
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id, reason string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE ocr_jobs
		SET status = $1, error = $2, updated_at = now()
		WHERE id = $3
	`, StatusFailed, reason, id)
	return err
}
