package jobs

import (
	"context"
	"errors"

	"github.com/OsloVision/paddle-ocr-http/internal/ocr"
)

var ErrNotFound = errors.New("job not found")

type Repository interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)

	// ClaimNext atomically claims the oldest SUBMITTED job, moving it to
	// PROCESSING. Returns (nil, nil) when the queue is empty.
	ClaimNext(ctx context.Context) (*Job, error)

	MarkDone(ctx context.Context, id string, result *ocr.Result) error
	MarkFailed(ctx context.Context, id, reason string) error
}
