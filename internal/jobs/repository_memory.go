package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/OsloVision/paddle-ocr-http/internal/ocr"
)

// InMemoryRepository backs the job queue in tests and single-process
// deployments without postgres.
type InMemoryRepository struct {
	mu    sync.Mutex
	jobs  map[string]*Job
	order []string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{jobs: make(map[string]*Job)}
}

func (r *InMemoryRepository) Create(ctx context.Context, job *Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *job
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.jobs[job.ID] = &stored
	r.order = append(r.order, job.ID)
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *InMemoryRepository) ClaimNext(ctx context.Context) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		job := r.jobs[id]
		if job.Status == StatusSubmitted {
			job.Status = StatusProcessing
			job.UpdatedAt = time.Now()
			copied := *job
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *InMemoryRepository) MarkDone(ctx context.Context, id string, result *ocr.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	job.Status = StatusDone
	job.Result = result
	job.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) MarkFailed(ctx context.Context, id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	job.Status = StatusFailed
	job.Error = reason
	job.UpdatedAt = time.Now()
	return nil
}
