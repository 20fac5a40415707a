package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/OsloVision/paddle-ocr-http/internal/imagecheck"
	"github.com/OsloVision/paddle-ocr-http/internal/ocr"
)

// Storage is the slice of the object store the job queue needs.
type Storage interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Service queues OCR jobs into storage and works them off one at a time.
type Service struct {
	repo      Repository
	storage   Storage
	extractor *ocr.Service
}

func NewService(repo Repository, storage Storage, extractor *ocr.Service) *Service {
	return &Service{repo: repo, storage: storage, extractor: extractor}
}

// Submit validates the image, stores it and queues a job. Validation here
// means a bad payload is rejected synchronously instead of surfacing later
// as a failed job.
func (s *Service) Submit(ctx context.Context, data []byte) (*Job, error) {
	info, err := imagecheck.Validate(data, s.extractor.MaxBytes())
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	key := fmt.Sprintf("jobs/%s%s", id, imagecheck.Ext(info.Format))

	if err := s.storage.Put(ctx, key, "image/"+info.Format, data); err != nil {
		return nil, fmt.Errorf("store job image: %w", err)
	}

	job := &Job{ID: id, ObjectKey: key, Status: StatusSubmitted}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("queue job: %w", err)
	}

	log.Printf("JOB_SUBMITTED id=%s key=%s bytes=%d", id, key, len(data))
	return job, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Job, error) {
	return s.repo.Get(ctx, id)
}

// MaxBytes mirrors the extractor's upload limit for the HTTP layer.
func (s *Service) MaxBytes() int64 {
	return s.extractor.MaxBytes()
}

// ProcessOne claims and processes a single queued job. A failing job is
// marked FAILED and never returns an error, so one bad image cannot stall
// the worker.
func (s *Service) ProcessOne(ctx context.Context) error {
	job, err := s.repo.ClaimNext(ctx)
	if err != nil {
		return fmt.Errorf("claim job: %w", err)
	}
	if job == nil {
		return nil
	}

	log.Printf("JOB_PROCESSING id=%s key=%s", job.ID, job.ObjectKey)

	data, err := s.storage.Get(ctx, job.ObjectKey)
	if err != nil {
		_ = s.repo.MarkFailed(ctx, job.ID, err.Error())
		return nil
	}

	result, err := s.extractor.Extract(ctx, data)
	if err != nil {
		log.Printf("JOB_FAILED id=%s: %v", job.ID, err)
		_ = s.repo.MarkFailed(ctx, job.ID, err.Error())
		return nil
	}

	log.Printf("JOB_DONE id=%s regions=%d", job.ID, len(result.Details))
	return s.repo.MarkDone(ctx, job.ID, result)
}

// RunWorker polls the queue until the context is canceled.
func (s *Service) RunWorker(ctx context.Context, interval time.Duration) {
	log.Println("OCR job worker started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("OCR job worker stopped")
			return
		case <-ticker.C:
			if err := s.ProcessOne(ctx); err != nil {
				log.Printf("worker error: %v", err)
			}
		}
	}
}
