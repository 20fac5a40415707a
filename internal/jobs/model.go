package jobs

import (
	"time"

	"github.com/OsloVision/paddle-ocr-http/internal/ocr"
)

type Status string

const (
	StatusSubmitted  Status = "SUBMITTED"
	StatusProcessing Status = "PROCESSING"
	StatusDone       Status = "DONE"
	StatusFailed     Status = "FAILED"
)

// Job is one queued OCR request. Result is set on DONE, Error on FAILED.
type Job struct {
	ID        string      `json:"job_id"`
	ObjectKey string      `json:"-"`
	Status    Status      `json:"status"`
	Result    *ocr.Result `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
