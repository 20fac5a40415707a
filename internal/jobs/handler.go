package jobs

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OsloVision/paddle-ocr-http/internal/imagecheck"
	"github.com/OsloVision/paddle-ocr-http/internal/ocr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Submit handles POST /ocr/jobs: multipart field "image", returns 202 with
// the queued job.
func (h *Handler) Submit(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "image file is required"})
		return
	}
	defer file.Close()

	if err := imagecheck.ValidateExtension(header.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if header.Size > h.service.MaxBytes() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "file too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.service.MaxBytes()+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to read upload"})
		return
	}

	job, err := h.service.Submit(c.Request.Context(), data)
	if err != nil {
		c.JSON(ocr.StatusFor(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.ID,
		"status": job.Status,
	})
}

// Get handles GET /ocr/jobs/:id.
func (h *Handler) Get(c *gin.Context) {
	job, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, job)
}
