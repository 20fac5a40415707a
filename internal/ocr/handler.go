package ocr

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OsloVision/paddle-ocr-http/internal/imagecheck"
)

const serviceVersion = "1.0.0"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Health reports liveness. It never touches the engine, so it stays green
// even when OCR requests are failing.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "paddle-ocr-http",
		"version":     serviceVersion,
		"engine":      h.service.EngineName(),
		"gpu_enabled": false,
	})
}

type base64Request struct {
	Image string `json:"image"`
}

// Extract handles POST /ocr. The image arrives either as multipart form
// field "image" or as a base64 string in a JSON body.
func (h *Handler) Extract(c *gin.Context) {
	var data []byte

	if c.ContentType() == "application/json" {
		var req base64Request
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
			return
		}
		if req.Image == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "image is required"})
			return
		}

		payload := req.Image
		if strings.HasPrefix(payload, "data:") {
			if idx := strings.Index(payload, ","); idx >= 0 {
				payload = payload[idx+1:]
			}
		}

		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid base64 image data"})
			return
		}
		data = decoded
	} else {
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

		// One extra byte so a body lying about its size still trips the
		// service-side limit check.
		data, err = io.ReadAll(io.LimitReader(file, h.service.MaxBytes()+1))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to read upload"})
			return
		}
	}

	result, err := h.service.Extract(c.Request.Context(), data)
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// StatusFor maps pipeline errors to HTTP status codes: bad input 400,
// oversize 413, anything inside the engine 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, imagecheck.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, imagecheck.ErrEmpty), errors.Is(err, imagecheck.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
