package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/OsloVision/paddle-ocr-http/internal/cache"
	"github.com/OsloVision/paddle-ocr-http/internal/engine"
	"github.com/OsloVision/paddle-ocr-http/internal/imagecheck"
)

// Service validates image payloads, runs them through the OCR engine and
// flattens the engine output. Cache failures never fail a request; the
// engine is simply consulted again.
type Service struct {
	engine   engine.Engine
	cache    cache.Store
	maxBytes int64
	cacheTTL time.Duration
}

func NewService(eng engine.Engine, store cache.Store, maxBytes int64, cacheTTL time.Duration) *Service {
	return &Service{engine: eng, cache: store, maxBytes: maxBytes, cacheTTL: cacheTTL}
}

// EngineName reports the configured backend without initializing it.
func (s *Service) EngineName() string { return s.engine.Name() }

// MaxBytes returns the configured upload size limit.
func (s *Service) MaxBytes() int64 { return s.maxBytes }

// Extract runs the full pipeline on raw image bytes: validate, check the
// cache, call the engine, flatten and store.
func (s *Service) Extract(ctx context.Context, data []byte) (*Result, error) {
	info, err := imagecheck.Validate(data, s.maxBytes)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var res Result
		if err := json.Unmarshal(cached, &res); err == nil {
			log.Printf("OCR_CACHED format=%s bytes=%d", info.Format, len(data))
			return &res, nil
		}
	}

	log.Printf("OCR_PROCESSING engine=%s format=%s size=%dx%d bytes=%d",
		s.engine.Name(), info.Format, info.Width, info.Height, len(data))

	dets, err := s.engine.Detect(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("ocr engine: %w", err)
	}

	res := flatten(dets)
	log.Printf("OCR_DONE regions=%d text_length=%d", len(res.Details), len(res.Text))

	if encoded, err := json.Marshal(res); err == nil {
		if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
			log.Printf("OCR_CACHE_STORE_FAILED: %v", err)
		}
	}
	return res, nil
}

func flatten(dets []engine.Detection) *Result {
	res := &Result{
		Success:   true,
		RecTexts:  []string{},
		RecScores: []float64{},
		Details:   []Region{},
	}

	var sum float64
	texts := make([]string, 0, len(dets))
	for _, d := range dets {
		texts = append(texts, d.Text)
		sum += d.Confidence
		res.RecTexts = append(res.RecTexts, d.Text)
		res.RecScores = append(res.RecScores, d.Confidence)
		res.Details = append(res.Details, Region{
			Text:       d.Text,
			Confidence: d.Confidence,
			BBox:       d.Box,
		})
	}

	res.Text = strings.Join(texts, " ")
	if len(dets) > 0 {
		res.Confidence = sum / float64(len(dets))
	}
	return res
}
