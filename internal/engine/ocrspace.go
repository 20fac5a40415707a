package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	ocrspace "github.com/ranghetto/go_ocr_space"
)

// OCRSpace recognizes text through the hosted OCR.space API. The API reports
// neither per-region geometry nor scores, so each returned line carries a
// zero box and a confidence of 1.
type OCRSpace struct {
	config ocrspace.Config
}

func NewOCRSpace(apiKey, lang string) *OCRSpace {
	return &OCRSpace{config: ocrspace.InitConfig(apiKey, lang, ocrspace.OCREngine2)}
}

func (o *OCRSpace) Name() string { return "ocrspace" }

func (o *OCRSpace) Detect(ctx context.Context, image []byte) ([]Detection, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dataURL := "data:" + http.DetectContentType(image) + ";base64," +
		base64.StdEncoding.EncodeToString(image)

	result, err := o.config.ParseFromBase64(dataURL)
	if err != nil {
		return nil, fmt.Errorf("ocr.space request: %w", err)
	}

	text := strings.TrimSpace(result.JustText())
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(text, "\n")
	dets := make([]Detection, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		dets = append(dets, Detection{Text: line, Confidence: 1.0})
	}
	return dets, nil
}
