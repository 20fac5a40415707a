package engine

import (
	"context"
	"fmt"

	"github.com/doraemonkeys/paddleocr"
)

// PaddleOCR-json protocol codes.
const (
	paddleCodeSuccess = 100
	paddleCodeNoText  = 101
)

// Paddle runs OCR through a PaddleOCR-json process. The underlying client
// serializes access to the process pipe, so one Paddle value is safe to share
// across requests.
type Paddle struct {
	cl *paddleocr.Ppocr
}

// NewPaddle starts the PaddleOCR-json process. Model loading happens here,
// which is why callers normally wrap this in a Lazy engine.
func NewPaddle(exePath, modelsPath string) (*Paddle, error) {
	p, err := paddleocr.NewPpocr(exePath, paddleocr.OcrArgs{},
		"-models_path", modelsPath)
	if err != nil {
		return nil, fmt.Errorf("start paddleocr process: %w", err)
	}
	return &Paddle{cl: p}, nil
}

func (p *Paddle) Name() string { return "paddle" }

func (p *Paddle) Detect(ctx context.Context, image []byte) ([]Detection, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	res, err := p.cl.OcrAndParse(image)
	if err != nil {
		return nil, fmt.Errorf("paddle ocr: %w", err)
	}

	switch res.Code {
	case paddleCodeSuccess:
	case paddleCodeNoText:
		return nil, nil
	default:
		return nil, fmt.Errorf("paddle ocr failed with code %v: %s", res.Code, res.Msg)
	}

	return detectionsFromPaddle(res.Data), nil
}

func detectionsFromPaddle(data []paddleocr.Data) []Detection {
	dets := make([]Detection, 0, len(data))
	for _, d := range data {
		det := Detection{Text: d.Text, Confidence: float64(d.Score)}
		for i := 0; i < 4 && i < len(d.Rect); i++ {
			if len(d.Rect[i]) >= 2 {
				det.Box[i] = [2]int{d.Rect[i][0], d.Rect[i][1]}
			}
		}
		dets = append(dets, det)
	}
	return dets
}

func (p *Paddle) Close() error {
	return p.cl.Close()
}
