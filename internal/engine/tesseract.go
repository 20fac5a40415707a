package engine

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text through the gosseract binding. A gosseract client
// is not safe for concurrent use, so one is created per Detect call; the
// trained data stays cached inside libtesseract between calls.
type Tesseract struct {
	langs         []string
	clientFactory func() *gosseract.Client
}

func NewTesseract(langs ...string) *Tesseract {
	return &Tesseract{langs: langs, clientFactory: gosseract.NewClient}
}

func (t *Tesseract) Name() string { return "tesseract" }

func (t *Tesseract) Detect(ctx context.Context, img []byte) ([]Detection, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	c := t.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(img); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if len(t.langs) > 0 {
		if err := c.SetLanguage(t.langs...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	dets := make([]Detection, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		dets = append(dets, Detection{
			Text:       text,
			Confidence: b.Confidence / 100.0,
			Box:        quadFromRect(b.Box),
		})
	}
	return dets, nil
}

// quadFromRect expands an axis-aligned rectangle into the four-point
// quadrilateral shape shared by all engines.
func quadFromRect(r image.Rectangle) [4][2]int {
	return [4][2]int{
		{r.Min.X, r.Min.Y},
		{r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y},
		{r.Min.X, r.Max.Y},
	}
}
