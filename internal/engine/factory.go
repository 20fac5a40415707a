package engine

import (
	"fmt"
	"strings"
)

// Options carries backend-specific settings for engine construction.
type Options struct {
	PaddleExePath    string
	PaddleModelsPath string
	TesseractLangs   string
	OCRSpaceAPIKey   string
	OCRSpaceLang     string
}

// New builds the named engine behind a Lazy wrapper, so process start stays
// fast and the first OCR request pays the model-load cost.
func New(name string, opts Options) (Engine, error) {
	switch name {
	case "paddle":
		return NewLazy(name, func() (Engine, error) {
			return NewPaddle(opts.PaddleExePath, opts.PaddleModelsPath)
		}), nil
	case "tesseract":
		langs := strings.Split(opts.TesseractLangs, "+")
		return NewLazy(name, func() (Engine, error) {
			return NewTesseract(langs...), nil
		}), nil
	case "ocrspace":
		if opts.OCRSpaceAPIKey == "" {
			return nil, fmt.Errorf("OCRSPACE_API_KEY is required for the ocrspace engine")
		}
		return NewLazy(name, func() (Engine, error) {
			return NewOCRSpace(opts.OCRSpaceAPIKey, opts.OCRSpaceLang), nil
		}), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q (use paddle, tesseract or ocrspace)", name)
	}
}
