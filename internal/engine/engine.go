package engine

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Detection is one recognized text region as reported by the OCR backend.
// Box holds the bounding quadrilateral in pixel coordinates, clockwise from
// the top-left corner.
type Detection struct {
	Text       string
	Confidence float64
	Box        [4][2]int
}

// Engine is the contract every OCR backend implements. Detections are
// returned in the backend's reading order and must not be reordered.
type Engine interface {
	Name() string
	Detect(ctx context.Context, image []byte) ([]Detection, error)
}

// Lazy defers engine construction to the first Detect call and caches the
// handle for the process lifetime. Construction errors are cached too, so a
// misconfigured backend fails every request instead of retrying the (often
// expensive) model load.
type Lazy struct {
	name  string
	build func() (Engine, error)

	once sync.Once
	eng  Engine
	err  error
}

func NewLazy(name string, build func() (Engine, error)) *Lazy {
	return &Lazy{name: name, build: build}
}

func (l *Lazy) Name() string { return l.name }

func (l *Lazy) Detect(ctx context.Context, image []byte) ([]Detection, error) {
	l.once.Do(func() {
		l.eng, l.err = l.build()
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.eng.Detect(ctx, image)
}

// Close shuts down the underlying engine if it was ever built and holds
// external resources, such as the PaddleOCR-json process.
func (l *Lazy) Close() error {
	l.once.Do(func() {
		l.err = errors.New("engine closed before first use")
	})
	if closer, ok := l.eng.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
