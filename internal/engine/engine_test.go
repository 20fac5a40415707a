package engine

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
)

type countingEngine struct {
	calls int
}

func (e *countingEngine) Name() string { return "counting" }

func (e *countingEngine) Detect(ctx context.Context, img []byte) ([]Detection, error) {
	e.calls++
	return []Detection{{Text: "hello", Confidence: 0.9}}, nil
}

func TestLazyBuildsOnce(t *testing.T) {
	inner := &countingEngine{}
	builds := 0

	lazy := NewLazy("counting", func() (Engine, error) {
		builds++
		return inner, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := lazy.Detect(context.Background(), []byte("img")); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if builds != 1 {
		t.Fatalf("expected exactly one build, got %d", builds)
	}
	if inner.calls != 8 {
		t.Fatalf("expected 8 detect calls, got %d", inner.calls)
	}
}

func TestLazyCachesBuildError(t *testing.T) {
	builds := 0
	lazy := NewLazy("broken", func() (Engine, error) {
		builds++
		return nil, errors.New("binary missing")
	})

	for i := 0; i < 3; i++ {
		if _, err := lazy.Detect(context.Background(), nil); err == nil {
			t.Fatal("expected build error")
		}
	}
	if builds != 1 {
		t.Fatalf("expected one failed build, got %d", builds)
	}
}

func TestLazyNameDoesNotBuild(t *testing.T) {
	lazy := NewLazy("idle", func() (Engine, error) {
		t.Fatal("Name must not trigger construction")
		return nil, nil
	})
	if lazy.Name() != "idle" {
		t.Fatalf("unexpected name %q", lazy.Name())
	}
}

type closableEngine struct {
	countingEngine
	closed bool
}

func (e *closableEngine) Close() error {
	e.closed = true
	return nil
}

func TestLazyCloseShutsDownBuiltEngine(t *testing.T) {
	inner := &closableEngine{}
	lazy := NewLazy("closable", func() (Engine, error) {
		return inner, nil
	})

	if _, err := lazy.Detect(context.Background(), []byte("img")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := lazy.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if !inner.closed {
		t.Fatal("built engine was not closed")
	}
}

func TestLazyCloseBeforeFirstUse(t *testing.T) {
	builds := 0
	lazy := NewLazy("unused", func() (Engine, error) {
		builds++
		return &closableEngine{}, nil
	})

	if err := lazy.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if builds != 0 {
		t.Fatal("Close must not trigger construction")
	}
	if _, err := lazy.Detect(context.Background(), nil); err == nil {
		t.Fatal("Detect after Close must fail")
	}
}

func TestQuadFromRect(t *testing.T) {
	quad := quadFromRect(image.Rect(10, 20, 110, 60))

	want := [4][2]int{{10, 20}, {110, 20}, {110, 60}, {10, 60}}
	if quad != want {
		t.Fatalf("expected %v, got %v", want, quad)
	}
}
