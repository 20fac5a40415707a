package jobs

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/OsloVision/paddle-ocr-http/internal/cache"
	"github.com/OsloVision/paddle-ocr-http/internal/engine"
	"github.com/OsloVision/paddle-ocr-http/internal/imagecheck"
	"github.com/OsloVision/paddle-ocr-http/internal/ocr"
)

type fakeEngine struct {
	dets []engine.Detection
	err  error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Detect(ctx context.Context, img []byte) ([]engine.Detection, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dets, nil
}

// fakeStorage keeps job objects in a map.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Put(ctx context.Context, key, contentType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object missing")
	}
	return data, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 30, 10))
	for x := 0; x < 30; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestService(eng engine.Engine) (*Service, *InMemoryRepository, *fakeStorage) {
	repo := NewInMemoryRepository()
	store := newFakeStorage()
	extractor := ocr.NewService(eng, cache.NewNoop(), 1<<20, time.Hour)
	return NewService(repo, store, extractor), repo, store
}

func TestSubmitQueuesJob(t *testing.T) {
	svc, repo, store := newTestService(&fakeEngine{})

	job, err := svc.Submit(context.Background(), pngBytes(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Status != StatusSubmitted {
		t.Errorf("expected SUBMITTED, got %s", job.Status)
	}
	if _, ok := store.objects[job.ObjectKey]; !ok {
		t.Error("image not stored under the job key")
	}

	stored, err := repo.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != StatusSubmitted {
		t.Errorf("expected SUBMITTED in repo, got %s", stored.Status)
	}
}

func TestSubmitRejectsInvalidImage(t *testing.T) {
	svc, _, store := newTestService(&fakeEngine{})

	if _, err := svc.Submit(context.Background(), []byte("junk")); !errors.Is(err, imagecheck.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if len(store.objects) != 0 {
		t.Error("invalid payload must not be stored")
	}
}

func TestProcessOneCompletesJob(t *testing.T) {
	eng := &fakeEngine{dets: []engine.Detection{{Text: "KA01AB1234", Confidence: 0.93}}}
	svc, repo, _ := newTestService(eng)

	job, err := svc.Submit(context.Background(), pngBytes(t))
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ProcessOne(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done, err := repo.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != StatusDone {
		t.Fatalf("expected DONE, got %s", done.Status)
	}
	if done.Result == nil || done.Result.Text != "KA01AB1234" {
		t.Fatalf("result missing or wrong: %+v", done.Result)
	}
}

func TestProcessOneMarksEngineFailure(t *testing.T) {
	svc, repo, _ := newTestService(&fakeEngine{err: errors.New("backend crashed")})

	job, err := svc.Submit(context.Background(), pngBytes(t))
	if err != nil {
		t.Fatal(err)
	}

	// The worker must survive a failing job.
	if err := svc.ProcessOne(context.Background()); err != nil {
		t.Fatalf("per-job failure leaked out of the worker: %v", err)
	}

	failed, err := repo.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if failed.Status != StatusFailed {
		t.Fatalf("expected FAILED, got %s", failed.Status)
	}
	if failed.Error == "" {
		t.Error("expected failure reason")
	}
}

func TestProcessOneMarksStorageFailure(t *testing.T) {
	svc, repo, store := newTestService(&fakeEngine{})

	job, err := svc.Submit(context.Background(), pngBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	store.getErr = errors.New("bucket unreachable")

	if err := svc.ProcessOne(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failed, _ := repo.Get(context.Background(), job.ID)
	if failed.Status != StatusFailed {
		t.Fatalf("expected FAILED, got %s", failed.Status)
	}
}

func TestProcessOneEmptyQueue(t *testing.T) {
	svc, _, _ := newTestService(&fakeEngine{})

	if err := svc.ProcessOne(context.Background()); err != nil {
		t.Fatalf("empty queue is not an error: %v", err)
	}
}

func TestClaimOrderIsFIFO(t *testing.T) {
	svc, repo, _ := newTestService(&fakeEngine{})

	first, err := svc.Submit(context.Background(), pngBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	// Different bytes so both jobs get distinct object keys.
	second, err := svc.Submit(context.Background(), append(pngBytes(t), 0x00))
	if err != nil {
		t.Fatal(err)
	}

	claimed, err := repo.ClaimNext(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if claimed.ID != first.ID {
		t.Fatalf("expected first job %s, claimed %s", first.ID, claimed.ID)
	}

	claimed, err = repo.ClaimNext(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if claimed.ID != second.ID {
		t.Fatalf("expected second job %s, claimed %s", second.ID, claimed.ID)
	}

	claimed, err = repo.ClaimNext(context.Background())
	if err != nil || claimed != nil {
		t.Fatalf("expected empty queue, got %v %v", claimed, err)
	}
}

func TestGetUnknownJob(t *testing.T) {
	svc, _, _ := newTestService(&fakeEngine{})

	if _, err := svc.Get(context.Background(), "does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
