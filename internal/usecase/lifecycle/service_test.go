package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// --- Mocks ---

type mockLoader struct {
	docs      []domain.Document
	err       error
	loadCalls int32
}

func (m *mockLoader) Load(_ context.Context) ([]domain.Document, error) {
	atomic.AddInt32(&m.loadCalls, 1)
	return m.docs, m.err
}

type mockEmbedder struct {
	dim int
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: make([]float32, m.dim)}, nil
}

type mockIndex struct {
	size int
}

func (m *mockIndex) SearchByVector(_ context.Context, _ []float32, _ int) ([]domain.ScoredDocument, error) {
	return nil, nil
}

func (m *mockIndex) Len() int { return m.size }

type mockStore struct {
	exists     bool
	openErr    error
	buildErr   error
	opened     *mockIndex
	built      *mockIndex
	buildCalls int32
	openCalls  int32
	savedDocs  []domain.EmbeddedDocument
}

func (m *mockStore) Exists(_ string) bool { return m.exists }

func (m *mockStore) Open(_ string) (domain.Searcher, error) {
	atomic.AddInt32(&m.openCalls, 1)
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.opened, nil
}

func (m *mockStore) BuildAndSave(_ context.Context, _ string, docs []domain.EmbeddedDocument) (domain.Searcher, error) {
	atomic.AddInt32(&m.buildCalls, 1)
	if m.buildErr != nil {
		return nil, m.buildErr
	}
	m.savedDocs = docs
	if m.built == nil {
		m.built = &mockIndex{size: len(docs)}
	}
	return m.built, nil
}

func testDocs(n int) []domain.Document {
	docs := make([]domain.Document, n)
	for i := range docs {
		docs[i] = domain.Document{Text: fmt.Sprintf("passage %d", i)}
	}
	return docs
}

// --- Tests ---

func TestEnsureReadyBuildsWhenNoSnapshot(t *testing.T) {
	loader := &mockLoader{docs: testDocs(3)}
	store := &mockStore{exists: false}
	svc := New(loader, &mockEmbedder{dim: 4}, store, "data/index", nil)

	if err := svc.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}

	if store.buildCalls != 1 {
		t.Errorf("expected 1 build, got %d", store.buildCalls)
	}
	if len(store.savedDocs) != 3 {
		t.Errorf("expected 3 embedded docs persisted, got %d", len(store.savedDocs))
	}

	index, err := svc.Ready()
	if err != nil {
		t.Fatalf("Ready after init: %v", err)
	}
	if index.Len() != 3 {
		t.Errorf("expected index of 3, got %d", index.Len())
	}
	if got := svc.Status(); got.State != domain.IndexStateReady || got.Documents != 3 {
		t.Errorf("unexpected status: %+v", got)
	}
}

func TestEnsureReadyLoadsExistingSnapshot(t *testing.T) {
	loader := &mockLoader{docs: testDocs(3)}
	store := &mockStore{exists: true, opened: &mockIndex{size: 7}}
	svc := New(loader, &mockEmbedder{dim: 4}, store, "data/index", nil)

	if err := svc.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}

	if loader.loadCalls != 0 {
		t.Errorf("loader must not run when a snapshot exists, got %d calls", loader.loadCalls)
	}
	if store.buildCalls != 0 {
		t.Errorf("no build expected on load path, got %d", store.buildCalls)
	}
	if got := svc.Status(); got.Documents != 7 {
		t.Errorf("expected 7 documents from loaded index, got %d", got.Documents)
	}
}

func TestEnsureReadyEmptyCorpus(t *testing.T) {
	svc := New(&mockLoader{}, &mockEmbedder{dim: 4}, &mockStore{}, "data/index", nil)

	err := svc.EnsureReady(context.Background())
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}

	if _, err := svc.Ready(); !errors.Is(err, domain.ErrNotReady) {
		t.Errorf("expected ErrNotReady after failed init, got %v", err)
	}
	if got := svc.Status(); got.State != domain.IndexStateFailed {
		t.Errorf("expected failed state, got %s", got.State)
	}
}

func TestEnsureReadyFailureIsSticky(t *testing.T) {
	loader := &mockLoader{err: errors.New("fetch timeout")}
	svc := New(loader, &mockEmbedder{dim: 4}, &mockStore{}, "data/index", nil)

	first := svc.EnsureReady(context.Background())
	if first == nil {
		t.Fatal("expected first attempt to fail")
	}

	second := svc.EnsureReady(context.Background())
	if !errors.Is(second, first) && second.Error() != first.Error() {
		t.Errorf("expected the same sticky error, got %v vs %v", second, first)
	}
	if loader.loadCalls != 1 {
		t.Errorf("expected exactly one load attempt, got %d", loader.loadCalls)
	}
}

func TestEnsureReadyCorruptSnapshotDoesNotRebuild(t *testing.T) {
	loader := &mockLoader{docs: testDocs(3)}
	store := &mockStore{exists: true, openErr: errors.New("truncated snapshot")}
	svc := New(loader, &mockEmbedder{dim: 4}, store, "data/index", nil)

	if err := svc.EnsureReady(context.Background()); err == nil {
		t.Fatal("expected error from corrupt snapshot")
	}
	if store.buildCalls != 0 {
		t.Errorf("corrupt snapshot must not trigger a rebuild, got %d builds", store.buildCalls)
	}
	if loader.loadCalls != 0 {
		t.Errorf("corpus must not be fetched on the load path, got %d", loader.loadCalls)
	}
}

func TestEnsureReadySingleFlight(t *testing.T) {
	loader := &mockLoader{docs: testDocs(5)}
	store := &mockStore{}
	svc := New(loader, &mockEmbedder{dim: 4}, store, "data/index", nil)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.EnsureReady(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if loader.loadCalls != 1 {
		t.Errorf("expected a single load across concurrent callers, got %d", loader.loadCalls)
	}
	if store.buildCalls != 1 {
		t.Errorf("expected a single build across concurrent callers, got %d", store.buildCalls)
	}
}

func TestEnsureReadyEmbeddingCountMismatch(t *testing.T) {
	// An embedder that silently drops vectors must be caught before the
	// index is built with misaligned documents.
	loader := &mockLoader{docs: testDocs(2)}
	svc := New(loader, shortBatchEmbedder{}, &mockStore{}, "data/index", nil)

	err := svc.EnsureReady(context.Background())
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
}

type shortBatchEmbedder struct{}

func (shortBatchEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{1}}, nil
}

func (shortBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts)-1)}, nil
}

func TestReadyBeforeInit(t *testing.T) {
	svc := New(&mockLoader{}, &mockEmbedder{dim: 4}, &mockStore{}, "data/index", nil)
	if _, err := svc.Ready(); !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if got := svc.Status(); got.State != domain.IndexStateAbsent {
		t.Errorf("expected absent state before init, got %s", got.State)
	}
}
