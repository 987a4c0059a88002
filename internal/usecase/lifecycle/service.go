// Package lifecycle owns the process-wide index state: build on first run,
// reload from the persisted snapshot thereafter, exactly one attempt per
// process regardless of concurrent callers.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Service manages the vector index lifecycle. The zero states are
// absent -> building -> ready (or failed); transitions happen exactly once.
type Service struct {
	loader   CorpusLoader
	embedder domain.Embedder
	store    IndexStore
	path     string
	logger   *zap.Logger

	once sync.Once

	mu    sync.RWMutex
	state domain.IndexState
	index domain.Searcher
	err   error
}

// New creates a lifecycle service. path is the snapshot location whose
// presence decides build vs load.
func New(loader CorpusLoader, embedder domain.Embedder, store IndexStore, path string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		loader:   loader,
		embedder: embedder,
		store:    store,
		path:     path,
		logger:   logger,
		state:    domain.IndexStateAbsent,
	}
}

// EnsureReady performs the build-or-load attempt exactly once. The first
// caller runs it with its own context; concurrent callers block until the
// attempt finishes and then observe the shared outcome. A failed attempt is
// sticky for the process lifetime: a corrupt partial index must never be
// silently reused, so recovery requires a restart.
func (s *Service) EnsureReady(ctx context.Context) error {
	s.once.Do(func() {
		s.setBuilding()

		index, err := s.initialize(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.state = domain.IndexStateFailed
			s.err = fmt.Errorf("init: %w", err)
			s.logger.Error("Index initialization failed", zap.Error(err))
			return
		}
		s.state = domain.IndexStateReady
		s.index = index
		s.logger.Info("Index ready", zap.Int("documents", index.Len()))
	})

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Ready returns the live index, or ErrNotReady when initialization has not
// completed successfully.
func (s *Service) Ready() (domain.Searcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != domain.IndexStateReady {
		return nil, domain.ErrNotReady
	}
	return s.index, nil
}

// Status reports a point-in-time lifecycle snapshot.
func (s *Service) Status() domain.IndexStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := domain.IndexStatus{State: s.state}
	if s.index != nil {
		status.Documents = s.index.Len()
	}
	return status
}

func (s *Service) setBuilding() {
	s.mu.Lock()
	s.state = domain.IndexStateBuilding
	s.mu.Unlock()
}

// initialize runs the single build-or-load attempt. No lifecycle lock is
// held here: embedding, search-index construction and storage I/O are all
// long-latency calls.
func (s *Service) initialize(ctx context.Context) (domain.Searcher, error) {
	if s.store.Exists(s.path) {
		s.logger.Info("Loading persisted index", zap.String("path", s.path))
		index, err := s.store.Open(s.path)
		if err != nil {
			return nil, fmt.Errorf("open index: %w", err)
		}
		return index, nil
	}

	s.logger.Info("No persisted index found, building corpus index", zap.String("path", s.path))

	docs, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	// Prefer a native batch call; a cache-decorated embedder falls back to
	// per-text embedding, which warms the cache for MMR reranking.
	var batch domain.BatchEmbeddingResult
	if be, ok := s.embedder.(domain.BatchEmbedder); ok {
		batch, err = be.BatchEmbed(ctx, texts)
	} else {
		batch, err = domain.BatchFallback(ctx, s.embedder, texts)
	}
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(batch.Embeddings) != len(docs) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d documents",
			domain.ErrEmbeddingProvider, len(batch.Embeddings), len(docs))
	}

	embedded := make([]domain.EmbeddedDocument, len(docs))
	for i, d := range docs {
		embedded[i] = domain.EmbeddedDocument{Vector: batch.Embeddings[i], Document: d}
	}

	index, err := s.store.BuildAndSave(ctx, s.path, embedded)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	return index, nil
}
