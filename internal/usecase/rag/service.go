// Package rag composes lifecycle, retrieval and synthesis into the single
// question-answering entrypoint served over the tool surface.
package rag

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/config"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Options carries per-request overrides. Zero values fall back to the
// configured defaults; Diversity uses a pointer because 0 is a meaningful
// setting (maximum spread).
type Options struct {
	TopK          int
	FetchK        int
	Diversity     *float64
	ReturnSources bool
}

// Service is the composed question-answering facade.
type Service struct {
	lifecycle Lifecycle
	retriever Retriever
	synth     Synthesizer
	defaults  config.RetrievalConfig
	logger    *zap.Logger
}

// New creates the facade with configured retrieval defaults.
func New(
	lifecycle Lifecycle,
	retriever Retriever,
	synth Synthesizer,
	defaults config.RetrievalConfig,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		lifecycle: lifecycle,
		retriever: retriever,
		synth:     synth,
		defaults:  defaults,
		logger:    logger,
	}
}

// EnsureReady triggers or awaits the one-shot index initialization.
func (s *Service) EnsureReady(ctx context.Context) error {
	return s.lifecycle.EnsureReady(ctx)
}

// Status reports the current index lifecycle state.
func (s *Service) Status() domain.IndexStatus {
	return s.lifecycle.Status()
}

// Answer retrieves documents for the query and synthesizes an answer from
// them. Retrieval errors propagate; synthesis never fails.
func (s *Service) Answer(ctx context.Context, query string, opts Options) (domain.SynthesisResult, error) {
	k := opts.TopK
	if k <= 0 {
		k = s.defaults.TopK
	}
	fetchK := opts.FetchK
	if fetchK <= 0 {
		fetchK = s.defaults.FetchK
	}
	if fetchK < k {
		fetchK = k
	}
	diversity := s.defaults.Diversity
	if opts.Diversity != nil {
		diversity = *opts.Diversity
	}

	docs, err := s.retriever.Retrieve(ctx, query, k, fetchK, diversity)
	if err != nil {
		return domain.SynthesisResult{}, err
	}

	s.logger.Debug("Answering query",
		zap.Int("top_k", k),
		zap.Int("fetch_k", fetchK),
		zap.Float64("diversity", diversity),
		zap.Int("documents", len(docs)),
	)

	return s.synth.Synthesize(ctx, query, docs, opts.ReturnSources), nil
}
