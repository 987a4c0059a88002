// Package retrieval implements the two-stage retrieval algorithm: similarity
// oversampling against the vector index followed by MMR diversity reranking.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// Service retrieves a bounded, diversity-aware document list for a query.
type Service struct {
	index  IndexProvider
	embed  domain.Embedder
	logger *zap.Logger
}

// New creates a retrieval service.
func New(index IndexProvider, embed domain.Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{index: index, embed: embed, logger: logger}
}

// Retrieve returns up to k documents for the query, drawn from the fetchK
// most similar candidates and reranked for diversity. diversity is the MMR
// lambda: 1 degenerates to plain top-k similarity, 0 maximizes spread.
func (s *Service) Retrieve(
	ctx context.Context, query string, k, fetchK int, diversity float64,
) ([]domain.Document, error) {
	if k <= 0 {
		return nil, fmt.Errorf("top_k must be positive, got %d", k)
	}
	if k > fetchK {
		return nil, fmt.Errorf("top_k (%d) must not exceed fetch_k (%d)", k, fetchK)
	}
	if diversity < 0 || diversity > 1 {
		return nil, fmt.Errorf("diversity must be within [0,1], got %v", diversity)
	}

	index, err := s.index.Ready()
	if err != nil {
		return nil, err
	}

	start := time.Now()

	queryEmb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	// Oversampling stage: fetchK candidates in similarity order.
	candidates, err := index.SearchByVector(ctx, queryEmb.Embedding, fetchK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	docs, err := s.rerank(ctx, queryEmb.Embedding, candidates, k, diversity)
	if err != nil {
		return nil, err
	}

	metrics.RetrievalDuration.Observe(time.Since(start).Seconds())
	metrics.RetrievalDocuments.Observe(float64(len(docs)))

	s.logger.Debug("Retrieved documents",
		zap.Int("candidates", len(candidates)),
		zap.Int("selected", len(docs)),
		zap.Float64("diversity", diversity),
	)

	return docs, nil
}

// rerank applies the MMR diversity stage. With k or fewer candidates the
// similarity order is returned unchanged and no candidate embeddings are
// computed.
func (s *Service) rerank(
	ctx context.Context, queryVec []float32, candidates []domain.ScoredDocument, k int, diversity float64,
) ([]domain.Document, error) {
	if len(candidates) <= k {
		return documentsOf(candidates), nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Document.Text
	}

	// Candidate embeddings come back through the cached embedder, so after
	// the first query per passage this is a cache read, not an API call.
	batch, err := domain.BatchFallback(ctx, s.embed, texts)
	if err != nil {
		return nil, fmt.Errorf("vectorize candidates: %w", err)
	}

	picked := maximalMarginalRelevance(queryVec, batch.Embeddings, k, diversity)

	docs := make([]domain.Document, len(picked))
	for i, idx := range picked {
		docs[i] = candidates[idx].Document
	}
	return docs, nil
}

func documentsOf(scored []domain.ScoredDocument) []domain.Document {
	docs := make([]domain.Document, len(scored))
	for i, s := range scored {
		docs[i] = s.Document
	}
	return docs
}
