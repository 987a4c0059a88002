// Package index adapts the vecgo embedded vector store to the retrieval
// engine's index contract: exact cosine search over (embedding, document)
// pairs with snapshot persistence to a single file.
package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/vecgo"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Store builds, persists and reopens vector index snapshots.
type Store struct {
	logger *zap.Logger
}

// NewStore creates an index store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger}
}

// Exists reports whether a persisted snapshot is present at path.
// Presence of the snapshot is the sole signal distinguishing build from load.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// BuildAndSave constructs a fresh flat cosine index from the embedded
// documents and persists it to path before returning it.
func (s *Store) BuildAndSave(
	ctx context.Context, path string, docs []domain.EmbeddedDocument,
) (domain.Searcher, error) {
	if len(docs) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	dim := len(docs[0].Vector)
	db, err := vecgo.Flat[domain.Document](dim).Cosine().Build()
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	items := make([]vecgo.VectorWithData[domain.Document], len(docs))
	for i, d := range docs {
		items[i] = vecgo.VectorWithData[domain.Document]{
			Vector: d.Vector,
			Data:   d.Document,
		}
	}

	result := db.BatchInsert(ctx, items)
	for i, insErr := range result.Errors {
		if insErr != nil {
			return nil, fmt.Errorf("insert document %d: %w", i, insErr)
		}
	}

	if err := s.save(db, path, len(docs), dim); err != nil {
		return nil, err
	}

	s.logger.Info("Vector index built and persisted",
		zap.String("path", path),
		zap.Int("documents", len(docs)),
		zap.Int("dimensions", dim),
	)

	return &Index{db: db, size: len(docs)}, nil
}

// Open restores a previously persisted index. A corrupt or unreadable
// snapshot surfaces an error; no implicit rebuild is attempted.
func (s *Store) Open(path string) (domain.Searcher, error) {
	man, err := readManifest(manifestPath(path))
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest: %w", domain.ErrIndexPersist, err)
	}

	db, err := vecgo.NewFromFile[domain.Document](path)
	if err != nil {
		return nil, fmt.Errorf("%w: load snapshot %s: %w", domain.ErrIndexPersist, path, err)
	}

	s.logger.Info("Vector index loaded from snapshot",
		zap.String("path", path),
		zap.Int("documents", man.Documents),
	)

	return &Index{db: db, size: man.Documents}, nil
}

func (s *Store) save(db *vecgo.Vecgo[domain.Document], path string, documents, dim int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create index dir: %w", domain.ErrIndexPersist, err)
		}
	}
	if err := db.SaveToFile(path); err != nil {
		return fmt.Errorf("%w: save snapshot %s: %w", domain.ErrIndexPersist, path, err)
	}
	if err := writeManifest(manifestPath(path), manifest{Documents: documents, Dimensions: dim}); err != nil {
		return fmt.Errorf("%w: write manifest: %w", domain.ErrIndexPersist, err)
	}
	return nil
}

// Index is a ready, effectively immutable vector index. Reads are safe for
// unlimited concurrency; no mutating operations are exposed.
type Index struct {
	db   *vecgo.Vecgo[domain.Document]
	size int
}

var _ domain.Searcher = (*Index)(nil)

// SearchByVector returns up to k documents ranked by descending cosine
// similarity to the query vector.
func (i *Index) SearchByVector(ctx context.Context, vector []float32, k int) ([]domain.ScoredDocument, error) {
	results, err := i.db.KNNSearch(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	out := make([]domain.ScoredDocument, len(results))
	for j, r := range results {
		out[j] = domain.ScoredDocument{
			Document: r.Data,
			// vecgo reports cosine distance (lower is closer)
			Similarity: 1 - r.Distance,
		}
	}
	return out, nil
}

// Len reports the number of indexed documents.
func (i *Index) Len() int { return i.size }

// Close releases snapshot-backed resources.
func (i *Index) Close() error {
	return i.db.Close() //nolint:wrapcheck
}
