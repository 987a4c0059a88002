package lifecycle

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// CorpusLoader produces the ordered document sequence for index construction.
type CorpusLoader interface {
	Load(ctx context.Context) ([]domain.Document, error)
}

// IndexStore persists and restores vector index snapshots.
type IndexStore interface {
	// Exists reports whether a snapshot is present at path.
	Exists(path string) bool
	// Open restores a snapshot. A corrupt blob is an error, not a rebuild.
	Open(path string) (domain.Searcher, error)
	// BuildAndSave constructs an index from embedded documents and persists
	// it to path before returning it.
	BuildAndSave(ctx context.Context, path string, docs []domain.EmbeddedDocument) (domain.Searcher, error)
}
