package domain

import "context"

// Searcher is the read-only view of a ready vector index.
// Implementations must support unlimited concurrent reads.
type Searcher interface {
	// SearchByVector returns up to k documents ranked by descending
	// similarity to the query vector. When the index holds fewer than k
	// documents, all of them are returned.
	SearchByVector(ctx context.Context, vector []float32, k int) ([]ScoredDocument, error)

	// Len reports the number of indexed documents.
	Len() int
}

// IndexState names a phase of the index lifecycle.
type IndexState string

// Index lifecycle states. The index moves absent -> building -> ready,
// or absent -> building -> failed; it never transitions twice.
const (
	IndexStateAbsent   IndexState = "absent"
	IndexStateBuilding IndexState = "building"
	IndexStateReady    IndexState = "ready"
	IndexStateFailed   IndexState = "failed"
)

// IndexStatus is a point-in-time snapshot of the index lifecycle.
type IndexStatus struct {
	State     IndexState
	Documents int
}
