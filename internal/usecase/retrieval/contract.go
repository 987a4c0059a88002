package retrieval

import "github.com/kailas-cloud/ragdex/internal/domain"

// IndexProvider hands out the live index once the lifecycle has completed.
type IndexProvider interface {
	// Ready returns the index, or domain.ErrNotReady before successful
	// initialization. Retrieval is rejected synchronously rather than
	// waiting for initialization to finish.
	Ready() (domain.Searcher, error)
}
