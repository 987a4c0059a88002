package rag

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Lifecycle exposes index initialization and status to the facade.
type Lifecycle interface {
	EnsureReady(ctx context.Context) error
	Status() domain.IndexStatus
}

// Retriever performs the two-stage document retrieval.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k, fetchK int, diversity float64) ([]domain.Document, error)
}

// Synthesizer turns retrieved documents into an answer.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, docs []domain.Document, withSources bool) domain.SynthesisResult
}
