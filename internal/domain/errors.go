package domain

import "errors"

var (
	// ErrEmptyCorpus signals that the corpus loader yielded no documents.
	// Fatal for initialization; a restart with a fixed corpus is required.
	ErrEmptyCorpus = errors.New("corpus loader returned no documents")
	// ErrCorpusLoad signals a failure fetching or parsing corpus sources.
	ErrCorpusLoad = errors.New("corpus load failed")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrIndexPersist signals a failure saving or loading the index snapshot.
	ErrIndexPersist = errors.New("index persistence error")
	// ErrNotReady signals retrieval attempted before successful initialization.
	// Recoverable: the caller may retry after EnsureReady succeeds.
	ErrNotReady = errors.New("retrieval index not ready")
	// ErrGeneration signals a generation step failure. The synthesizer
	// converts it into a degraded textual answer; it never reaches callers.
	ErrGeneration = errors.New("generation failed")
)
