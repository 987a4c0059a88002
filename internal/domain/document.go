package domain

// KeyPrefix namespaces every key ragdex writes to the cache store.
const KeyPrefix = "ragdex:"

// Metadata keys populated by the corpus loader.
const (
	MetaSource     = "source"
	MetaTitle      = "title"
	MetaChunkIndex = "chunk_index"
)

// Document is an immutable corpus passage together with its source metadata.
// Documents are produced by the corpus loader or reconstructed from the
// persisted index and are never mutated afterwards.
type Document struct {
	Text     string
	Metadata map[string]string
}

// Title returns the source document title, or "untitled" when absent.
func (d Document) Title() string {
	if t := d.Metadata[MetaTitle]; t != "" {
		return t
	}
	return "untitled"
}

// Source returns the origin URL of the document, or "unknown" when absent.
func (d Document) Source() string {
	if s := d.Metadata[MetaSource]; s != "" {
		return s
	}
	return "unknown"
}

// ScoredDocument pairs a document with its similarity to a query vector.
// Higher similarity means a closer match.
type ScoredDocument struct {
	Document   Document
	Similarity float32
}

// EmbeddedDocument couples a document with its embedding at index-build time.
type EmbeddedDocument struct {
	Vector   []float32
	Document Document
}
