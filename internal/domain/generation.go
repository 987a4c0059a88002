package domain

import "context"

// Generator produces an answer from a system prompt, an assembled context and
// the user query. Implementations may fail or be left unconfigured; the
// synthesizer treats both as a signal to degrade, never as a fatal error.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, contextText, query string) (string, error)
}

// SynthesisResult is the outcome of answer synthesis for a single query.
// Sources is populated only when the caller asked for it.
type SynthesisResult struct {
	Answer  string
	Sources []Document
}
