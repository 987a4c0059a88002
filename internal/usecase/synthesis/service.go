// Package synthesis assembles retrieved documents into a bounded context and
// invokes the generation step, degrading to the raw passage text whenever
// generation is unavailable or fails.
package synthesis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// systemPrompt constrains the generator to the supplied context only.
const systemPrompt = "You are a capable assistant that provides accurate information based on " +
	"the given context. Answer the user's question using only the information " +
	"contained in that context. If the context does not hold enough information, " +
	"state that clearly. Keep answers concise and factual, quoting the relevant " +
	"part of the context where appropriate."

// noInformationAnswer is the fixed response for an empty retrieval result.
const noInformationAnswer = "No relevant information was found for this query."

// Service synthesizes answers from retrieved documents.
type Service struct {
	generator domain.Generator // nil when generation is unconfigured
	logger    *zap.Logger
}

// New creates a synthesis service. A nil generator is valid: every answer
// then degrades to the concatenated passage text.
func New(generator domain.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{generator: generator, logger: logger}
}

// Synthesize produces an answer for the query from the documents, in order.
// Generation failures never surface to the caller: the retrieval result
// stays usable even when the generator is down.
func (s *Service) Synthesize(
	ctx context.Context, query string, docs []domain.Document, withSources bool,
) domain.SynthesisResult {
	if len(docs) == 0 {
		return domain.SynthesisResult{Answer: noInformationAnswer}
	}

	result := domain.SynthesisResult{Answer: s.generate(ctx, query, docs)}
	if withSources {
		result.Sources = dedupSources(docs)
	}
	return result
}

func (s *Service) generate(ctx context.Context, query string, docs []domain.Document) string {
	if s.generator == nil {
		metrics.GenerationFallbacksTotal.WithLabelValues("unconfigured").Inc()
		return joinTexts(docs)
	}

	answer, err := s.generator.Generate(ctx, systemPrompt, buildContext(docs), query)
	if err != nil {
		metrics.GenerationFallbacksTotal.WithLabelValues("error").Inc()
		s.logger.Warn("Generation failed, degrading to raw passages", zap.Error(err))
		return joinTexts(docs)
	}
	return answer
}

// buildContext concatenates documents into a numbered, delimited context.
func buildContext(docs []domain.Document) string {
	var b strings.Builder
	for i, d := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Document %d:\n%s", i+1, d.Text)
	}
	return b.String()
}

func joinTexts(docs []domain.Document) string {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	return strings.Join(texts, "\n\n")
}

// dedupSources returns one document per distinct source, preserving the
// retrieval order.
func dedupSources(docs []domain.Document) []domain.Document {
	seen := make(map[string]bool, len(docs))
	sources := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		key := d.Source() + "\x00" + d.Title()
		if seen[key] {
			continue
		}
		seen[key] = true
		sources = append(sources, d)
	}
	return sources
}
