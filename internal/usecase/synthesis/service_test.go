package synthesis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

type mockGenerator struct {
	answer      string
	err         error
	lastSystem  string
	lastContext string
	lastQuery   string
	calls       int
}

func (m *mockGenerator) Generate(_ context.Context, system, contextText, query string) (string, error) {
	m.calls++
	m.lastSystem = system
	m.lastContext = contextText
	m.lastQuery = query
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func doc(text, source, title string) domain.Document {
	return domain.Document{
		Text: text,
		Metadata: map[string]string{
			domain.MetaSource: source,
			domain.MetaTitle:  title,
		},
	}
}

func TestSynthesizeEmptyDocs(t *testing.T) {
	gen := &mockGenerator{answer: "should not be used"}
	svc := New(gen, nil)

	got := svc.Synthesize(context.Background(), "q", nil, true)

	if got.Answer != noInformationAnswer {
		t.Errorf("expected the fixed no-information answer, got %q", got.Answer)
	}
	if got.Sources != nil {
		t.Errorf("no sources expected for empty retrieval, got %v", got.Sources)
	}
	if gen.calls != 0 {
		t.Errorf("generator must not run on empty retrieval, got %d calls", gen.calls)
	}
}

func TestSynthesizeBuildsNumberedContext(t *testing.T) {
	gen := &mockGenerator{answer: "generated answer"}
	svc := New(gen, nil)
	docs := []domain.Document{
		doc("first passage", "http://a", "A"),
		doc("second passage", "http://b", "B"),
	}

	got := svc.Synthesize(context.Background(), "the question", docs, false)

	if got.Answer != "generated answer" {
		t.Errorf("unexpected answer: %q", got.Answer)
	}
	want := "Document 1:\nfirst passage\n\nDocument 2:\nsecond passage"
	if gen.lastContext != want {
		t.Errorf("context mismatch:\ngot  %q\nwant %q", gen.lastContext, want)
	}
	if gen.lastQuery != "the question" {
		t.Errorf("unexpected query: %q", gen.lastQuery)
	}
	if !strings.Contains(gen.lastSystem, "only the information") {
		t.Errorf("system prompt must constrain answers to the context, got %q", gen.lastSystem)
	}
}

func TestSynthesizeDegradesWithoutGenerator(t *testing.T) {
	svc := New(nil, nil)
	docs := []domain.Document{
		doc("alpha", "http://a", "A"),
		doc("beta", "http://b", "B"),
	}

	got := svc.Synthesize(context.Background(), "q", docs, false)

	if got.Answer != "alpha\n\nbeta" {
		t.Errorf("expected concatenated passages, got %q", got.Answer)
	}
}

func TestSynthesizeDegradesOnGeneratorError(t *testing.T) {
	gen := &mockGenerator{err: errors.New("model overloaded")}
	svc := New(gen, nil)
	docs := []domain.Document{doc("alpha", "http://a", "A")}

	got := svc.Synthesize(context.Background(), "q", docs, false)

	if got.Answer != "alpha" {
		t.Errorf("generation failure must degrade to passages, got %q", got.Answer)
	}
}

func TestSynthesizeSourceDeduplication(t *testing.T) {
	gen := &mockGenerator{answer: "a"}
	svc := New(gen, nil)
	docs := []domain.Document{
		doc("chunk 1", "http://a", "A"),
		doc("chunk 2", "http://a", "A"),
		doc("chunk 3", "http://b", "B"),
		doc("chunk 4", "http://a", "A"),
	}

	got := svc.Synthesize(context.Background(), "q", docs, true)

	if len(got.Sources) != 2 {
		t.Fatalf("expected 2 deduplicated sources, got %d", len(got.Sources))
	}
	if got.Sources[0].Source() != "http://a" || got.Sources[1].Source() != "http://b" {
		t.Errorf("sources must keep retrieval order, got %v", got.Sources)
	}
}

func TestSynthesizeWithoutSourcesFlag(t *testing.T) {
	gen := &mockGenerator{answer: "a"}
	svc := New(gen, nil)
	docs := []domain.Document{doc("chunk", "http://a", "A")}

	got := svc.Synthesize(context.Background(), "q", docs, false)
	if got.Sources != nil {
		t.Errorf("sources must be omitted unless requested, got %v", got.Sources)
	}
}
