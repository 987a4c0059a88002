package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// maxBodyBytes caps a single fetched page to keep pathological sources from
// exhausting memory during index builds.
const maxBodyBytes = 10 << 20

// Loader fetches the configured corpus URLs and splits the extracted text
// into overlapping chunks suitable for indexing.
type Loader struct {
	client  *http.Client
	urls    []string
	chunker *Chunker
	logger  *zap.Logger
}

// Config holds corpus loader settings.
type Config struct {
	URLs         []string
	ChunkSize    int
	ChunkOverlap int
	FetchTimeout time.Duration
	Logger       *zap.Logger
}

// NewLoader creates a corpus loader.
func NewLoader(cfg Config) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		client:  &http.Client{Timeout: cfg.FetchTimeout},
		urls:    cfg.URLs,
		chunker: NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		logger:  logger,
	}
}

// Load fetches every configured URL and returns the chunked documents in
// source order. Any fetch or parse failure aborts the load: a partially
// fetched corpus must not be silently indexed.
func (l *Loader) Load(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document

	for _, u := range l.urls {
		page, err := l.fetch(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch %s: %w", domain.ErrCorpusLoad, u, err)
		}

		chunks := l.chunker.Split(page.text)
		l.logger.Info("Fetched corpus source",
			zap.String("url", u),
			zap.String("title", page.title),
			zap.Int("chunks", len(chunks)),
		)

		for i, text := range chunks {
			docs = append(docs, domain.Document{
				Text: text,
				Metadata: map[string]string{
					domain.MetaSource:     u,
					domain.MetaTitle:      page.title,
					domain.MetaChunkIndex: strconv.Itoa(i),
				},
			})
		}
	}

	return docs, nil
}

type page struct {
	title string
	text  string
}

func (l *Loader) fetch(ctx context.Context, url string) (page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ragdex/1.0")

	resp, err := l.client.Do(req)
	if err != nil {
		return page{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return page{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return page{}, fmt.Errorf("read body: %w", err)
	}

	raw := string(body)
	return page{
		title: extractTitle(raw, url),
		text:  stripHTML(raw),
	}, nil
}
