// Command ragdex-index builds the persisted vector index offline, so server
// startup only has to load the snapshot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/config"
	logpkg "github.com/kailas-cloud/ragdex/internal/logger"
	"github.com/kailas-cloud/ragdex/internal/metrics"
	"github.com/kailas-cloud/ragdex/internal/repository/corpus"
	indexrepo "github.com/kailas-cloud/ragdex/internal/repository/index"
	openaiTransport "github.com/kailas-cloud/ragdex/internal/transport/openai"
	"github.com/kailas-cloud/ragdex/internal/usecase/lifecycle"
	"github.com/kailas-cloud/ragdex/internal/version"
)

func main() {
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Building index",
		zap.String("version", version.Version),
		zap.String("index_path", cfg.Index.Path),
		zap.Int("corpus_urls", len(cfg.Corpus.URLs)),
	)

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRAGMetrics()

	// Batch embedding straight against the provider; no cache store is
	// needed for a one-shot build.
	embedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	loader := corpus.NewLoader(corpus.Config{
		URLs:         cfg.Corpus.URLs,
		ChunkSize:    cfg.Corpus.ChunkSize,
		ChunkOverlap: cfg.Corpus.ChunkOverlap,
		FetchTimeout: time.Duration(cfg.Corpus.FetchTimeoutSec) * time.Second,
		Logger:       logger,
	})

	svc := lifecycle.New(loader, embedder, indexrepo.NewStore(logger), cfg.Index.Path, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.EnsureReady(ctx); err != nil {
		logger.Fatal("Index build failed", zap.Error(err))
	}

	status := svc.Status()
	logger.Info("Index build complete",
		zap.String("state", string(status.State)),
		zap.Int("documents", status.Documents),
		zap.String("path", cfg.Index.Path),
	)
}
