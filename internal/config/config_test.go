package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 2000},
		Corpus:    CorpusConfig{URLs: []string{"https://example.com/a"}},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingCorpusURLs(t *testing.T) {
	cfg := validConfig()
	cfg.Corpus.URLs = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing corpus urls")
	}
}

func TestValidate_TopKExceedsFetchK(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.TopK = 30
	cfg.Retrieval.FetchK = 20

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for top_k > fetch_k")
	}
	if !strings.Contains(err.Error(), "top_k") {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestValidate_DiversityRange(t *testing.T) {
	for _, d := range []float64{-0.1, 1.1} {
		cfg := validConfig()
		cfg.Retrieval.Diversity = d
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for diversity %v", d)
		}
	}
	for _, d := range []float64{0.001, 0.7, 1.0} {
		cfg := validConfig()
		cfg.Retrieval.Diversity = d
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error for diversity %v: %v", d, err)
		}
	}
}

func TestValidate_ChunkOverlapTooLarge(t *testing.T) {
	cfg := validConfig()
	cfg.Corpus.ChunkSize = 100
	cfg.Corpus.ChunkOverlap = 100

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for chunk_overlap >= chunk_size")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Corpus.ChunkSize != 1000 || cfg.Corpus.ChunkOverlap != 100 {
		t.Errorf("unexpected chunking defaults: size=%d overlap=%d",
			cfg.Corpus.ChunkSize, cfg.Corpus.ChunkOverlap)
	}
	if cfg.Retrieval.TopK != 5 || cfg.Retrieval.FetchK != 20 {
		t.Errorf("unexpected retrieval defaults: top_k=%d fetch_k=%d",
			cfg.Retrieval.TopK, cfg.Retrieval.FetchK)
	}
	if cfg.Retrieval.Diversity != 0.7 {
		t.Errorf("unexpected diversity default: %v", cfg.Retrieval.Diversity)
	}
	if cfg.Index.Path == "" {
		t.Error("index path default not applied")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("RAGDEX_TEST_KEY", "secret")

	in := []byte("api_key: ${RAGDEX_TEST_KEY}\nbase_url: ${RAGDEX_TEST_URL:-http://localhost:11434/v1}\n")
	out := string(expandEnvVars(in))

	if !strings.Contains(out, "api_key: secret") {
		t.Errorf("env var not expanded: %q", out)
	}
	if !strings.Contains(out, "base_url: http://localhost:11434/v1") {
		t.Errorf("default not applied: %q", out)
	}
}

func TestCacheConfig_Enabled(t *testing.T) {
	if (CacheConfig{}).Enabled() {
		t.Error("empty cache config must be disabled")
	}
	if !(CacheConfig{Addrs: []string{"localhost:6379"}}).Enabled() {
		t.Error("cache config with addrs must be enabled")
	}
}
