package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the ragdex server configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Cache      CacheConfig      `yaml:"cache"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Index      IndexConfig      `yaml:"index"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds embedding cache store settings.
// An empty address list disables caching entirely.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	TTLHours         int      `yaml:"ttl_hours"` // 0 keeps embeddings forever
}

// Enabled reports whether a cache store is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// CorpusConfig holds corpus fetching and chunking settings.
type CorpusConfig struct {
	URLs            []string `yaml:"urls"`
	ChunkSize       int      `yaml:"chunk_size"`    // characters per chunk
	ChunkOverlap    int      `yaml:"chunk_overlap"` // characters carried between chunks
	FetchTimeoutSec int      `yaml:"fetch_timeout_sec"`
}

// IndexConfig holds vector index persistence settings.
type IndexConfig struct {
	Path string `yaml:"path"` // snapshot location; presence decides build vs load
}

// RetrievalConfig holds default retrieval parameters.
type RetrievalConfig struct {
	TopK      int     `yaml:"top_k"`
	FetchK    int     `yaml:"fetch_k"`
	Diversity float64 `yaml:"diversity"` // MMR lambda: 1 = pure similarity, 0 = maximum spread
}

// EmbeddingConfig holds embedding provider settings (OpenAI-compatible API).
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// GenerationConfig holds generation settings (OpenAI-compatible chat API,
// e.g. a local Ollama endpoint). An empty model leaves generation
// unconfigured and answers degrade to raw retrieved passages.
type GenerationConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// Enabled reports whether a generation model is configured.
func (c GenerationConfig) Enabled() bool { return c.Model != "" }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 2000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Corpus.ChunkSize <= 0 {
		c.Corpus.ChunkSize = 1000
	}
	if c.Corpus.ChunkOverlap <= 0 {
		c.Corpus.ChunkOverlap = 100
	}
	if c.Corpus.FetchTimeoutSec <= 0 {
		c.Corpus.FetchTimeoutSec = 30
	}
	if c.Index.Path == "" {
		c.Index.Path = filepath.Join("data", "index.vecgo")
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.FetchK <= 0 {
		c.Retrieval.FetchK = 20
	}
	if c.Retrieval.Diversity == 0 {
		c.Retrieval.Diversity = 0.7
	}
	if c.Generation.Temperature == 0 {
		c.Generation.Temperature = 0.1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Corpus.URLs) == 0 {
		return fmt.Errorf("corpus.urls is required")
	}
	if c.Corpus.ChunkOverlap >= c.Corpus.ChunkSize {
		return fmt.Errorf("corpus.chunk_overlap (%d) must be smaller than corpus.chunk_size (%d)",
			c.Corpus.ChunkOverlap, c.Corpus.ChunkSize)
	}
	if c.Retrieval.TopK > c.Retrieval.FetchK {
		return fmt.Errorf("retrieval.top_k (%d) must not exceed retrieval.fetch_k (%d)",
			c.Retrieval.TopK, c.Retrieval.FetchK)
	}
	if c.Retrieval.Diversity < 0 || c.Retrieval.Diversity > 1 {
		return fmt.Errorf("retrieval.diversity must be within [0,1], got %v", c.Retrieval.Diversity)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
