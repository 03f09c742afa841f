package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Staging     StagingConfig `toml:"staging"`
	Chunker     ChunkerConfig `toml:"chunker"`
	Qdrant      QdrantConfig  `toml:"qdrant"`
	LLM         LLMConfig     `toml:"llm"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Claude      ClaudeConfig  `toml:"claude"`
	Ingest      IngestConfig  `toml:"ingest"`
	Reindex     ReindexConfig `toml:"reindex"`
	Logging     LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	SQLite SQLiteConfig `toml:"sqlite"`
}

// SQLiteConfig represents the relational store configuration.
// The FAQ table is the authoritative record; the vector index is derived.
type SQLiteConfig struct {
	Path          string `toml:"path" validate:"required"` // Database file path
	CacheSizeMB   int    `toml:"cache_size_mb"`
	BusyTimeoutMS int    `toml:"busy_timeout_ms"`
	WALMode       bool   `toml:"wal_mode"`
}

// StagingConfig describes the directory scanned for policy documents
type StagingConfig struct {
	Dir        string   `toml:"dir" validate:"required"` // Staging directory path
	Extensions []string `toml:"extensions"`              // Document suffixes to ingest (default: [".pdf"])
}

// ChunkerConfig controls how extracted text is windowed before synthesis
type ChunkerConfig struct {
	WindowSize int `toml:"window_size" validate:"gt=0"`
	Overlap    int `toml:"overlap" validate:"gte=0,ltfield=WindowSize"`
}

// QdrantConfig contains vector index connection and collection settings
type QdrantConfig struct {
	URL        string `toml:"url" validate:"required,url"`
	APIKey     string `toml:"api_key"`
	Collection string `toml:"collection" validate:"required"`
	Dimension  int    `toml:"dimension" validate:"gt=0"` // Fixed at collection creation
	Timeout    string `toml:"timeout"`                   // Per-call timeout as duration string (default: "5s")
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the chat provider used for QA synthesis.
// Embeddings always use Gemini regardless of this setting.
type LLMConfig struct {
	Provider LLMProvider `toml:"provider" validate:"oneof=gemini claude"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`     // Google Gemini API key (GEMINI_API_KEY env fallback)
	Model          string  `toml:"model"`       // Chat model (default: "gemini-2.0-flash")
	EmbedModel     string  `toml:"embed_model"` // Embedding model (default: "gemini-embedding-001")
	EmbedDimension int     `toml:"embed_dimension" validate:"gt=0"`
	Timeout        string  `toml:"timeout"`       // Chat timeout as duration string (default: "60s")
	EmbedTimeout   string  `toml:"embed_timeout"` // Embedding timeout as duration string (default: "10s")
	RateLimit      string  `toml:"rate_limit"`    // Minimum interval between calls (default: "1s")
	Temperature    float32 `toml:"temperature"`
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`    // Anthropic API key (ANTHROPIC_API_KEY env fallback)
	Model       string  `toml:"model"`      // Chat model (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"` // Maximum tokens in response (default: 8192)
	Timeout     string  `toml:"timeout"`    // Chat timeout as duration string (default: "60s")
	RateLimit   string  `toml:"rate_limit"` // Minimum interval between calls (default: "1s")
	Temperature float32 `toml:"temperature"`
}

// IngestConfig controls ingestion behavior and the optional cron schedule
type IngestConfig struct {
	Schedule    string `toml:"schedule"`     // Cron schedule; empty disables scheduled ingestion
	MaxAttempts int    `toml:"max_attempts"` // Retry budget for LLM and index calls (default: 3)
}

// ReindexConfig controls the reindex worker pool
type ReindexConfig struct {
	Workers int `toml:"workers" validate:"gt=0"` // Parallel embed+upsert workers (default: 10)
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in poli.toml; technical
// parameters are fixed here.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			SQLite: SQLiteConfig{
				Path:          "./data/poli.db",
				CacheSizeMB:   64,
				BusyTimeoutMS: 5000,
				WALMode:       true,
			},
		},
		Staging: StagingConfig{
			Dir:        "./data/staging",
			Extensions: []string{".pdf"},
		},
		Chunker: ChunkerConfig{
			WindowSize: 1000,
			Overlap:    100,
		},
		Qdrant: QdrantConfig{
			URL:        "http://localhost:6333",
			Collection: "poli_embeddings",
			Dimension:  3072,
			Timeout:    "5s",
		},
		LLM: LLMConfig{
			Provider: LLMProviderGemini,
		},
		Gemini: GeminiConfig{
			APIKey:         "",
			Model:          "gemini-2.0-flash",
			EmbedModel:     "gemini-embedding-001",
			EmbedDimension: 3072,
			Timeout:        "60s",
			EmbedTimeout:   "10s",
			RateLimit:      "1s",
			Temperature:    0.2,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "60s",
			RateLimit:   "1s",
			Temperature: 0.2,
		},
		Ingest: IngestConfig{
			Schedule:    "",
			MaxAttempts: 3,
		},
		Reindex: ReindexConfig{
			Workers: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks structural constraints that would otherwise surface as
// runtime failures deep in the pipeline (chunker window/overlap, vector
// dimension, provider name).
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Gemini.EmbedDimension != c.Qdrant.Dimension {
		return fmt.Errorf("invalid configuration: gemini.embed_dimension (%d) must match qdrant.dimension (%d)", c.Gemini.EmbedDimension, c.Qdrant.Dimension)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("POLI_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("POLI_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("POLI_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage and staging
	if path := os.Getenv("POLI_DB_PATH"); path != "" {
		config.Storage.SQLite.Path = path
	}
	if dir := os.Getenv("POLI_STAGING_DIR"); dir != "" {
		config.Staging.Dir = dir
	}

	// Vector index
	if url := os.Getenv("POLI_QDRANT_URL"); url != "" {
		config.Qdrant.URL = url
	}
	if key := os.Getenv("POLI_QDRANT_API_KEY"); key != "" {
		config.Qdrant.APIKey = key
	}
	if collection := os.Getenv("POLI_QDRANT_COLLECTION"); collection != "" {
		config.Qdrant.Collection = collection
	}
	if dim := os.Getenv("POLI_QDRANT_DIMENSION"); dim != "" {
		if d, err := strconv.Atoi(dim); err == nil {
			config.Qdrant.Dimension = d
			config.Gemini.EmbedDimension = d
		}
	}

	// LLM providers
	if provider := os.Getenv("POLI_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = LLMProvider(provider)
	}
	if key := os.Getenv("POLI_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if model := os.Getenv("POLI_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if key := os.Getenv("POLI_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if model := os.Getenv("POLI_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	// Ingestion
	if schedule := os.Getenv("POLI_INGEST_SCHEDULE"); schedule != "" {
		config.Ingest.Schedule = schedule
	}
	if workers := os.Getenv("POLI_REINDEX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			config.Reindex.Workers = w
		}
	}

	// Logging
	if level := os.Getenv("POLI_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("POLI_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
