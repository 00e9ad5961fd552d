package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Lectern
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	API       APIConfig       `mapstructure:"api"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Vector    VectorConfig    `mapstructure:"vector"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	RAG       RAGConfig       `mapstructure:"rag"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// APIConfig holds API access configuration. An empty key disables auth.
type APIConfig struct {
	Key string `mapstructure:"key"`
}

// DatabaseConfig holds the course catalog database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// VectorConfig selects and configures the vector index backend
type VectorConfig struct {
	Backend string       `mapstructure:"backend"` // memory, qdrant, duckdb
	Qdrant  QdrantConfig `mapstructure:"qdrant"`
	DuckDB  DuckDBConfig `mapstructure:"duckdb"`
}

// QdrantConfig holds the Qdrant REST backend configuration
type QdrantConfig struct {
	URL         string `mapstructure:"url"`
	APIKey      string `mapstructure:"api_key"`
	Collection  string `mapstructure:"collection"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// DuckDBConfig holds the embedded DuckDB backend configuration
type DuckDBConfig struct {
	Path string `mapstructure:"path"`
}

// EmbeddingConfig holds the embedding provider configuration
type EmbeddingConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	Dimension   int    `mapstructure:"dimension"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// AnthropicConfig holds the reasoning engine configuration
type AnthropicConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	MaxTokens   int    `mapstructure:"max_tokens"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// RAGConfig holds chunking, retrieval and session configuration
type RAGConfig struct {
	ChunkSize    int    `mapstructure:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap"`
	MaxResults   int    `mapstructure:"max_results"`
	MaxHistory   int    `mapstructure:"max_history"`
	DocsDir      string `mapstructure:"docs_dir"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("LECTERN")
	v.AutomaticEnv()

	// The conventional variable names work without the prefix
	v.BindEnv("anthropic.api_key", "LECTERN_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	v.BindEnv("embedding.api_key", "LECTERN_EMBEDDING_API_KEY", "OPENAI_API_KEY")

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)

	v.SetDefault("api.key", "")

	v.SetDefault("database.path", "./data/lectern.db")

	v.SetDefault("vector.backend", "memory")
	v.SetDefault("vector.qdrant.url", "http://localhost:6333")
	v.SetDefault("vector.qdrant.api_key", "")
	v.SetDefault("vector.qdrant.collection", "course_content")
	v.SetDefault("vector.qdrant.timeout_secs", 15)
	v.SetDefault("vector.duckdb.path", "./data/vectors.duckdb")

	v.SetDefault("embedding.base_url", "http://localhost:11434/v1")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.model", "nomic-embed-text")
	v.SetDefault("embedding.dimension", 768)
	v.SetDefault("embedding.timeout_secs", 30)

	v.SetDefault("anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 800)
	v.SetDefault("anthropic.timeout_secs", 60)

	v.SetDefault("rag.chunk_size", 800)
	v.SetDefault("rag.chunk_overlap", 100)
	v.SetDefault("rag.max_results", 5)
	v.SetDefault("rag.max_history", 2)
	v.SetDefault("rag.docs_dir", "./docs")
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// EmbeddingTimeout returns the embedding client timeout
func (c *Config) EmbeddingTimeout() time.Duration {
	return time.Duration(c.Embedding.TimeoutSecs) * time.Second
}

// AnthropicTimeout returns the reasoning engine call timeout
func (c *Config) AnthropicTimeout() time.Duration {
	return time.Duration(c.Anthropic.TimeoutSecs) * time.Second
}

// QdrantTimeout returns the Qdrant client timeout
func (c *Config) QdrantTimeout() time.Duration {
	return time.Duration(c.Vector.Qdrant.TimeoutSecs) * time.Second
}
