// ABOUTME: Centralized configuration for the fluency checker CLI and MCP server
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Model providers
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Cache backends
const (
	CacheNone   = "none"
	CacheSQLite = "sqlite"
	CacheCharm  = "charm"
)

// Config holds all configuration for the fluency checker
type Config struct {
	// Model settings
	Provider    string
	OpenAIKey   string
	OpenAIURL   string
	ChatModel   string
	OllamaURL   string
	OllamaModel string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration

	// Analysis settings
	Splitter     string
	Prompt       string
	ChunkSize    int
	ChunkOverlap int
	Concurrency  int
	DegradeOnErr bool

	// Cache settings
	Cache       string
	CachePath   string
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Provider:     getEnv("FLUENCY_PROVIDER", ProviderOpenAI),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIURL:    os.Getenv("OPENAI_BASE_URL"),
		ChatModel:    getEnv("FLUENCY_OPENAI_MODEL", "gpt-4o-mini"),
		OllamaURL:    getEnv("FLUENCY_OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:  getEnv("FLUENCY_OLLAMA_MODEL", "llama3.1"),
		Timeout:      getEnvDuration("FLUENCY_TIMEOUT", 30*time.Second),
		MaxRetries:   getEnvInt("FLUENCY_MAX_RETRIES", 3),
		RetryDelay:   getEnvDuration("FLUENCY_RETRY_DELAY", 2*time.Second),
		Splitter:     getEnv("FLUENCY_SPLITTER", "markdown"),
		Prompt:       getEnv("FLUENCY_PROMPT", "text"),
		ChunkSize:    getEnvInt("FLUENCY_CHUNK_SIZE", 500),
		ChunkOverlap: getEnvInt("FLUENCY_CHUNK_OVERLAP", 50),
		Concurrency:  getEnvInt("FLUENCY_CONCURRENCY", 1),
		DegradeOnErr: getEnvBool("FLUENCY_DEGRADE_ON_ERROR", false),
		Cache:        getEnv("FLUENCY_CACHE", CacheNone),
		CachePath:    getEnv("FLUENCY_CACHE_PATH", DefaultCachePath()),
		CharmHost:    getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:  getEnv("CHARM_DB", "fluency"),
		AutoSync:     getEnvBool("CHARM_AUTO_SYNC", true),
		LogLevel:     getEnv("FLUENCY_LOG_LEVEL", "info"),
		LogJSON:      getEnvBool("FLUENCY_LOG_JSON", false),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("FLUENCY_PROVIDER must be %s or %s, got %q", ProviderOpenAI, ProviderOllama, c.Provider)
	}
	switch c.Cache {
	case CacheNone, CacheSQLite, CacheCharm:
	default:
		return fmt.Errorf("FLUENCY_CACHE must be none, sqlite or charm, got %q", c.Cache)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("FLUENCY_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Concurrency < 1 || c.Concurrency > 64 {
		return fmt.Errorf("FLUENCY_CONCURRENCY must be 1-64, got %d", c.Concurrency)
	}
	// Chunk size and overlap are checked by the splitter itself
	return nil
}

// DefaultDataDir returns the data directory under XDG_DATA_HOME
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "fluency")
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "fluency")
}

// DefaultCachePath returns the default SQLite cache file path
func DefaultCachePath() string {
	return filepath.Join(DefaultDataDir(), "cache.db")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
