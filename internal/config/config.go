// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (GTUTOR_* overrides)
//  2. Config file (~/.gtutor/config.yaml)
//  3. Default values
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidChunkSize indicates the chunk size is not positive.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrInvalidTopN indicates the retrieval result count is out of range.
	ErrInvalidTopN = errors.New("invalid top n")

	// ErrInvalidFetchTimeout indicates the remote fetch timeout is out of range.
	ErrInvalidFetchTimeout = errors.New("invalid fetch timeout")

	// ErrInvalidDataDir indicates the data directory is empty.
	ErrInvalidDataDir = errors.New("invalid data directory")
)

const (
	// DefaultChunkSize is the default chunk size in characters for
	// PDF text splitting.
	DefaultChunkSize = 1000

	// DefaultTopN is the default number of passages retrieved per query.
	DefaultTopN = 5

	// DefaultFetchTimeout is the default timeout for downloading a PDF by URL.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultGeminiModel is the default Gemini completion model.
	DefaultGeminiModel = "gemini-2.5-flash"

	// DefaultGeminiEmbedderModel is the default Gemini embedder model.
	DefaultGeminiEmbedderModel = "text-embedding-004"
)

// Config stores application configuration.
type Config struct {
	// DataDir is the root of all persisted state: subjects.json, per-subject
	// passage stores and chat histories.
	DataDir string `mapstructure:"data_dir"`

	// AI model configuration
	ModelName     string  `mapstructure:"model_name"`
	EmbedderModel string  `mapstructure:"embedder_model"`
	Temperature   float32 `mapstructure:"temperature"`
	MaxTokens     int     `mapstructure:"max_tokens"`

	// Ingestion and retrieval configuration
	ChunkSize           int `mapstructure:"chunk_size"`
	TopN                int `mapstructure:"top_n"`
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".gtutor")

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v, configDir)

	v.SetEnvPrefix("GTUTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values.
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// Fail-fast on nonsense values.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("data_dir", configDir)

	v.SetDefault("model_name", DefaultGeminiModel)
	v.SetDefault("embedder_model", DefaultGeminiEmbedderModel)
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_tokens", 2048)

	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("top_n", DefaultTopN)
	v.SetDefault("fetch_timeout_seconds", int(DefaultFetchTimeout/time.Second))
}

// Validate checks configuration values for consistency.
// Returns a sentinel error (wrapped with detail) on the first violation.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return ErrInvalidDataDir
	}
	if strings.TrimSpace(c.ModelName) == "" {
		return ErrInvalidModelName
	}
	if strings.TrimSpace(c.EmbedderModel) == "" {
		return ErrInvalidEmbedderModel
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %v (must be in [0, 2])", ErrInvalidTemperature, c.Temperature)
	}
	// Upper bound keeps the value representable as an int32 for the
	// generation request config.
	if c.MaxTokens < 1 || c.MaxTokens > math.MaxInt32 {
		return fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidMaxTokens, c.MaxTokens, math.MaxInt32)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidChunkSize, c.ChunkSize)
	}
	if c.TopN < 1 || c.TopN > 100 {
		return fmt.Errorf("%w: %d (must be in [1, 100])", ErrInvalidTopN, c.TopN)
	}
	if c.FetchTimeoutSeconds < 1 || c.FetchTimeoutSeconds > 300 {
		return fmt.Errorf("%w: %d (must be in [1, 300] seconds)", ErrInvalidFetchTimeout, c.FetchTimeoutSeconds)
	}
	return nil
}

// FullModelName returns the provider-qualified model name for Genkit.
// Example: "googleai/gemini-2.5-flash".
// If ModelName already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	return "googleai/" + c.ModelName
}

// FetchTimeout returns the remote fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// SubjectsFile returns the path of the persisted subject registry.
func (c *Config) SubjectsFile() string {
	return filepath.Join(c.DataDir, "subjects.json")
}

// StoreDir returns the directory holding per-subject passage stores.
func (c *Config) StoreDir() string {
	return filepath.Join(c.DataDir, "dbs")
}

// HistoryDir returns the directory holding per-subject chat histories.
func (c *Config) HistoryDir() string {
	return filepath.Join(c.DataDir, "chat_histories")
}
