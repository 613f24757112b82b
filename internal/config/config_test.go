package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setHome points HOME at a temp directory so Load reads pure defaults.
func setHome(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	return tmp
}

func TestLoadDefaults(t *testing.T) {
	tmp := setHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DataDir != filepath.Join(tmp, ".gtutor") {
		t.Errorf("expected default DataDir under HOME, got %q", cfg.DataDir)
	}
	if cfg.ModelName != DefaultGeminiModel {
		t.Errorf("expected default ModelName %q, got %q", DefaultGeminiModel, cfg.ModelName)
	}
	if cfg.EmbedderModel != DefaultGeminiEmbedderModel {
		t.Errorf("expected default EmbedderModel %q, got %q", DefaultGeminiEmbedderModel, cfg.EmbedderModel)
	}
	if cfg.ChunkSize != DefaultChunkSize {
		t.Errorf("expected default ChunkSize %d, got %d", DefaultChunkSize, cfg.ChunkSize)
	}
	if cfg.TopN != DefaultTopN {
		t.Errorf("expected default TopN %d, got %d", DefaultTopN, cfg.TopN)
	}
	if cfg.FetchTimeout() != DefaultFetchTimeout {
		t.Errorf("expected default FetchTimeout %v, got %v", DefaultFetchTimeout, cfg.FetchTimeout())
	}
}

func TestLoadEnvOverride(t *testing.T) {
	setHome(t)
	t.Setenv("GTUTOR_CHUNK_SIZE", "500")
	t.Setenv("GTUTOR_MODEL_NAME", "gemini-2.5-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ChunkSize != 500 {
		t.Errorf("expected ChunkSize 500 from env, got %d", cfg.ChunkSize)
	}
	if cfg.ModelName != "gemini-2.5-pro" {
		t.Errorf("expected ModelName from env, got %q", cfg.ModelName)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmp := setHome(t)

	configDir := filepath.Join(tmp, ".gtutor")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	yaml := "top_n: 3\nfetch_timeout_seconds: 20\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.TopN != 3 {
		t.Errorf("expected TopN 3 from file, got %d", cfg.TopN)
	}
	if cfg.FetchTimeout() != 20*time.Second {
		t.Errorf("expected FetchTimeout 20s from file, got %v", cfg.FetchTimeout())
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		DataDir:             "/tmp/gtutor",
		ModelName:           DefaultGeminiModel,
		EmbedderModel:       DefaultGeminiEmbedderModel,
		Temperature:         0.7,
		MaxTokens:           2048,
		ChunkSize:           1000,
		TopN:                5,
		FetchTimeoutSeconds: 10,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"empty data dir", func(c *Config) { c.DataDir = " " }, ErrInvalidDataDir},
		{"empty model", func(c *Config) { c.ModelName = "" }, ErrInvalidModelName},
		{"empty embedder", func(c *Config) { c.EmbedderModel = "" }, ErrInvalidEmbedderModel},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, ErrInvalidTemperature},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, ErrInvalidMaxTokens},
		{"max tokens beyond int32", func(c *Config) { c.MaxTokens = math.MaxInt32 + 1 }, ErrInvalidMaxTokens},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, ErrInvalidChunkSize},
		{"negative top n", func(c *Config) { c.TopN = -1 }, ErrInvalidTopN},
		{"zero fetch timeout", func(c *Config) { c.FetchTimeoutSeconds = 0 }, ErrInvalidFetchTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFullModelName(t *testing.T) {
	c := Config{ModelName: "gemini-2.5-flash"}
	if got := c.FullModelName(); got != "googleai/gemini-2.5-flash" {
		t.Errorf("FullModelName() = %q", got)
	}

	c.ModelName = "googleai/gemini-2.5-pro"
	if got := c.FullModelName(); got != "googleai/gemini-2.5-pro" {
		t.Errorf("FullModelName() with qualified name = %q", got)
	}
}

func TestLayoutPaths(t *testing.T) {
	c := Config{DataDir: "/data"}
	if got := c.SubjectsFile(); got != filepath.Join("/data", "subjects.json") {
		t.Errorf("SubjectsFile() = %q", got)
	}
	if got := c.StoreDir(); got != filepath.Join("/data", "dbs") {
		t.Errorf("StoreDir() = %q", got)
	}
	if got := c.HistoryDir(); got != filepath.Join("/data", "chat_histories") {
		t.Errorf("HistoryDir() = %q", got)
	}
}
