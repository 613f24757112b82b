package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/pruthakjani5/gtutor/internal/config"
	"github.com/pruthakjani5/gtutor/internal/document"
	"github.com/pruthakjani5/gtutor/internal/history"
	"github.com/pruthakjani5/gtutor/internal/log"
	"github.com/pruthakjani5/gtutor/internal/passage"
	"github.com/pruthakjani5/gtutor/internal/subject"
	"github.com/pruthakjani5/gtutor/internal/tutor"
)

// app bundles everything a command needs after startup.
type app struct {
	Config *config.Config
	Logger log.Logger
	Tutor  *tutor.Tutor
}

// setup loads configuration, initializes Genkit with the Gemini provider,
// and assembles the tutoring pipeline. Call Close when done.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Please run:")
		fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
		return nil, errors.New("GEMINI_API_KEY not set")
	}

	logger := log.New(log.Config{Level: slog.LevelWarn})
	if os.Getenv("GTUTOR_DEBUG") != "" {
		logger = log.New(log.Config{Level: slog.LevelDebug})
	}

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with gemini provider")
	}
	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}

	registry, err := subject.Open(cfg.SubjectsFile())
	if err != nil {
		return nil, err
	}
	stores := passage.NewStores(cfg.StoreDir(), embedder, logger)
	histories, err := history.NewStore(cfg.HistoryDir())
	if err != nil {
		return nil, err
	}

	t := tutor.New(g, tutor.Options{
		ModelName:   cfg.FullModelName(),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		ChunkSize:   cfg.ChunkSize,
		TopN:        cfg.TopN,
	}, registry, stores, histories, document.NewFetcher(cfg.FetchTimeout()), logger)

	return &app{Config: cfg, Logger: logger, Tutor: t}, nil
}

// Close releases resources held by the pipeline.
func (a *app) Close() error {
	return a.Tutor.Close()
}
