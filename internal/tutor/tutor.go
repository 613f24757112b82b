// Package tutor wires the pipeline together: subject registry, per-subject
// passage stores and histories, PDF ingestion, and answer generation.
//
// All public operations return explicit success-or-failure results; no
// failure escapes as a panic, and no operation retries on its own.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"

	"github.com/pruthakjani5/gtutor/internal/document"
	"github.com/pruthakjani5/gtutor/internal/history"
	"github.com/pruthakjani5/gtutor/internal/passage"
	"github.com/pruthakjani5/gtutor/internal/prompt"
	"github.com/pruthakjani5/gtutor/internal/subject"
)

// ErrGeneration indicates the completion service failed to produce an
// answer. The conversation is not recorded when this occurs.
var ErrGeneration = errors.New("answer generation failed")

// Options configures model selection and pipeline tuning.
type Options struct {
	ModelName   string
	Temperature float32
	MaxTokens   int
	ChunkSize   int
	TopN        int
}

// Tutor is the question-answering pipeline facade.
type Tutor struct {
	genkit    *genkit.Genkit
	opts      Options
	registry  *subject.Registry
	stores    *passage.Stores
	histories *history.Store
	fetcher   *document.Fetcher
	logger    *slog.Logger
}

// New assembles a Tutor from its collaborators.
func New(
	g *genkit.Genkit,
	opts Options,
	registry *subject.Registry,
	stores *passage.Stores,
	histories *history.Store,
	fetcher *document.Fetcher,
	logger *slog.Logger,
) *Tutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tutor{
		genkit:    g,
		opts:      opts,
		registry:  registry,
		stores:    stores,
		histories: histories,
		fetcher:   fetcher,
		logger:    logger,
	}
}

// Subjects lists all registered subject names.
func (t *Tutor) Subjects() []string {
	return t.registry.List()
}

// CreateSubject registers a new subject. Creating a name that already
// exists (case-insensitively) is a no-op.
func (t *Tutor) CreateSubject(name string) error {
	return t.registry.Create(name)
}

// DeleteSubject removes a subject from the registry along with its
// passage store and chat history. Returns subject.ErrNotFound for an
// unknown subject.
func (t *Tutor) DeleteSubject(name string) error {
	if err := t.registry.Delete(name); err != nil {
		return err
	}
	if err := t.stores.Remove(name); err != nil {
		return err
	}
	if err := t.histories.Remove(name); err != nil {
		return err
	}
	t.logger.Info("deleted subject", "subject", name)
	return nil
}

// IngestFile extracts a local PDF into the subject's passage store.
// Returns the number of chunks added.
func (t *Tutor) IngestFile(ctx context.Context, subjectName, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %q: %w", path, err)
	}
	return t.ingest(ctx, subjectName, data, filepath.Base(path))
}

// IngestURL downloads a PDF and extracts it into the subject's passage
// store. Download failures surface as document.ErrTransport.
func (t *Tutor) IngestURL(ctx context.Context, subjectName, url string) (int, error) {
	data, err := t.fetcher.Download(ctx, url)
	if err != nil {
		return 0, err
	}
	return t.ingest(ctx, subjectName, data, url)
}

func (t *Tutor) ingest(ctx context.Context, subjectName string, data []byte, source string) (int, error) {
	if !t.registry.Contains(subjectName) {
		return 0, fmt.Errorf("subject %q: %w", subjectName, subject.ErrNotFound)
	}

	var chunks []passage.IncomingChunk
	err := document.Extract(data, t.opts.ChunkSize, func(c document.Chunk) error {
		chunks = append(chunks, passage.IncomingChunk{
			Text:   c.Text,
			Source: source,
			Page:   c.Page,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}

	store, err := t.stores.Open(subjectName)
	if err != nil {
		return 0, err
	}
	added, err := store.Add(ctx, chunks)
	if err != nil {
		return added, err
	}

	t.logger.Info("ingested document",
		"subject", subjectName,
		"source", source,
		"chunks", added,
	)
	return added, nil
}

// Ask answers a question. With a subject, the top matching passages and
// the subject's recent history are folded into the prompt and the
// exchange is appended to the history on success. When retrieval yields
// no passages, or no subject is given, the model answers from its own
// knowledge; subjectless exchanges are not recorded.
func (t *Tutor) Ask(ctx context.Context, subjectName, query string) (string, error) {
	if subjectName == "" {
		return t.generate(ctx, prompt.Knowledge(query, "", nil))
	}
	if !t.registry.Contains(subjectName) {
		return "", fmt.Errorf("subject %q: %w", subjectName, subject.ErrNotFound)
	}

	turns, err := t.histories.Load(subjectName)
	if err != nil {
		return "", err
	}

	store, err := t.stores.Open(subjectName)
	if err != nil {
		return "", err
	}
	passages, err := store.Query(ctx, query, t.opts.TopN)
	if err != nil {
		return "", err
	}

	var p string
	if len(passages) == 0 {
		p = prompt.Knowledge(query, subjectName, turns)
	} else {
		p = prompt.RAG(query, passages, subjectName, turns)
	}

	answer, err := t.generate(ctx, p)
	if err != nil {
		return "", err
	}

	if err := t.histories.Append(subjectName, history.Turn{Human: query, Ai: answer}); err != nil {
		return answer, fmt.Errorf("recording turn: %w", err)
	}
	return answer, nil
}

// generate performs the single blocking completion call. Any service
// failure is reported as ErrGeneration.
func (t *Tutor) generate(ctx context.Context, p string) (string, error) {
	temp := t.opts.Temperature
	resp, err := genkit.Generate(ctx, t.genkit,
		ai.WithModelName(t.opts.ModelName),
		ai.WithPrompt(p),
		ai.WithConfig(&genai.GenerateContentConfig{
			Temperature:     &temp,
			MaxOutputTokens: int32(t.opts.MaxTokens),
		}),
	)
	if err != nil {
		t.logger.Error("generation failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return resp.Text(), nil
}

// History returns the subject's recorded turns in chronological order.
func (t *Tutor) History(subjectName string) ([]history.Turn, error) {
	return t.histories.Load(subjectName)
}

// DeleteTurn removes one turn from the subject's history by index.
func (t *Tutor) DeleteTurn(subjectName string, index int) error {
	return t.histories.DeleteAt(subjectName, index)
}

// ClearHistory empties the subject's history. Returns subject.ErrNotFound
// for an unregistered subject rather than creating an empty history file.
func (t *Tutor) ClearHistory(subjectName string) error {
	if !t.registry.Contains(subjectName) {
		return fmt.Errorf("subject %q: %w", subjectName, subject.ErrNotFound)
	}
	return t.histories.Clear(subjectName)
}

// ClearStore removes all of a subject's stored chunks and its history,
// keeping the subject registered.
func (t *Tutor) ClearStore(ctx context.Context, subjectName string) error {
	if !t.registry.Contains(subjectName) {
		return fmt.Errorf("subject %q: %w", subjectName, subject.ErrNotFound)
	}
	store, err := t.stores.Open(subjectName)
	if err != nil {
		return err
	}
	if err := store.Clear(ctx); err != nil {
		return err
	}
	return t.histories.Clear(subjectName)
}

// PassageCount reports how many chunks the subject's store holds.
// Returns subject.ErrNotFound for an unregistered subject rather than
// creating an empty store database.
func (t *Tutor) PassageCount(ctx context.Context, subjectName string) (int, error) {
	if !t.registry.Contains(subjectName) {
		return 0, fmt.Errorf("subject %q: %w", subjectName, subject.ErrNotFound)
	}
	store, err := t.stores.Open(subjectName)
	if err != nil {
		return 0, err
	}
	return store.Count(ctx)
}

// Close releases all open store handles.
func (t *Tutor) Close() error {
	return t.stores.Close()
}
