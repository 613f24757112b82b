// Package passage provides per-subject similarity-searchable chunk storage.
//
// Each subject owns one SQLite database holding its chunks and their
// embedding vectors. Retrieval embeds the query text and ranks stored
// chunks by cosine similarity.
package passage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/firebase/genkit/go/ai"
	"google.golang.org/genai"
)

// VectorDimension is the embedding dimensionality requested from the
// embedder. Gemini embedding models support truncation to this size via
// OutputDimensionality.
const VectorDimension int32 = 768

// IncomingChunk is a chunk handed to Add before it is assigned an id.
type IncomingChunk struct {
	Text   string
	Source string // filename or URL the chunk was extracted from
	Page   int    // 0-based page number
}

// ChunkID derives the unique chunk identifier from its coordinates.
// index is the chunk's position within its page for one ingestion call.
func ChunkID(source string, page, index int) string {
	return fmt.Sprintf("%s_page%d_chunk%d", source, page, index)
}

// Store is one subject's chunk collection.
//
// Single-writer: two processes writing the same subject database is
// undefined behavior.
type Store struct {
	db       *sql.DB
	embedder ai.Embedder
	logger   *slog.Logger
}

// New creates a Store over an open, migrated chunk database.
func New(db *sql.DB, embedder ai.Embedder, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, embedder: embedder, logger: logger}
}

// embed generates an embedding vector for the given text.
func (s *Store) embed(ctx context.Context, text string) ([]float32, error) {
	dim := VectorDimension
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   []*ai.Document{ai.DocumentFromText(text, nil)},
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Embeddings[0].Embedding, nil
}

// Add embeds and upserts the given chunks.
//
// Chunk ids are derived as "{source}_page{page}_chunk{i}" where i counts
// chunks per (source, page) within this call, starting at 0. Re-adding an
// existing id overwrites the stored chunk instead of duplicating it.
//
// Chunks are queryable immediately after Add returns. Returns the number
// of chunks upserted.
func (s *Store) Add(ctx context.Context, chunks []IncomingChunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	// Per-page sequence counters for id derivation.
	seq := make(map[string]int)
	now := time.Now().UTC().Format(time.RFC3339)

	added := 0
	for _, c := range chunks {
		key := fmt.Sprintf("%s\x00%d", c.Source, c.Page)
		index := seq[key]
		seq[key] = index + 1
		id := ChunkID(c.Source, c.Page, index)

		vec, err := s.embed(ctx, c.Text)
		if err != nil {
			return added, fmt.Errorf("embedding chunk %q: %w", id, err)
		}
		vecJSON, err := json.Marshal(vec)
		if err != nil {
			return added, fmt.Errorf("encoding embedding for %q: %w", id, err)
		}

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO chunks (id, content, source, page, embedding, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
			   content = excluded.content,
			   source = excluded.source,
			   page = excluded.page,
			   embedding = excluded.embedding`,
			id, c.Text, c.Source, c.Page, string(vecJSON), now,
		)
		if err != nil {
			return added, fmt.Errorf("upserting chunk %q: %w", id, err)
		}
		added++
	}

	s.logger.Debug("added chunks", "count", added)
	return added, nil
}

// Query returns up to topN stored passages most similar to text,
// most similar first. An empty store yields an empty result, not an error.
func (s *Store) Query(ctx context.Context, text string, topN int) ([]string, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("topN must be positive, got %d", topN)
	}

	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []string{}, nil
	}

	queryVec, err := s.embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, content, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("scanning chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type scored struct {
		content string
		score   float64
	}
	var results []scored
	for rows.Next() {
		var id, content, vecJSON string
		if err := rows.Scan(&id, &content, &vecJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk row: %w", err)
		}
		var vec []float32
		if err := json.Unmarshal([]byte(vecJSON), &vec); err != nil {
			s.logger.Warn("skipping chunk with bad embedding", "id", id, "error", err)
			continue
		}
		if len(vec) != len(queryVec) {
			s.logger.Warn("skipping chunk with mismatched dimension", "id", id, "dim", len(vec))
			continue
		}
		results = append(results, scored{content: content, score: cosine(queryVec, vec)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	// Most similar first; ties keep scan order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topN {
		results = results[:topN]
	}

	passages := make([]string, len(results))
	for i, r := range results {
		passages[i] = r.content
	}
	return passages, nil
}

// Count returns the number of chunks currently stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Clear removes all chunks. The store remains usable for subsequent Add.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

// cosine computes cosine similarity between two equal-length vectors.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
