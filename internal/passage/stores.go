package passage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/firebase/genkit/go/ai"

	"github.com/pruthakjani5/gtutor/internal/database"
	"github.com/pruthakjani5/gtutor/internal/subject"
)

// Stores maps subject names to open Store handles.
//
// It replaces ambient lazily-initialized globals with an explicit object:
// the caller owns the lifecycle and closes all handles via Close.
type Stores struct {
	dir      string
	embedder ai.Embedder
	logger   *slog.Logger
	open     map[string]*Store // normalized subject -> handle
}

// NewStores creates a Stores manager rooted at dir.
func NewStores(dir string, embedder ai.Embedder, logger *slog.Logger) *Stores {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stores{
		dir:      dir,
		embedder: embedder,
		logger:   logger,
		open:     make(map[string]*Store),
	}
}

// Path returns the database file path for a subject.
func (m *Stores) Path(name string) string {
	return filepath.Join(m.dir, subject.Normalize(name)+".db")
}

// Open returns the subject's store, creating and migrating its database
// on first use. Handles are cached until Close or Remove.
func (m *Stores) Open(name string) (*Store, error) {
	norm := subject.Normalize(name)
	if s, ok := m.open[norm]; ok {
		return s, nil
	}

	db, err := database.Open(m.Path(name))
	if err != nil {
		return nil, fmt.Errorf("opening store for %q: %w", name, err)
	}
	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating store for %q: %w", name, err)
	}

	s := New(db, m.embedder, m.logger.With("subject", norm))
	m.open[norm] = s
	return s, nil
}

// Remove closes the subject's handle (if open) and deletes its database
// file. Removing a subject whose store was never created is a no-op.
func (m *Stores) Remove(name string) error {
	norm := subject.Normalize(name)
	if s, ok := m.open[norm]; ok {
		delete(m.open, norm)
		if err := s.Close(); err != nil {
			return err
		}
	}
	if err := os.Remove(m.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing store for %q: %w", name, err)
	}
	return nil
}

// Close closes all open store handles.
func (m *Stores) Close() error {
	var firstErr error
	for norm, s := range m.open {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.open, norm)
	}
	return firstErr
}
