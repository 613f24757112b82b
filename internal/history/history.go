// Package history persists per-subject conversation transcripts.
//
// Each subject's history is a JSON array of question-answer turns stored
// in its own file. Files are written atomically via a temp file rename.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pruthakjani5/gtutor/internal/subject"
)

// ErrNotFound indicates the referenced turn does not exist.
var ErrNotFound = errors.New("turn not found")

// Turn is one question-answer exchange.
type Turn struct {
	Human string `json:"human"`
	Ai    string `json:"ai"`
}

// Store manages history files under a single directory.
type Store struct {
	dir string
}

// NewStore creates a history store rooted at dir. The directory is
// created if missing.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the history file path for a subject.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, subject.Normalize(name)+"_history.json")
}

// Load returns the subject's turns in chronological order. A subject
// with no history file yields an empty slice.
func (s *Store) Load(name string) ([]Turn, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return []Turn{}, nil
		}
		return nil, fmt.Errorf("reading history for %q: %w", name, err)
	}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("decoding history for %q: %w", name, err)
	}
	return turns, nil
}

// Append adds a turn to the end of the subject's history and persists it.
func (s *Store) Append(name string, turn Turn) error {
	turns, err := s.Load(name)
	if err != nil {
		return err
	}
	return s.save(name, append(turns, turn))
}

// DeleteAt removes the turn at index, preserving the order of the rest.
// Returns ErrNotFound when index is out of range.
func (s *Store) DeleteAt(name string, index int) error {
	turns, err := s.Load(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(turns) {
		return fmt.Errorf("turn %d of %d: %w", index, len(turns), ErrNotFound)
	}
	return s.save(name, append(turns[:index], turns[index+1:]...))
}

// Clear resets the subject's history to an empty sequence.
func (s *Store) Clear(name string) error {
	return s.save(name, []Turn{})
}

// Remove deletes the subject's history file. Removing a subject with no
// history file is a no-op.
func (s *Store) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing history for %q: %w", name, err)
	}
	return nil
}

func (s *Store) save(name string, turns []Turn) error {
	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history for %q: %w", name, err)
	}

	path := s.Path(name)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing history for %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp history file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving history for %q: %w", name, err)
	}
	return nil
}
