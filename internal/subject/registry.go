// Package subject tracks the set of known subject names.
//
// The registry is a flat list persisted as a JSON array (subjects.json).
// Subject names partition all other persisted state: each subject owns one
// passage store and one chat history, both addressed by the normalized name.
package subject

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates the subject is not present in the registry.
var ErrNotFound = errors.New("subject not found")

// Normalize converts a subject name to its storage form:
// lowercased, spaces replaced with underscores.
// Store paths and history file names are derived from this form.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Registry is the persisted list of subject names.
//
// Single-writer: the registry performs no locking. Two processes mutating
// the same subjects.json is undefined behavior.
type Registry struct {
	path     string
	subjects []string
}

// Open loads the registry from path.
// A missing file yields an empty registry, not an error.
func Open(path string) (*Registry, error) {
	r := &Registry{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("reading subjects file: %w", err)
	}

	if err := json.Unmarshal(data, &r.subjects); err != nil {
		return nil, fmt.Errorf("parsing subjects file: %w", err)
	}
	return r, nil
}

// List returns the registered subject names in registration order.
// The returned slice is a copy.
func (r *Registry) List() []string {
	out := make([]string, len(r.subjects))
	copy(out, r.subjects)
	return out
}

// Contains reports whether name is registered.
// Comparison is on the normalized form, so "Biology" matches "biology".
func (r *Registry) Contains(name string) bool {
	return r.indexOf(name) >= 0
}

// Create registers a new subject and persists the list.
// Creating an already-registered subject is a no-op.
func (r *Registry) Create(name string) error {
	if r.indexOf(name) >= 0 {
		return nil
	}
	r.subjects = append(r.subjects, name)
	if err := r.save(); err != nil {
		// Roll back the in-memory append so memory matches disk.
		r.subjects = r.subjects[:len(r.subjects)-1]
		return err
	}
	return nil
}

// Delete removes a subject from the registry and persists the list.
// It does not delete the subject's passage store or chat history; the
// caller removes those in the same logical operation.
func (r *Registry) Delete(name string) error {
	i := r.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	removed := r.subjects[i]
	r.subjects = append(r.subjects[:i], r.subjects[i+1:]...)
	if err := r.save(); err != nil {
		r.subjects = append(r.subjects[:i], append([]string{removed}, r.subjects[i:]...)...)
		return err
	}
	return nil
}

func (r *Registry) indexOf(name string) int {
	norm := Normalize(name)
	for i, s := range r.subjects {
		if Normalize(s) == norm {
			return i
		}
	}
	return -1
}

// save writes the subject list wholesale with an atomic replace.
func (r *Registry) save() error {
	data, err := json.Marshal(r.subjects)
	if err != nil {
		return fmt.Errorf("encoding subjects: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "subjects-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing subjects: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing subjects file: %w", err)
	}
	return nil
}
