package subject

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Biology", "biology"},
		{"Data Structures", "data_structures"},
		{"operating  systems", "operating__systems"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "subjects.json"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if got := r.List(); len(got) != 0 {
		t.Errorf("expected empty registry, got %v", got)
	}
}

func TestCreatePersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subjects.json")

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := r.Create("Biology"); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := r.Create("Data Structures"); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// Reload from disk.
	r2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got := r2.List()
	if len(got) != 2 || got[0] != "Biology" || got[1] != "Data Structures" {
		t.Errorf("unexpected subjects after reload: %v", got)
	}

	// On-disk format is a plain JSON array of strings.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		t.Fatalf("subjects.json is not a JSON array: %v", err)
	}
}

func TestCreateDuplicateIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subjects.json")
	r, _ := Open(path)

	if err := r.Create("Biology"); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	// Same name, different case: still a duplicate.
	if err := r.Create("biology"); err != nil {
		t.Fatalf("duplicate Create() failed: %v", err)
	}

	if got := r.List(); len(got) != 1 {
		t.Errorf("expected 1 subject, got %v", got)
	}
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subjects.json")
	r, _ := Open(path)
	_ = r.Create("Biology")
	_ = r.Create("Physics")

	if err := r.Delete("Biology"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	got := r.List()
	if len(got) != 1 || got[0] != "Physics" {
		t.Errorf("unexpected subjects after delete: %v", got)
	}

	err := r.Delete("Chemistry")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(unknown) = %v, want ErrNotFound", err)
	}
}

func TestContains(t *testing.T) {
	r, _ := Open(filepath.Join(t.TempDir(), "subjects.json"))
	_ = r.Create("Computer Networks")

	if !r.Contains("computer networks") {
		t.Error("Contains should match case-insensitively")
	}
	if r.Contains("Biology") {
		t.Error("Contains reported an unregistered subject")
	}
}
