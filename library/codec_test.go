package library

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "library.json")
}

func mustAdd(t *testing.T, s *Store, title, author, year string) *Book {
	t.Helper()
	b, err := s.Add(title, author, year)
	if err != nil {
		t.Fatalf("add %q: %v", title, err)
	}
	return b
}

func TestOpenWithoutFile(t *testing.T) {
	path := tempPath(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if st := s.Stats(); st.Total != 0 {
		t.Fatalf("want empty store, got %+v", st)
	}
	// Load must not create the file.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file should not exist yet: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	path := tempPath(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	mustAdd(t, s, "Dune", "Herbert", "1965")
	mustAdd(t, s, "Emma", "Austen", "1815")
	if _, err := s.Borrow(1, "Ana"); err != nil {
		t.Fatalf("borrow: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reflect.DeepEqual(s.List(false), reopened.List(false)) {
		t.Fatalf("reopened catalog differs")
	}
	// The id counter survives the round trip.
	b := mustAdd(t, reopened, "Beloved", "Morrison", "1987")
	if b.ID != 3 {
		t.Fatalf("want id 3 after reopen, got %d", b.ID)
	}
}

func TestDeletedIDIsNeverReused(t *testing.T) {
	path := tempPath(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	mustAdd(t, s, "Dune", "Herbert", "1965")
	mustAdd(t, s, "Emma", "Austen", "1815")
	if err := s.Delete(2); err != nil {
		t.Fatalf("delete: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := reopened.Get(2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for deleted id, got %v", err)
	}
	if b := mustAdd(t, reopened, "Beloved", "Morrison", "1987"); b.ID != 3 {
		t.Fatalf("want id 3, got %d", b.ID)
	}
}

func TestCorruptDocuments(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "{not json"},
		{"wrong type", `[1,2,3]`},
		{"missing books", `{"next_id": 5}`},
		{"null book", `{"books": [null], "next_id": 2}`},
		{"non-positive id", `{"books": [{"id": 0, "title": "X", "author": "Y"}], "next_id": 2}`},
		{"duplicate ids", `{"books": [{"id": 1}, {"id": 1}], "next_id": 2}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := tempPath(t)
			if err := os.WriteFile(path, []byte(tc.data), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := Open(path); !errors.Is(err, ErrCorrupt) {
				t.Fatalf("want ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestNextIDRecomputedFromExistingIDs(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"missing next_id", `{"books": [{"id": 7, "title": "A", "author": "B", "year": "1", "available": true}, {"id": 3, "title": "C", "author": "D", "year": "2", "available": true}]}`},
		{"stale next_id", `{"books": [{"id": 7, "title": "A", "author": "B", "year": "1", "available": true}, {"id": 3, "title": "C", "author": "D", "year": "2", "available": true}], "next_id": 2}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := tempPath(t)
			if err := os.WriteFile(path, []byte(tc.data), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			s, err := Open(path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if b := mustAdd(t, s, "New", "Book", "2000"); b.ID != 8 {
				t.Fatalf("want id 8, got %d", b.ID)
			}
		})
	}
}

func TestSaveWritesValidDocumentAndNoTempFile(t *testing.T) {
	path := tempPath(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	mustAdd(t, s, "Dune", "Herbert", "1965")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc struct {
		Books []map[string]any `json:"books"`
		// next_id must be present even though it defaults on load.
		NextID *int `json:"next_id"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("saved document is not valid JSON: %v", err)
	}
	if len(doc.Books) != 1 || doc.NextID == nil || *doc.NextID != 2 {
		t.Fatalf("unexpected document: %s", raw)
	}
	for _, field := range []string{
		"id", "title", "author", "year", "available",
		"borrower", "borrowed_at", "returned_at", "created_at", "updated_at",
	} {
		if _, ok := doc.Books[0][field]; !ok {
			t.Fatalf("saved book is missing field %q", field)
		}
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestEverySaveOverwritesWholeDocument(t *testing.T) {
	path := tempPath(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	mustAdd(t, s, "Dune", "Herbert", "1965")
	if err := s.Delete(1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if st := reopened.Stats(); st.Total != 0 {
		t.Fatalf("want empty catalog, got %+v", st)
	}
}
