package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// ensureDir creates the parent directory so the first save succeeds.
func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}
	return nil
}

// load reads the backing document into the store. A missing file yields a
// fresh catalog without creating the file. Anything unparseable, a missing
// "books" field, or invalid ids is rejected as ErrCorrupt rather than
// silently defaulted. A missing or stale "next_id" is recomputed from the
// highest existing id so ids are never reused.
func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.books = []*Book{}
			s.nextID = 1
			return nil
		}
		return fmt.Errorf("read catalog %s: %w", s.path, err)
	}

	var doc catalogFile
	if err := codec.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if doc.Books == nil {
		return fmt.Errorf("%w: %s: missing %q field", ErrCorrupt, s.path, "books")
	}

	seen := make(map[int]struct{}, len(doc.Books))
	maxID := 0
	for _, b := range doc.Books {
		if b == nil || b.ID <= 0 {
			return fmt.Errorf("%w: %s: book with missing or non-positive id", ErrCorrupt, s.path)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: %s: duplicate book id %d", ErrCorrupt, s.path, b.ID)
		}
		seen[b.ID] = struct{}{}
		if b.ID > maxID {
			maxID = b.ID
		}
	}

	s.books = doc.Books
	s.nextID = doc.NextID
	if s.nextID <= maxID {
		s.nextID = maxID + 1
	}
	if s.nextID < 1 {
		s.nextID = 1
	}
	return nil
}

// save serializes the whole catalog and replaces the backing document.
// The content is written to a sibling temp file first and renamed into
// place so a crash mid-write leaves the previous document intact.
func (s *Store) save() error {
	doc := catalogFile{Books: s.books, NextID: s.nextID}
	data, err := codec.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Join(fmt.Errorf("replace catalog: %w", err), os.Remove(tmp))
	}
	return nil
}
