package library

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Store owns the in-memory catalog and the auto-incrementing id counter.
// Every mutating operation persists the whole catalog to the backing
// document before it returns; read operations never touch the disk.
//
// The store is single-user and single-process: a second process opening
// the same backing document is unsupported (last writer wins).
type Store struct {
	path   string
	now    func() string
	books  []*Book
	nextID int
}

// Option configures a Store created by Open.
type Option func(*Store)

// WithClock overrides the timestamp source. The default formats the
// current local time using TimeFormat.
func WithClock(now func() string) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the catalog stored at path, or starts a fresh empty catalog
// when the file does not exist yet. The file is only created on the first
// mutating operation.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path: path,
		now:  func() string { return time.Now().Format(TimeFormat) },
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the backing document.
func (s *Store) Path() string { return s.path }

// ------------------ CRUD ------------------

// Add creates a new book and assigns it the next free id. Title, author
// and year are required and year must be an integer-formatted string.
func (s *Store) Add(title, author, year string) (*Book, error) {
	switch {
	case title == "":
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	case author == "":
		return nil, &ValidationError{Field: "author", Reason: "must not be empty"}
	case year == "":
		return nil, &ValidationError{Field: "year", Reason: "must not be empty"}
	}
	if _, err := strconv.Atoi(year); err != nil {
		return nil, &ValidationError{Field: "year", Reason: "must be a number"}
	}

	ts := s.now()
	b := &Book{
		ID:        s.nextID,
		Title:     title,
		Author:    author,
		Year:      year,
		Available: true,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	s.books = append(s.books, b)
	s.nextID++
	if err := s.save(); err != nil {
		s.books = s.books[:len(s.books)-1]
		s.nextID--
		return nil, err
	}
	return b.clone(), nil
}

// Get returns the book with the given id, or ErrNotFound.
func (s *Store) Get(id int) (*Book, error) {
	b := s.find(id)
	if b == nil {
		return nil, ErrNotFound
	}
	return b.clone(), nil
}

// List returns the catalog sorted by author then title, case-insensitively.
// With onlyAvailable set, books that are currently lent out are skipped.
// The sort is a display order only; the underlying collection keeps its
// insertion order.
func (s *Store) List(onlyAvailable bool) []*Book {
	out := make([]*Book, 0, len(s.books))
	for _, b := range s.books {
		if onlyAvailable && !b.Available {
			continue
		}
		out = append(out, b.clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := strings.ToLower(out[i].Author), strings.ToLower(out[j].Author)
		if ai != aj {
			return ai < aj
		}
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

// Search returns every book whose title or author contains the keyword,
// case-insensitively, in collection order. An empty keyword is rejected
// rather than matching everything.
func (s *Store) Search(keyword string) ([]*Book, error) {
	if keyword == "" {
		return nil, &ValidationError{Field: "keyword", Reason: "must not be empty"}
	}
	q := strings.ToLower(keyword)
	var out []*Book
	for _, b := range s.books {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			out = append(out, b.clone())
		}
	}
	return out, nil
}

// Update overwrites title, author and year of the book with the given id.
// An empty value always means "keep the current value"; there is no way to
// blank a field. A non-empty year must be purely numeric. The update is
// all-or-nothing: a failed validation leaves the book untouched.
func (s *Store) Update(id int, title, author, year string) (*Book, error) {
	b := s.find(id)
	if b == nil {
		return nil, ErrNotFound
	}
	if year != "" && !allDigits(year) {
		return nil, &ValidationError{Field: "year", Reason: "must be numeric"}
	}

	prev := *b
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if year != "" {
		b.Year = year
	}
	b.UpdatedAt = s.now()
	if err := s.save(); err != nil {
		*b = prev
		return nil, err
	}
	return b.clone(), nil
}

// Delete removes the book with the given id, or reports ErrNotFound.
// The id is never reused.
func (s *Store) Delete(id int) error {
	for i, b := range s.books {
		if b.ID != id {
			continue
		}
		s.books = append(s.books[:i], s.books[i+1:]...)
		if err := s.save(); err != nil {
			s.books = append(s.books[:i], append([]*Book{b}, s.books[i:]...)...)
			return err
		}
		return nil
	}
	return ErrNotFound
}

// ------------------ Circulation ------------------

// Borrow lends the book out to borrower. It fails with ErrNotFound for an
// unknown id, with AlreadyBorrowedError when the book is already lent out,
// and rejects an empty borrower name.
func (s *Store) Borrow(id int, borrower string) (*Book, error) {
	b := s.find(id)
	if b == nil {
		return nil, ErrNotFound
	}
	if !b.Available {
		return nil, &AlreadyBorrowedError{Borrower: b.Borrower}
	}
	if borrower == "" {
		return nil, &ValidationError{Field: "borrower", Reason: "must not be empty"}
	}

	prev := *b
	ts := s.now()
	b.Available = false
	b.Borrower = borrower
	b.BorrowedAt = ts
	b.ReturnedAt = ""
	b.UpdatedAt = ts
	if err := s.save(); err != nil {
		*b = prev
		return nil, err
	}
	return b.clone(), nil
}

// Return takes the book back. It fails with ErrNotFound for an unknown id
// and with ErrAlreadyAvailable when the book is not lent out.
func (s *Store) Return(id int) (*Book, error) {
	b := s.find(id)
	if b == nil {
		return nil, ErrNotFound
	}
	if b.Available {
		return nil, ErrAlreadyAvailable
	}

	prev := *b
	ts := s.now()
	b.Available = true
	b.Borrower = ""
	b.ReturnedAt = ts
	b.UpdatedAt = ts
	if err := s.save(); err != nil {
		*b = prev
		return nil, err
	}
	return b.clone(), nil
}

// Stats counts the catalog. Pure read, nothing is persisted.
func (s *Store) Stats() Stats {
	st := Stats{Total: len(s.books)}
	for _, b := range s.books {
		if b.Available {
			st.Available++
		}
	}
	st.Borrowed = st.Total - st.Available
	return st
}

// ------------------ Helpers ------------------

func (s *Store) find(id int) *Book {
	for _, b := range s.books {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func allDigits(v string) bool {
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
