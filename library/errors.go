package library

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by store operations.
var (
	// ErrNotFound is returned when no book has the given id.
	ErrNotFound = errors.New("book not found")

	// ErrAlreadyAvailable is returned when returning a book that is not lent out.
	ErrAlreadyAvailable = errors.New("book is already available")

	// ErrCorrupt is returned when the backing document cannot be parsed
	// or violates the catalog invariants.
	ErrCorrupt = errors.New("corrupt catalog file")
)

// ValidationError reports malformed or missing caller input. The store
// rejects the operation without mutating any state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AlreadyBorrowedError is returned when borrowing a book that is currently
// lent out. Borrower names who has it.
type AlreadyBorrowedError struct {
	Borrower string
}

func (e *AlreadyBorrowedError) Error() string {
	return fmt.Sprintf("already borrowed by %s", e.Borrower)
}
