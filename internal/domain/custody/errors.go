package custody

import (
	"fmt"
	"strings"

	"book-custody/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrTransactionNotFound = errs.Mark(errs.New("transaction not found"), errs.ErrNotFound)
	ErrNotOwner            = errs.Mark(errs.New("transaction belongs to another member"), errs.ErrUnauthorized)
	ErrNoActiveCustody     = errs.Mark(errs.New("member has no book in possession to return"), errs.ErrNoActiveCustody)
	ErrMissingReference    = errs.Mark(errs.New("transaction must reference a book, a member and a location"), errs.ErrValidation)
)

// StateConflictError reports a transition attempted from the wrong status.
type StateConflictError struct {
	Op       string
	Expected []Status
	Actual   Status
}

func (e *StateConflictError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, s := range e.Expected {
		expected[i] = s.String()
	}
	return fmt.Sprintf("%s: expected status %s, got %s", e.Op, strings.Join(expected, "|"), e.Actual)
}

func (e *StateConflictError) Is(target error) bool {
	return target == errs.ErrStateConflict
}

// IdentityMismatchError reports that the physically verified book is not the
// one the transaction refers to.
type IdentityMismatchError struct {
	Expected uuid.UUID
	Actual   uuid.UUID
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("book identity mismatch: transaction holds %s, verified %s", e.Expected, e.Actual)
}

func (e *IdentityMismatchError) Is(target error) bool {
	return target == errs.ErrIdentityMismatch
}
