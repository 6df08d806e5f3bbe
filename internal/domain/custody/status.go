package custody

import (
	"book-custody/internal/pkg/errs"
)

type Status string

const (
	StatusRequested       Status = "requested"
	StatusInPossession    Status = "in_possession"
	StatusReturnRequested Status = "return_requested"
	StatusCompleted       Status = "completed"
)

var ErrInvalidStatus = errs.Mark(errs.New("invalid transaction status"), errs.ErrValidation)

// transitions lists every legal forward move. Cancellation of a requested
// transaction is a delete, not a status.
var transitions = map[Status][]Status{
	StatusRequested:       {StatusInPossession},
	StatusInPossession:    {StatusReturnRequested},
	StatusReturnRequested: {StatusCompleted},
	StatusCompleted:       nil,
}

func AllStatuses() []Status {
	return []Status{StatusRequested, StatusInPossession, StatusReturnRequested, StatusCompleted}
}

// ActiveStatuses are the states that hold a book.
func ActiveStatuses() []Status {
	return []Status{StatusRequested, StatusInPossession, StatusReturnRequested}
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", errs.Wrapf(ErrInvalidStatus, "status %q", s)
	}
	return status, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsActive() bool {
	switch s {
	case StatusRequested, StatusInPossession, StatusReturnRequested:
		return true
	default:
		return false
	}
}

// HeldByMember reports whether the member has the book in hand. A pending
// return stays with the member until staff complete it.
func (s Status) HeldByMember() bool {
	return s == StatusInPossession || s == StatusReturnRequested
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
