package shared

import (
	"slices"
	"strings"
	"time"

	"book-custody/internal/domain/custody"
	"book-custody/internal/domain/member"
	"book-custody/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	// record is absent; callers translate to the domain's not-found error
	ErrRecordNotFound = errs.New("record does not exist")
	// a conditional write lost to a concurrent unit of work
	ErrConcurrentModification = errs.New("record modified concurrently")
)

// Actor is the authenticated caller, resolved once per request.
type Actor struct {
	MemberID uuid.UUID
	Role     member.Role
}

func (a Actor) IsStaff() bool {
	return a.Role.AtLeast(member.RoleStaff)
}

func (a Actor) IsAdmin() bool {
	return a.Role.AtLeast(member.RoleAdmin)
}

// TransactionCursor is the last row of a newest-first page.
type TransactionCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Admits reports whether t sorts after the cursor in (created_at DESC, id ASC)
// order. Timestamps compare at microsecond precision.
func (c TransactionCursor) Admits(t *custody.Transaction) bool {
	cursorAt, createdAt := c.CreatedAt.UnixMicro(), t.CreatedAt().UnixMicro()
	if createdAt != cursorAt {
		return createdAt < cursorAt
	}
	return strings.Compare(t.ID().String(), c.ID.String()) > 0
}

// TransactionFilter narrows a transaction listing. Zero values mean no
// restriction; Limit <= 0 means unlimited.
type TransactionFilter struct {
	Statuses []custody.Status
	MemberID *uuid.UUID
	BookID   *uuid.UUID
	After    *TransactionCursor
	Limit    int
}

func (f TransactionFilter) Matches(t *custody.Transaction) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, t.Status()) {
		return false
	}
	if f.MemberID != nil && t.MemberID() != *f.MemberID {
		return false
	}
	if f.BookID != nil && t.BookID() != *f.BookID {
		return false
	}
	if f.After != nil && !f.After.Admits(t) {
		return false
	}
	return true
}
