package custody

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is one custody transfer of a book to a member and back to a
// location. Only the methods below move its status.
type Transaction struct {
	id                uuid.UUID
	bookID            uuid.UUID
	memberID          uuid.UUID
	locationID        uuid.UUID
	status            Status
	createdAt         time.Time
	approvedAt        *time.Time
	returnRequestedAt *time.Time
	completedAt       *time.Time
	updatedAt         time.Time
	version           int64
}

func NewTransaction(id, bookID, memberID, locationID uuid.UUID, now time.Time) (*Transaction, error) {
	if id == uuid.Nil || bookID == uuid.Nil || memberID == uuid.Nil || locationID == uuid.Nil {
		return nil, ErrMissingReference
	}
	return &Transaction{
		id:         id,
		bookID:     bookID,
		memberID:   memberID,
		locationID: locationID,
		status:     StatusRequested,
		createdAt:  now,
		updatedAt:  now,
		version:    1,
	}, nil
}

func ReconstructTransaction(
	id, bookID, memberID, locationID uuid.UUID,
	status Status,
	createdAt time.Time,
	approvedAt, returnRequestedAt, completedAt *time.Time,
	updatedAt time.Time,
	version int64,
) *Transaction {
	return &Transaction{
		id:                id,
		bookID:            bookID,
		memberID:          memberID,
		locationID:        locationID,
		status:            status,
		createdAt:         createdAt,
		approvedAt:        approvedAt,
		returnRequestedAt: returnRequestedAt,
		completedAt:       completedAt,
		updatedAt:         updatedAt,
		version:           version,
	}
}

// Approve records that the member picked up the book. expectedBookID comes
// from the physical verification at the counter.
func (t *Transaction) Approve(expectedBookID uuid.UUID, now time.Time) error {
	if err := t.transition("approve checkout", StatusInPossession, expectedBookID); err != nil {
		return err
	}
	t.approvedAt = &now
	t.updatedAt = now
	return nil
}

// RequestReturn moves the transaction to the location the member drops the
// book at, which may differ from where it was borrowed.
func (t *Transaction) RequestReturn(returnLocationID uuid.UUID, now time.Time) error {
	if err := t.transition("request return", StatusReturnRequested, t.bookID); err != nil {
		return err
	}
	t.locationID = returnLocationID
	t.returnRequestedAt = &now
	t.updatedAt = now
	return nil
}

func (t *Transaction) CompleteReturn(expectedBookID uuid.UUID, now time.Time) error {
	if err := t.transition("complete return", StatusCompleted, expectedBookID); err != nil {
		return err
	}
	t.completedAt = &now
	t.updatedAt = now
	return nil
}

// EnsureCancellableBy checks ownership before status, so a stranger never
// learns the state of someone else's transaction.
func (t *Transaction) EnsureCancellableBy(memberID uuid.UUID) error {
	if t.memberID != memberID {
		return ErrNotOwner
	}
	if t.status != StatusRequested {
		return &StateConflictError{Op: "cancel checkout", Expected: []Status{StatusRequested}, Actual: t.status}
	}
	return nil
}

func (t *Transaction) transition(op string, next Status, expectedBookID uuid.UUID) error {
	if !t.status.CanTransitionTo(next) {
		return &StateConflictError{Op: op, Expected: sourcesOf(next), Actual: t.status}
	}
	if expectedBookID != t.bookID {
		return &IdentityMismatchError{Expected: t.bookID, Actual: expectedBookID}
	}
	t.status = next
	return nil
}

func sourcesOf(next Status) []Status {
	var from []Status
	for _, s := range AllStatuses() {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

func (t *Transaction) IsActive() bool { return t.status.IsActive() }

func (t *Transaction) ID() uuid.UUID                 { return t.id }
func (t *Transaction) BookID() uuid.UUID             { return t.bookID }
func (t *Transaction) MemberID() uuid.UUID           { return t.memberID }
func (t *Transaction) LocationID() uuid.UUID         { return t.locationID }
func (t *Transaction) Status() Status                { return t.status }
func (t *Transaction) CreatedAt() time.Time          { return t.createdAt }
func (t *Transaction) ApprovedAt() *time.Time        { return t.approvedAt }
func (t *Transaction) ReturnRequestedAt() *time.Time { return t.returnRequestedAt }
func (t *Transaction) CompletedAt() *time.Time       { return t.completedAt }
func (t *Transaction) UpdatedAt() time.Time          { return t.updatedAt }
func (t *Transaction) Version() int64                { return t.version }
