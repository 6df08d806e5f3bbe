//go:build unit || e2e

package builder

import (
	"time"

	"book-custody/internal/domain/custody"
	"book-custody/internal/usecase/queries"

	"github.com/google/uuid"
)

type TransactionBuilder struct {
	ID         uuid.UUID
	BookID     uuid.UUID
	MemberID   uuid.UUID
	LocationID uuid.UUID
	Status     custody.Status
	CreatedAt  time.Time
	Version    int64
}

func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		ID:         uuid.New(),
		BookID:     uuid.New(),
		MemberID:   uuid.New(),
		LocationID: uuid.New(),
		Status:     custody.StatusRequested,
		CreatedAt:  time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
		Version:    1,
	}
}

func (b *TransactionBuilder) With(mutate func(*TransactionBuilder)) *TransactionBuilder {
	mutate(b)
	return b
}

func (b *TransactionBuilder) WithStatus(status custody.Status) *TransactionBuilder {
	b.Status = status
	return b
}

// BuildDomain fills the transition timestamps implied by Status.
func (b *TransactionBuilder) BuildDomain() *custody.Transaction {
	var approvedAt, returnRequestedAt, completedAt *time.Time
	at := b.CreatedAt
	switch b.Status {
	case custody.StatusCompleted:
		completedAt = &at
		fallthrough
	case custody.StatusReturnRequested:
		returnRequestedAt = &at
		fallthrough
	case custody.StatusInPossession:
		approvedAt = &at
	}
	return custody.ReconstructTransaction(b.ID, b.BookID, b.MemberID, b.LocationID, b.Status,
		b.CreatedAt, approvedAt, returnRequestedAt, completedAt, b.CreatedAt, b.Version)
}

func (b *TransactionBuilder) BuildView() *queries.TransactionView {
	return queries.NewTransactionView(b.BuildDomain())
}
