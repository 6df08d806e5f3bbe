package queries

import (
	"time"

	"book-custody/internal/domain/custody"

	"github.com/google/uuid"
)

// TransactionView represents read-optimized custody transaction data
type TransactionView struct {
	ID                uuid.UUID  `json:"id"`
	BookID            uuid.UUID  `json:"book_id"`
	MemberID          uuid.UUID  `json:"user_id"`
	LocationID        uuid.UUID  `json:"location_id"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	ReturnRequestedAt *time.Time `json:"return_requested_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func NewTransactionView(t *custody.Transaction) *TransactionView {
	return &TransactionView{
		ID:                t.ID(),
		BookID:            t.BookID(),
		MemberID:          t.MemberID(),
		LocationID:        t.LocationID(),
		Status:            t.Status().String(),
		CreatedAt:         t.CreatedAt(),
		ApprovedAt:        t.ApprovedAt(),
		ReturnRequestedAt: t.ReturnRequestedAt(),
		CompletedAt:       t.CompletedAt(),
		UpdatedAt:         t.UpdatedAt(),
	}
}

// TransactionPage is one newest-first slice of a listing. NextCursor is empty
// on the last page.
type TransactionPage struct {
	Items      []*TransactionView
	NextCursor string
}

// CustodianView is who holds a book at the time of the query
type CustodianView struct {
	BookID         uuid.UUID  `json:"book_id"`
	KeeperKind     string     `json:"keeper_kind"`
	KeeperID       uuid.UUID  `json:"keeper_id"`
	TransactionID  *uuid.UUID `json:"transaction_id,omitempty"`
	Status         *string    `json:"status,omitempty"`
	AwaitingPickup bool       `json:"awaiting_pickup"`
}

type DriftView struct {
	Kind           string      `json:"kind"`
	BookID         uuid.UUID   `json:"book_id"`
	MemberID       *uuid.UUID  `json:"user_id,omitempty"`
	TransactionIDs []uuid.UUID `json:"transaction_ids,omitempty"`
}

type DriftReport struct {
	CheckedAt    time.Time   `json:"checked_at"`
	Books        int         `json:"books"`
	Members      int         `json:"members"`
	Transactions int         `json:"active_transactions"`
	Drifts       []DriftView `json:"drifts"`
}

func (r *DriftReport) Consistent() bool {
	return len(r.Drifts) == 0
}
