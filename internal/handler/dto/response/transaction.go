package response

import (
	"time"

	"book-custody/internal/usecase/queries"
)

type TransactionResponse struct {
	ID                string `json:"id"`
	BookID            string `json:"book_id"`
	UserID            string `json:"user_id"`
	LocationID        string `json:"location_id"`
	Status            string `json:"status"`
	CreatedAt         int64  `json:"created_at"`
	ApprovedAt        *int64 `json:"approved_at,omitempty"`
	ReturnRequestedAt *int64 `json:"return_requested_at,omitempty"`
	CompletedAt       *int64 `json:"completed_at,omitempty"`
	UpdatedAt         int64  `json:"updated_at"`
}

func FromTransactionView(v *queries.TransactionView) *TransactionResponse {
	return &TransactionResponse{
		ID:                v.ID.String(),
		BookID:            v.BookID.String(),
		UserID:            v.MemberID.String(),
		LocationID:        v.LocationID.String(),
		Status:            v.Status,
		CreatedAt:         v.CreatedAt.Unix(),
		ApprovedAt:        unixPtr(v.ApprovedAt),
		ReturnRequestedAt: unixPtr(v.ReturnRequestedAt),
		CompletedAt:       unixPtr(v.CompletedAt),
		UpdatedAt:         v.UpdatedAt.Unix(),
	}
}

func FromTransactionViews(views []*queries.TransactionView) []*TransactionResponse {
	res := make([]*TransactionResponse, len(views))
	for i, v := range views {
		res[i] = FromTransactionView(v)
	}
	return res
}

type CancelResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func unixPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	u := t.Unix()
	return &u
}
