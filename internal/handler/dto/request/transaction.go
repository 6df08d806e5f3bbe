package request

import (
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/commands"
	"book-custody/internal/usecase/queries"

	"github.com/google/uuid"
)

var ErrInvalidUserID = errs.Mark(errs.New("user_id must be a UUID"), errs.ErrValidation)

type CheckoutRequest struct {
	BookID     uuid.UUID `json:"book_id" binding:"required"`
	LocationID uuid.UUID `json:"location_id" binding:"required"`
}

func (r *CheckoutRequest) ToCommand() commands.CheckoutRequest {
	return commands.CheckoutRequest{BookID: r.BookID, LocationID: r.LocationID}
}

// VerifyBookRequest carries the book id scanned at the counter.
type VerifyBookRequest struct {
	BookID uuid.UUID `json:"book_id" binding:"required"`
}

type ReturnRequest struct {
	LocationID uuid.UUID `json:"location_id" binding:"required"`
}

type ListTransactionsQuery struct {
	Status *string `form:"status"`
	UserID *string `form:"user_id"`
	After  string  `form:"after"`
	Limit  int     `form:"limit" binding:"omitempty,min=1"`
}

func (q *ListTransactionsQuery) ToFilter() (queries.ListTransactionsFilter, error) {
	filter := queries.ListTransactionsFilter{Status: q.Status, After: q.After, Limit: q.Limit}
	if q.UserID != nil && *q.UserID != "" {
		id, err := uuid.Parse(*q.UserID)
		if err != nil {
			return queries.ListTransactionsFilter{}, errs.Mark(errs.Wrap(err, "parse user_id"), ErrInvalidUserID)
		}
		filter.MemberID = &id
	}
	return filter, nil
}
