package queries

import (
	"context"

	"book-custody/internal/domain/custody"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/pkg/patch"
	"book-custody/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrForeignTransactions = errs.Mark(errs.New("members may only list their own transactions"), errs.ErrUnauthorized)

type ListTransactionsFilter struct {
	Status   *string
	MemberID *uuid.UUID
	// After is an opaque cursor from a previous page's NextCursor.
	After string
	Limit int
}

type TransactionQueries interface {
	List(ctx context.Context, actor shared.Actor, filter ListTransactionsFilter) (*TransactionPage, error)
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*TransactionView, error)
}

type transactionQueriesImpl struct {
	uow      shared.UnitOfWork
	pageSize int
}

func NewTransactionQueries(uow shared.UnitOfWork, pageSize int) TransactionQueries {
	return &transactionQueriesImpl{uow: uow, pageSize: pageSize}
}

// List returns one page of transactions, newest first. Members only ever see
// their own; staff may filter by any member or none.
func (q *transactionQueriesImpl) List(ctx context.Context, actor shared.Actor, filter ListTransactionsFilter) (*TransactionPage, error) {
	limit := ValidateLimit(filter.Limit, q.pageSize)
	// one extra row tells whether another page exists
	repoFilter := shared.TransactionFilter{Limit: limit + 1}

	if filter.After != "" {
		cursor, err := DecodeAfterCursor(filter.After)
		if err != nil {
			return nil, err
		}
		repoFilter.After = &cursor
	}

	if status := patch.Coalesce(filter.Status, ""); status != "" {
		parsed, err := custody.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		repoFilter.Statuses = []custody.Status{parsed}
	}

	memberID := patch.Coalesce(filter.MemberID, uuid.Nil)
	if !actor.IsStaff() {
		if memberID != uuid.Nil && memberID != actor.MemberID {
			return nil, ErrForeignTransactions
		}
		memberID = actor.MemberID
	}
	if memberID != uuid.Nil {
		repoFilter.MemberID = &memberID
	}

	var txs []*custody.Transaction
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, r shared.Reads) error {
		var err error
		txs, err = r.Transactions().List(ctx, repoFilter)
		return err
	})
	if err != nil {
		return nil, err
	}

	page := &TransactionPage{}
	if len(txs) > limit {
		txs = txs[:limit]
		last := txs[limit-1]
		page.NextCursor = EncodeAfterCursor(last.CreatedAt(), last.ID())
	}
	page.Items = make([]*TransactionView, len(txs))
	for i, t := range txs {
		page.Items[i] = NewTransactionView(t)
	}
	return page, nil
}

func (q *transactionQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*TransactionView, error) {
	var view *TransactionView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, r shared.Reads) error {
		t, err := r.Transactions().FindByID(ctx, id)
		if err != nil {
			if errs.Is(err, shared.ErrRecordNotFound) {
				return custody.ErrTransactionNotFound
			}
			return err
		}
		// other members' transactions are reported as absent
		if !actor.IsStaff() && t.MemberID() != actor.MemberID {
			return custody.ErrTransactionNotFound
		}
		view = NewTransactionView(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
