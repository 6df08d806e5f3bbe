package queries

import (
	"context"

	"book-custody/internal/domain/book"
	"book-custody/internal/domain/custody"
	"book-custody/internal/pkg/clock"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/shared"

	"github.com/google/uuid"
)

// LedgerQueries derive custody from transaction history. They never write.
type LedgerQueries interface {
	Custodian(ctx context.Context, bookID uuid.UUID) (*CustodianView, error)
	Drift(ctx context.Context) (*DriftReport, error)
}

type ledgerQueriesImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewLedgerQueries(uow shared.UnitOfWork, clk clock.Clock) LedgerQueries {
	return &ledgerQueriesImpl{uow: uow, clock: clk}
}

func (q *ledgerQueriesImpl) Custodian(ctx context.Context, bookID uuid.UUID) (*CustodianView, error) {
	var view *CustodianView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, r shared.Reads) error {
		b, err := r.Books().FindByID(ctx, bookID)
		if err != nil {
			if errs.Is(err, shared.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return err
		}

		active, err := r.Transactions().FindActiveByBook(ctx, bookID)
		if err != nil && !errs.Is(err, shared.ErrRecordNotFound) {
			return err
		}

		view = newCustodianView(custody.CustodianOf(b, active))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Drift reconciles every book, member and active transaction in one snapshot.
func (q *ledgerQueriesImpl) Drift(ctx context.Context) (*DriftReport, error) {
	report := &DriftReport{CheckedAt: q.clock.Now(), Drifts: []DriftView{}}
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, r shared.Reads) error {
		books, err := r.Books().List(ctx)
		if err != nil {
			return err
		}
		members, err := r.Members().List(ctx)
		if err != nil {
			return err
		}
		active, err := r.Transactions().List(ctx, shared.TransactionFilter{Statuses: custody.ActiveStatuses()})
		if err != nil {
			return err
		}

		report.Books = len(books)
		report.Members = len(members)
		report.Transactions = len(active)
		for _, d := range custody.Reconcile(books, members, active) {
			report.Drifts = append(report.Drifts, DriftView{
				Kind:           string(d.Kind),
				BookID:         d.BookID,
				MemberID:       d.MemberID,
				TransactionIDs: d.TransactionIDs,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func newCustodianView(c custody.Custodian) *CustodianView {
	view := &CustodianView{
		BookID:         c.BookID,
		KeeperKind:     string(c.Keeper.Kind),
		KeeperID:       c.Keeper.ID,
		TransactionID:  c.TransactionID,
		AwaitingPickup: c.AwaitingPickup,
	}
	if c.Status != nil {
		s := c.Status.String()
		view.Status = &s
	}
	return view
}
