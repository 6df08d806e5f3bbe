package commands

import (
	"context"
	"log/slog"

	"book-custody/internal/domain/book"
	"book-custody/internal/domain/custody"
	"book-custody/internal/domain/eligibility"
	"book-custody/internal/domain/location"
	"book-custody/internal/domain/member"
	"book-custody/internal/pkg/clock"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/queries"
	"book-custody/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrStaffOnly = errs.Mark(errs.New("physical verification requires a staff member"), errs.ErrUnauthorized)

type CheckoutRequest struct {
	BookID     uuid.UUID
	LocationID uuid.UUID
}

type CustodyCommands interface {
	RequestCheckout(ctx context.Context, actor shared.Actor, req CheckoutRequest) (*queries.TransactionView, error)
	ApproveCheckout(ctx context.Context, actor shared.Actor, transactionID, expectedBookID uuid.UUID) (*queries.TransactionView, error)
	RequestReturn(ctx context.Context, actor shared.Actor, bookID, locationID uuid.UUID) (*queries.TransactionView, error)
	CompleteReturn(ctx context.Context, actor shared.Actor, transactionID, expectedBookID uuid.UUID) (*queries.TransactionView, error)
	CancelCheckout(ctx context.Context, actor shared.Actor, transactionID uuid.UUID) error
}

type Options struct {
	MaxIDAttempts int
}

type custodyUseCaseImpl struct {
	uow     shared.UnitOfWork
	checker *eligibility.Checker
	ids     IDGenerator
	clock   clock.Clock
	opts    Options
}

func NewCustodyUseCase(
	uow shared.UnitOfWork,
	checker *eligibility.Checker,
	ids IDGenerator,
	clk clock.Clock,
	opts Options,
) CustodyCommands {
	return &custodyUseCaseImpl{
		uow:     uow,
		checker: checker,
		ids:     ids,
		clock:   clk,
		opts:    opts,
	}
}

func (uc *custodyUseCaseImpl) RequestCheckout(ctx context.Context, actor shared.Actor, req CheckoutRequest) (*queries.TransactionView, error) {
	var created *custody.Transaction
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()

		loc, err := tx.Locations().FindByID(ctx, req.LocationID)
		if err != nil {
			return notFoundAs(err, location.ErrLocationNotFound)
		}
		b, err := tx.Books().FindByID(ctx, req.BookID)
		if err != nil {
			return notFoundAs(err, book.ErrBookNotFound)
		}
		m, err := tx.Members().FindByID(ctx, actor.MemberID)
		if err != nil {
			return notFoundAs(err, member.ErrMemberNotFound)
		}

		active, err := tx.Transactions().FindActiveByMember(ctx, m.ID())
		if err != nil {
			return err
		}
		decision := uc.checker.Check(eligibility.ApplicantOf(m, len(active)), now)
		if !decision.Approved {
			slog.InfoContext(ctx, "checkout denied",
				slog.String("member_id", m.ID().String()),
				slog.String("book_id", b.ID().String()),
				slog.String("reason", string(decision.Reason)))
			return decision.Err()
		}

		if err := b.Reserve(now); err != nil {
			return err
		}

		id, err := newTransactionID(ctx, uc.ids, tx.Transactions(), uc.opts.MaxIDAttempts)
		if err != nil {
			return err
		}
		t, err := custody.NewTransaction(id, b.ID(), m.ID(), loc.ID(), now)
		if err != nil {
			return err
		}

		if err := tx.Transactions().Insert(ctx, t); err != nil {
			return err
		}
		if err := tx.Books().Update(ctx, b); err != nil {
			return err
		}
		m.Touch(now)
		if err := tx.Members().Update(ctx, m); err != nil {
			return err
		}

		created = t
		return nil
	})
	if err != nil {
		// retries exhausted while the book kept changing hands
		if errs.Is(err, shared.ErrConcurrentModification) {
			return nil, errs.Mark(errs.Wrap(err, "book reserved concurrently"), errs.ErrInventoryUnavailable)
		}
		return nil, err
	}

	logTransition(ctx, "checkout requested", created)
	return queries.NewTransactionView(created), nil
}

func (uc *custodyUseCaseImpl) ApproveCheckout(ctx context.Context, actor shared.Actor, transactionID, expectedBookID uuid.UUID) (*queries.TransactionView, error) {
	if !actor.IsStaff() {
		return nil, ErrStaffOnly
	}

	var approved *custody.Transaction
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()

		t, err := tx.Transactions().FindByID(ctx, transactionID)
		if err != nil {
			return notFoundAs(err, custody.ErrTransactionNotFound)
		}
		if err := t.Approve(expectedBookID, now); err != nil {
			return err
		}

		b, err := tx.Books().FindByID(ctx, t.BookID())
		if err != nil {
			return notFoundAs(err, book.ErrBookNotFound)
		}
		m, err := tx.Members().FindByID(ctx, t.MemberID())
		if err != nil {
			return notFoundAs(err, member.ErrMemberNotFound)
		}

		b.HandTo(m.ID(), now)
		if err := m.TakeCustody(b.ID(), now); err != nil {
			return err
		}

		if err := tx.Transactions().Update(ctx, t); err != nil {
			return err
		}
		if err := tx.Books().Update(ctx, b); err != nil {
			return err
		}
		if err := tx.Members().Update(ctx, m); err != nil {
			return err
		}

		approved = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	logTransition(ctx, "checkout approved", approved)
	return queries.NewTransactionView(approved), nil
}

// RequestReturn accepts the book at any partner location that takes returns.
func (uc *custodyUseCaseImpl) RequestReturn(ctx context.Context, actor shared.Actor, bookID, locationID uuid.UUID) (*queries.TransactionView, error) {
	var returning *custody.Transaction
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()

		b, err := tx.Books().FindByID(ctx, bookID)
		if err != nil {
			return notFoundAs(err, book.ErrBookNotFound)
		}
		loc, err := tx.Locations().FindByID(ctx, locationID)
		if err != nil {
			return notFoundAs(err, location.ErrLocationNotFound)
		}
		if err := loc.EnsureReturnPoint(); err != nil {
			return err
		}

		t, err := findInPossession(ctx, tx.Transactions(), actor.MemberID, bookID)
		if err != nil {
			return err
		}
		// a stale or duplicate request after the book moved on
		if !b.IsHeldBy(actor.MemberID) {
			return custody.ErrNoActiveCustody
		}

		if err := t.RequestReturn(loc.ID(), now); err != nil {
			return err
		}
		if err := tx.Transactions().Update(ctx, t); err != nil {
			return err
		}

		returning = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	logTransition(ctx, "return requested", returning)
	return queries.NewTransactionView(returning), nil
}

// CompleteReturn shelves the book at the location it was returned to, which
// becomes its new home.
func (uc *custodyUseCaseImpl) CompleteReturn(ctx context.Context, actor shared.Actor, transactionID, expectedBookID uuid.UUID) (*queries.TransactionView, error) {
	if !actor.IsStaff() {
		return nil, ErrStaffOnly
	}

	var completed *custody.Transaction
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()

		t, err := tx.Transactions().FindByID(ctx, transactionID)
		if err != nil {
			return notFoundAs(err, custody.ErrTransactionNotFound)
		}
		if err := t.CompleteReturn(expectedBookID, now); err != nil {
			return err
		}

		b, err := tx.Books().FindByID(ctx, t.BookID())
		if err != nil {
			return notFoundAs(err, book.ErrBookNotFound)
		}
		m, err := tx.Members().FindByID(ctx, t.MemberID())
		if err != nil {
			return notFoundAs(err, member.ErrMemberNotFound)
		}

		b.Shelve(t.LocationID(), now)
		m.ReleaseCustody(now)

		if err := tx.Transactions().Update(ctx, t); err != nil {
			return err
		}
		if err := tx.Books().Update(ctx, b); err != nil {
			return err
		}
		if err := tx.Members().Update(ctx, m); err != nil {
			return err
		}

		completed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	logTransition(ctx, "return completed", completed)
	return queries.NewTransactionView(completed), nil
}

// CancelCheckout deletes a requested transaction and puts the book back on the
// shelf it was reserved from.
func (uc *custodyUseCaseImpl) CancelCheckout(ctx context.Context, actor shared.Actor, transactionID uuid.UUID) error {
	var cancelled *custody.Transaction
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()

		t, err := tx.Transactions().FindByID(ctx, transactionID)
		if err != nil {
			return notFoundAs(err, custody.ErrTransactionNotFound)
		}
		if err := t.EnsureCancellableBy(actor.MemberID); err != nil {
			return err
		}

		b, err := tx.Books().FindByID(ctx, t.BookID())
		if err != nil {
			return notFoundAs(err, book.ErrBookNotFound)
		}
		b.Shelve(t.LocationID(), now)

		if err := tx.Transactions().Delete(ctx, t); err != nil {
			return err
		}
		if err := tx.Books().Update(ctx, b); err != nil {
			return err
		}

		cancelled = t
		return nil
	})
	if err != nil {
		return err
	}

	logTransition(ctx, "checkout cancelled", cancelled)
	return nil
}

func findInPossession(ctx context.Context, repo shared.TransactionReader, memberID, bookID uuid.UUID) (*custody.Transaction, error) {
	active, err := repo.FindActiveByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	for _, t := range active {
		if t.BookID() == bookID && t.Status() == custody.StatusInPossession {
			return t, nil
		}
	}
	return nil, custody.ErrNoActiveCustody
}

func notFoundAs(err error, domainErr error) error {
	if errs.Is(err, shared.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

func logTransition(ctx context.Context, msg string, t *custody.Transaction) {
	slog.InfoContext(ctx, msg,
		slog.String("transaction_id", t.ID().String()),
		slog.String("book_id", t.BookID().String()),
		slog.String("member_id", t.MemberID().String()),
		slog.String("location_id", t.LocationID().String()),
		slog.String("status", t.Status().String()))
}
