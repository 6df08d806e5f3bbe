package repository

import (
	"context"

	"book-custody/internal/domain/custody"
	"book-custody/internal/infra"
	"book-custody/internal/infra/db"
	"book-custody/internal/pkg/pgconv"
	"book-custody/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	tableTransactions = "custody_transactions"

	colBookID            = "book_id"
	colMemberID          = "member_id"
	colLocationID        = "location_id"
	colStatus            = "status"
	colApprovedAt        = "approved_at"
	colReturnRequestedAt = "return_requested_at"
	colCompletedAt       = "completed_at"
)

var transactionColumns = []any{
	colID, colBookID, colMemberID, colLocationID, colStatus,
	colCreatedAt, colApprovedAt, colReturnRequestedAt, colCompletedAt, colUpdatedAt,
	colVersion,
}

// TransactionRepository relies on the custody_transactions_one_active_per_book
// partial unique index: a second active row for a book fails the insert with
// 23505, reported as a concurrent modification.
type TransactionRepository struct {
	db   db.DBTX
	lock bool
}

func NewTransactionRepository(dbtx db.DBTX) *TransactionRepository {
	return &TransactionRepository{db: dbtx}
}

func NewLockingTransactionRepository(dbtx db.DBTX) *TransactionRepository {
	return &TransactionRepository{db: dbtx, lock: true}
}

func (r *TransactionRepository) selectTransactions() *goqu.SelectDataset {
	return dialect.From(tableTransactions).Prepared(true).Select(transactionColumns...)
}

func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*custody.Transaction, error) {
	ds := r.selectTransactions().Where(goqu.C(colID).Eq(id))
	if r.lock {
		ds = ds.ForUpdate(exp.Wait)
	}
	return r.findOne(ctx, ds, "failed to find transaction")
}

func (r *TransactionRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ds := dialect.From(tableTransactions).Prepared(true).
		Select(goqu.COUNT(colID)).
		Where(goqu.C(colID).Eq(id))
	query, args, err := build(ds)
	if err != nil {
		return false, err
	}

	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return false, infra.WrapRepoErr("failed to check transaction id", err)
	}
	return n > 0, nil
}

func (r *TransactionRepository) FindActiveByBook(ctx context.Context, bookID uuid.UUID) (*custody.Transaction, error) {
	ds := r.selectTransactions().
		Where(goqu.C(colBookID).Eq(bookID), goqu.C(colStatus).In(statusArgs(custody.ActiveStatuses())...)).
		Limit(1)
	if r.lock {
		ds = ds.ForUpdate(exp.Wait)
	}
	return r.findOne(ctx, ds, "failed to find active transaction for book")
}

func (r *TransactionRepository) FindActiveByMember(ctx context.Context, memberID uuid.UUID) ([]*custody.Transaction, error) {
	return r.List(ctx, shared.TransactionFilter{Statuses: custody.ActiveStatuses(), MemberID: &memberID})
}

// List orders newest first.
func (r *TransactionRepository) List(ctx context.Context, filter shared.TransactionFilter) ([]*custody.Transaction, error) {
	ds := r.selectTransactions().Order(goqu.C(colCreatedAt).Desc(), goqu.C(colID).Asc())
	if len(filter.Statuses) > 0 {
		ds = ds.Where(goqu.C(colStatus).In(statusArgs(filter.Statuses)...))
	}
	if filter.MemberID != nil {
		ds = ds.Where(goqu.C(colMemberID).Eq(*filter.MemberID))
	}
	if filter.BookID != nil {
		ds = ds.Where(goqu.C(colBookID).Eq(*filter.BookID))
	}
	if after := filter.After; after != nil {
		ds = ds.Where(goqu.Or(
			goqu.C(colCreatedAt).Lt(after.CreatedAt),
			goqu.And(goqu.C(colCreatedAt).Eq(after.CreatedAt), goqu.C(colID).Gt(after.ID)),
		))
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	query, args, err := build(ds)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list transactions", err)
	}
	txs, err := collect(rows, scanTransaction)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan transactions", err)
	}
	return txs, nil
}

func (r *TransactionRepository) Insert(ctx context.Context, t *custody.Transaction) error {
	ds := dialect.Insert(tableTransactions).Prepared(true).Rows(goqu.Record{
		colID:                t.ID(),
		colBookID:            t.BookID(),
		colMemberID:          t.MemberID(),
		colLocationID:        t.LocationID(),
		colStatus:            t.Status().String(),
		colCreatedAt:         t.CreatedAt(),
		colApprovedAt:        pgconv.TimePtrToPgtype(t.ApprovedAt()),
		colReturnRequestedAt: pgconv.TimePtrToPgtype(t.ReturnRequestedAt()),
		colCompletedAt:       pgconv.TimePtrToPgtype(t.CompletedAt()),
		colUpdatedAt:         t.UpdatedAt(),
		colVersion:           t.Version(),
	})
	query, args, err := build(ds)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to insert transaction", err)
	}
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, t *custody.Transaction) error {
	ds := dialect.Update(tableTransactions).Prepared(true).
		Set(goqu.Record{
			colLocationID:        t.LocationID(),
			colStatus:            t.Status().String(),
			colApprovedAt:        pgconv.TimePtrToPgtype(t.ApprovedAt()),
			colReturnRequestedAt: pgconv.TimePtrToPgtype(t.ReturnRequestedAt()),
			colCompletedAt:       pgconv.TimePtrToPgtype(t.CompletedAt()),
			colUpdatedAt:         t.UpdatedAt(),
			colVersion:           bumpVersion(),
		}).
		Where(goqu.C(colID).Eq(t.ID()), goqu.C(colVersion).Eq(t.Version()))
	return r.execConditional(ctx, ds, "failed to update transaction", t.ID())
}

func (r *TransactionRepository) Delete(ctx context.Context, t *custody.Transaction) error {
	ds := dialect.Delete(tableTransactions).Prepared(true).
		Where(goqu.C(colID).Eq(t.ID()), goqu.C(colVersion).Eq(t.Version()))
	return r.execConditional(ctx, ds, "failed to delete transaction", t.ID())
}

func (r *TransactionRepository) findOne(ctx context.Context, ds *goqu.SelectDataset, msg string) (*custody.Transaction, error) {
	query, args, err := build(ds)
	if err != nil {
		return nil, err
	}
	t, err := scanTransaction(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	return t, nil
}

func (r *TransactionRepository) execConditional(ctx context.Context, ds sqlBuilder, msg string, id uuid.UUID) error {
	query, args, err := build(ds)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr(msg, err)
	}
	if tag.RowsAffected() == 0 {
		return infra.ConflictErr("transaction " + id.String() + " changed since it was read")
	}
	return nil
}

func statusArgs(statuses []custody.Status) []any {
	out := make([]any, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

func scanTransaction(row rowScanner) (*custody.Transaction, error) {
	var (
		id, bookID, memberID, locationID           pgtype.UUID
		status                                     string
		createdAt, updatedAt                       pgtype.Timestamptz
		approvedAt, returnRequestedAt, completedAt pgtype.Timestamptz
		version                                    int64
	)
	err := row.Scan(
		&id, &bookID, &memberID, &locationID, &status,
		&createdAt, &approvedAt, &returnRequestedAt, &completedAt, &updatedAt,
		&version,
	)
	if err != nil {
		return nil, err
	}

	st, err := custody.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return custody.ReconstructTransaction(
		uuid.UUID(id.Bytes),
		uuid.UUID(bookID.Bytes),
		uuid.UUID(memberID.Bytes),
		uuid.UUID(locationID.Bytes),
		st,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimePtrFromPgtype(approvedAt),
		pgconv.TimePtrFromPgtype(returnRequestedAt),
		pgconv.TimePtrFromPgtype(completedAt),
		pgconv.TimeFromPgtype(updatedAt),
		version,
	), nil
}
