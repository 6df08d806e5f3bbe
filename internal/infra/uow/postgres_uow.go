package uow

import (
	"context"
	"errors"
	"log/slog"

	"book-custody/internal/infra/db"
	"book-custody/internal/infra/repository"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin  = errs.New("failed to begin transaction")
	errTransactionCommit = errs.New("failed to commit transaction")
)

type PostgresUoW struct {
	pool   *pgxpool.Pool
	policy RetryPolicy
}

func NewPostgresUoW(pool *pgxpool.Pool, policy RetryPolicy) *PostgresUoW {
	return &PostgresUoW{
		pool:   pool,
		policy: policy,
	}
}

// ReadCommitted plus SELECT ... FOR UPDATE on the rows being changed; the
// version-conditional writes catch anything the locks did not.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	options := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	return Run(ctx, u.policy, isRetryableError, func(ctx context.Context) error {
		return u.runInTx(ctx, options, func(ctx context.Context, dbtx pgx.Tx) error {
			return fn(ctx, &pgTx{dbtx: dbtx})
		})
	})
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, r shared.Reads) error) error {
	options := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	return Run(ctx, u.policy, func(error) bool { return false }, func(ctx context.Context) error {
		return u.runInTx(ctx, options, func(ctx context.Context, dbtx pgx.Tx) error {
			return fn(ctx, &pgReads{dbtx: dbtx})
		})
	})
}

// Rollback runs on every failed attempt before the next one begins, so no
// connection is held across the backoff.
func (u *PostgresUoW) runInTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, dbtx pgx.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(markUnavailable(err), errTransactionBegin)
	}

	err = fn(ctx, pgxTx)
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(markUnavailable(err), errTransactionCommit)
	}

	if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
		if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "rollback failed", "error", rollbackErr.Error())
		}
	}
	return err
}

func isRetryableError(err error) bool {
	if errs.Is(err, shared.ErrConcurrentModification) {
		return true
	}
	var pgErr *pgconn.PgError
	if !errs.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

// markUnavailable tags errors that never reached the server.
func markUnavailable(err error) error {
	var pgErr *pgconn.PgError
	if errs.As(err, &pgErr) {
		return err
	}
	return errs.Mark(err, errs.ErrStoreUnavailable)
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	bookRepo        shared.BookRepository
	memberRepo      shared.MemberRepository
	locationRepo    shared.LocationReader
	transactionRepo shared.TransactionRepository
}

func (t *pgTx) Books() shared.BookRepository {
	if t.bookRepo == nil {
		t.bookRepo = repository.NewLockingBookRepository(t.dbtx)
	}
	return t.bookRepo
}

func (t *pgTx) Members() shared.MemberRepository {
	if t.memberRepo == nil {
		t.memberRepo = repository.NewLockingMemberRepository(t.dbtx)
	}
	return t.memberRepo
}

func (t *pgTx) Locations() shared.LocationReader {
	if t.locationRepo == nil {
		t.locationRepo = repository.NewLocationRepository(t.dbtx)
	}
	return t.locationRepo
}

func (t *pgTx) Transactions() shared.TransactionRepository {
	if t.transactionRepo == nil {
		t.transactionRepo = repository.NewLockingTransactionRepository(t.dbtx)
	}
	return t.transactionRepo
}

type pgReads struct {
	dbtx db.DBTX
}

func (r *pgReads) Books() shared.BookReader {
	return repository.NewBookRepository(r.dbtx)
}

func (r *pgReads) Members() shared.MemberReader {
	return repository.NewMemberRepository(r.dbtx)
}

func (r *pgReads) Locations() shared.LocationReader {
	return repository.NewLocationRepository(r.dbtx)
}

func (r *pgReads) Transactions() shared.TransactionReader {
	return repository.NewTransactionRepository(r.dbtx)
}
