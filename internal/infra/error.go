package infra

import (
	"context"
	"log/slog"

	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindConflict           RepositoryErrorKind = "CONFLICT"
	KindUnavailable        RepositoryErrorKind = "UNAVAILABLE"
)

const (
	pgErrCodeUniqueViolation      = "23505"
	pgErrCodeForeignKeyViolation  = "23503"
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

// WrapRepoErr classifies a driver error and marks it with the persistence
// sentinel the use cases understand.
func WrapRepoErr(msg string, err error) error {
	kind := classify(err)
	if kind == KindDBFailure {
		slog.Error("Repository error: "+msg, slog.String("kind", string(kind)), slog.Any("error", err))
	}

	wrapped := RepositoryError{Kind: kind, msg: msg, err: errs.Wrap(err, msg)}
	switch kind {
	case KindNotFound:
		return errs.Mark(wrapped, shared.ErrRecordNotFound)
	case KindDuplicateKey, KindConflict:
		return errs.Mark(wrapped, shared.ErrConcurrentModification)
	case KindUnavailable:
		return errs.Mark(wrapped, errs.ErrStoreUnavailable)
	default:
		return wrapped
	}
}

// ConflictErr reports a conditional write that matched no row.
func ConflictErr(msg string) error {
	return errs.Mark(RepositoryError{Kind: KindConflict, msg: msg}, shared.ErrConcurrentModification)
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errs.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func classify(err error) RepositoryErrorKind {
	if errs.Is(err, pgx.ErrNoRows) {
		return KindNotFound
	}
	if errs.IsAny(err, context.DeadlineExceeded) {
		return KindUnavailable
	}
	var connErr *pgconn.ConnectError
	if errs.As(err, &connErr) || pgconn.SafeToRetry(err) {
		return KindUnavailable
	}

	var pgErr *pgconn.PgError
	if !errs.As(err, &pgErr) {
		return KindDBFailure
	}
	switch pgErr.Code {
	case pgErrCodeUniqueViolation:
		return KindDuplicateKey
	case pgErrCodeForeignKeyViolation:
		return KindForeignKeyViolated
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return KindConflict
	default:
		return KindDBFailure
	}
}
