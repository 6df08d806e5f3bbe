package repository

import (
	"book-custody/internal/pkg/errs"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
)

var ErrBuildingQueryFailed = errs.New("building query failed")

var dialect = goqu.Dialect("postgres")

// Columns shared by every table.
const (
	colID        = "id"
	colVersion   = "version"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

func build(ds sqlBuilder) (string, []any, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, errs.Mark(errs.Wrap(err, "to sql"), ErrBuildingQueryFailed)
	}
	return query, args, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// bumpVersion is the SET expression for an optimistic write.
func bumpVersion() any {
	return goqu.L("? + 1", goqu.C(colVersion))
}

func collect[T any](rows pgx.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		return scan(row)
	})
}
