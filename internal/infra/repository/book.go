package repository

import (
	"context"

	"book-custody/internal/domain/book"
	"book-custody/internal/infra"
	"book-custody/internal/infra/db"
	"book-custody/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	tableBooks = "books"

	colTitle      = "title"
	colAuthor     = "author"
	colAvailable  = "available"
	colKeeperKind = "keeper_kind"
	colKeeperID   = "keeper_id"
)

var bookColumns = []any{colID, colTitle, colAuthor, colAvailable, colKeeperKind, colKeeperID, colVersion, colCreatedAt, colUpdatedAt}

type BookRepository struct {
	db   db.DBTX
	lock bool
}

func NewBookRepository(dbtx db.DBTX) *BookRepository {
	return &BookRepository{db: dbtx}
}

// NewLockingBookRepository reads rows with SELECT ... FOR UPDATE and must run
// inside a write transaction.
func NewLockingBookRepository(dbtx db.DBTX) *BookRepository {
	return &BookRepository{db: dbtx, lock: true}
}

func (r *BookRepository) FindByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	ds := dialect.From(tableBooks).Prepared(true).
		Select(bookColumns...).
		Where(goqu.C(colID).Eq(id))
	if r.lock {
		ds = ds.ForUpdate(exp.Wait)
	}
	query, args, err := build(ds)
	if err != nil {
		return nil, err
	}

	b, err := scanBook(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find book", err)
	}
	return b, nil
}

func (r *BookRepository) List(ctx context.Context) ([]*book.Book, error) {
	ds := dialect.From(tableBooks).Prepared(true).
		Select(bookColumns...).
		Order(goqu.C(colCreatedAt).Asc(), goqu.C(colID).Asc())
	query, args, err := build(ds)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list books", err)
	}
	books, err := collect(rows, scanBook)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan books", err)
	}
	return books, nil
}

func (r *BookRepository) Insert(ctx context.Context, b *book.Book) error {
	ds := dialect.Insert(tableBooks).Prepared(true).Rows(goqu.Record{
		colID:         b.ID(),
		colTitle:      b.Title(),
		colAuthor:     b.Author(),
		colAvailable:  b.Available(),
		colKeeperKind: string(b.Keeper().Kind),
		colKeeperID:   b.Keeper().ID,
		colVersion:    b.Version(),
		colCreatedAt:  b.CreatedAt(),
		colUpdatedAt:  b.UpdatedAt(),
	})
	query, args, err := build(ds)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to insert book", err)
	}
	return nil
}

// Update writes availability and keeper if the stored version still equals b.Version().
func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	ds := dialect.Update(tableBooks).Prepared(true).
		Set(goqu.Record{
			colAvailable:  b.Available(),
			colKeeperKind: string(b.Keeper().Kind),
			colKeeperID:   b.Keeper().ID,
			colVersion:    bumpVersion(),
			colUpdatedAt:  b.UpdatedAt(),
		}).
		Where(goqu.C(colID).Eq(b.ID()), goqu.C(colVersion).Eq(b.Version()))
	query, args, err := build(ds)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update book", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.ConflictErr("book " + b.ID().String() + " changed since it was read")
	}
	return nil
}

func scanBook(row rowScanner) (*book.Book, error) {
	var (
		id, keeperID         pgtype.UUID
		title, author, kind  string
		available            bool
		version              int64
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &title, &author, &available, &kind, &keeperID, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	keeper, err := book.NewKeeper(kind, uuid.UUID(keeperID.Bytes))
	if err != nil {
		return nil, err
	}
	return book.ReconstructBook(
		uuid.UUID(id.Bytes),
		title,
		author,
		available,
		keeper,
		version,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}
