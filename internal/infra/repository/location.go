package repository

import (
	"context"

	"book-custody/internal/domain/location"
	"book-custody/internal/infra"
	"book-custody/internal/infra/db"
	"book-custody/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	tableLocations = "locations"

	colName           = "name"
	colAcceptsReturns = "accepts_returns"
)

// Locations are reference data; the engine never locks or updates them.
type LocationRepository struct {
	db db.DBTX
}

func NewLocationRepository(dbtx db.DBTX) *LocationRepository {
	return &LocationRepository{db: dbtx}
}

func (r *LocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	ds := dialect.From(tableLocations).Prepared(true).
		Select(colID, colName, colAcceptsReturns, colCreatedAt).
		Where(goqu.C(colID).Eq(id))
	query, args, err := build(ds)
	if err != nil {
		return nil, err
	}

	var (
		pid            pgtype.UUID
		name           string
		acceptsReturns bool
		createdAt      pgtype.Timestamptz
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&pid, &name, &acceptsReturns, &createdAt); err != nil {
		return nil, infra.WrapRepoErr("failed to find location", err)
	}
	return location.ReconstructLocation(uuid.UUID(pid.Bytes), name, acceptsReturns, pgconv.TimeFromPgtype(createdAt)), nil
}

func (r *LocationRepository) Insert(ctx context.Context, l *location.Location) error {
	ds := dialect.Insert(tableLocations).Prepared(true).Rows(goqu.Record{
		colID:             l.ID(),
		colName:           l.Name(),
		colAcceptsReturns: l.AcceptsReturns(),
		colCreatedAt:      l.CreatedAt(),
	})
	query, args, err := build(ds)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to insert location", err)
	}
	return nil
}
