package repository

import (
	"context"

	"book-custody/internal/domain/member"
	"book-custody/internal/infra"
	"book-custody/internal/infra/db"
	"book-custody/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	tableMembers = "members"

	colEmail             = "email"
	colDisplayName       = "display_name"
	colRole              = "role"
	colTier              = "tier"
	colSubscriptionFrom  = "subscription_valid_from"
	colSubscriptionUntil = "subscription_valid_until"
	colDepositHeld       = "deposit_held"
	colCurrentBookID     = "current_book_id"
)

var memberColumns = []any{
	colID, colEmail, colDisplayName, colRole, colTier,
	colSubscriptionFrom, colSubscriptionUntil, colDepositHeld, colCurrentBookID,
	colVersion, colCreatedAt, colUpdatedAt,
}

// MemberRepository never writes billing attributes back; only custody and
// version change through Update.
type MemberRepository struct {
	db   db.DBTX
	lock bool
}

func NewMemberRepository(dbtx db.DBTX) *MemberRepository {
	return &MemberRepository{db: dbtx}
}

func NewLockingMemberRepository(dbtx db.DBTX) *MemberRepository {
	return &MemberRepository{db: dbtx, lock: true}
}

func (r *MemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	ds := dialect.From(tableMembers).Prepared(true).
		Select(memberColumns...).
		Where(goqu.C(colID).Eq(id))
	if r.lock {
		ds = ds.ForUpdate(exp.Wait)
	}
	query, args, err := build(ds)
	if err != nil {
		return nil, err
	}

	m, err := scanMember(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find member", err)
	}
	return m, nil
}

func (r *MemberRepository) List(ctx context.Context) ([]*member.Member, error) {
	ds := dialect.From(tableMembers).Prepared(true).
		Select(memberColumns...).
		Order(goqu.C(colCreatedAt).Asc(), goqu.C(colID).Asc())
	query, args, err := build(ds)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list members", err)
	}
	members, err := collect(rows, scanMember)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan members", err)
	}
	return members, nil
}

func (r *MemberRepository) Insert(ctx context.Context, m *member.Member) error {
	ds := dialect.Insert(tableMembers).Prepared(true).Rows(goqu.Record{
		colID:                m.ID(),
		colEmail:             m.Email().Value(),
		colDisplayName:       m.DisplayName(),
		colRole:              m.Role().String(),
		colTier:              string(m.Tier()),
		colSubscriptionFrom:  m.Subscription().ValidFrom,
		colSubscriptionUntil: m.Subscription().ValidUntil,
		colDepositHeld:       m.DepositHeld(),
		colCurrentBookID:     pgconv.UUIDPtrToPgtype(m.CurrentBook()),
		colVersion:           m.Version(),
		colCreatedAt:         m.CreatedAt(),
		colUpdatedAt:         m.UpdatedAt(),
	})
	query, args, err := build(ds)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to insert member", err)
	}
	return nil
}

func (r *MemberRepository) Update(ctx context.Context, m *member.Member) error {
	ds := dialect.Update(tableMembers).Prepared(true).
		Set(goqu.Record{
			colCurrentBookID: pgconv.UUIDPtrToPgtype(m.CurrentBook()),
			colVersion:       bumpVersion(),
			colUpdatedAt:     m.UpdatedAt(),
		}).
		Where(goqu.C(colID).Eq(m.ID()), goqu.C(colVersion).Eq(m.Version()))
	query, args, err := build(ds)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update member", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.ConflictErr("member " + m.ID().String() + " changed since it was read")
	}
	return nil
}

func scanMember(row rowScanner) (*member.Member, error) {
	var (
		id, currentBook                pgtype.UUID
		email, displayName, role, tier string
		validFrom, validUntil          pgtype.Timestamptz
		depositHeld                    bool
		version                        int64
		createdAt, updatedAt           pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &email, &displayName, &role, &tier,
		&validFrom, &validUntil, &depositHeld, &currentBook,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	mail, err := member.NewEmail(email)
	if err != nil {
		return nil, err
	}
	r, err := member.NewRole(role)
	if err != nil {
		return nil, err
	}
	t, err := member.NewTier(tier)
	if err != nil {
		return nil, err
	}
	sub := member.Subscription{
		ValidFrom:  pgconv.TimeFromPgtype(validFrom),
		ValidUntil: pgconv.TimeFromPgtype(validUntil),
	}

	return member.ReconstructMember(
		uuid.UUID(id.Bytes),
		mail,
		displayName,
		r,
		t,
		sub,
		depositHeld,
		pgconv.UUIDPtrFromPgtype(currentBook),
		version,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}
