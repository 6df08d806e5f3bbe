//go:build unit

package repository_test

import (
	"context"
	"testing"
	"time"

	"book-custody/internal/domain/member"
	"book-custody/internal/infra/repository"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/shared"
	"book-custody/tests/common/builder"
	dbmock "book-custody/tests/mock/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMemberRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	id := uuid.New()
	heldBook := uuid.New()

	testCases := []struct {
		name        string
		currentBook pgtype.UUID
		wantBook    *uuid.UUID
	}{
		{name: "idle member", currentBook: pgtype.UUID{}},
		{name: "member holding a book", currentBook: pgUUID(heldBook), wantBook: &heldBook},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := dbmock.NewMockDBTX(ctrl)

			mockDB.EXPECT().QueryRow(ctx, sqlContains("FOR UPDATE"), gomock.Any()).Return(rowOf(
				pgUUID(id), "reader@example.com", "Reader", "member", "premium",
				pgTime(now.AddDate(0, -1, 0)), pgTime(now.AddDate(1, 0, 0)), true, tc.currentBook,
				int64(5), pgTime(now), pgTime(now),
			))

			got, err := repository.NewLockingMemberRepository(mockDB).FindByID(ctx, id)

			require.NoError(t, err)
			assert.Equal(t, id, got.ID())
			assert.Equal(t, "reader@example.com", got.Email().Value())
			assert.Equal(t, member.RoleMember, got.Role())
			assert.Equal(t, member.TierPremium, got.Tier())
			assert.True(t, got.Subscription().ActiveAt(now))
			assert.True(t, got.DepositHeld())
			assert.Equal(t, tc.wantBook, got.CurrentBook())
		})
	}
}

func TestMemberRepository_Update(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mockDB := dbmock.NewMockDBTX(ctrl)
	m := builder.NewMemberBuilder().BuildDomain()

	mockDB.EXPECT().
		Exec(ctx, gomock.All(sqlContains(`"current_book_id"`), gomock.Not(sqlContains(`"deposit_held"`))), gomock.Any()).
		Return(pgconn.NewCommandTag("UPDATE 0"), nil)

	err := repository.NewLockingMemberRepository(mockDB).Update(ctx, m)

	require.Error(t, err)
	assert.True(t, errs.Is(err, shared.ErrConcurrentModification))
}
