//go:build unit

package repository_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"book-custody/internal/domain/book"
	"book-custody/internal/infra"
	"book-custody/internal/infra/repository"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/shared"
	"book-custody/tests/common/builder"
	dbmock "book-custody/tests/mock/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sqlContains(fragment string) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		query, ok := x.(string)
		return ok && strings.Contains(query, fragment)
	})
}

func TestBookRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	bookID := uuid.New()
	locationID := uuid.New()

	bookRow := rowOf(
		pgUUID(bookID), "Dune", "Frank Herbert", true,
		"location", pgUUID(locationID), int64(3), pgTime(now), pgTime(now),
	)

	testCases := []struct {
		name       string
		locking    bool
		setupMock  func(*dbmock.MockDBTX)
		expectKind infra.RepositoryErrorKind
		expectMark error
	}{
		{
			name:    "success: plain read",
			locking: false,
			setupMock: func(m *dbmock.MockDBTX) {
				m.EXPECT().QueryRow(ctx, gomock.Not(sqlContains("FOR UPDATE")), gomock.Any()).Return(bookRow)
			},
		},
		{
			name:    "success: locking read",
			locking: true,
			setupMock: func(m *dbmock.MockDBTX) {
				m.EXPECT().QueryRow(ctx, sqlContains("FOR UPDATE"), gomock.Any()).Return(bookRow)
			},
		},
		{
			name: "error: no row",
			setupMock: func(m *dbmock.MockDBTX) {
				m.EXPECT().QueryRow(ctx, gomock.Any(), gomock.Any()).Return(rowErr(pgx.ErrNoRows))
			},
			expectKind: infra.KindNotFound,
			expectMark: shared.ErrRecordNotFound,
		},
		{
			name: "error: deadline",
			setupMock: func(m *dbmock.MockDBTX) {
				m.EXPECT().QueryRow(ctx, gomock.Any(), gomock.Any()).Return(rowErr(context.DeadlineExceeded))
			},
			expectKind: infra.KindUnavailable,
			expectMark: errs.ErrStoreUnavailable,
		},
		{
			name: "error: corrupt keeper kind",
			setupMock: func(m *dbmock.MockDBTX) {
				m.EXPECT().QueryRow(ctx, gomock.Any(), gomock.Any()).Return(rowOf(
					pgUUID(bookID), "Dune", "Frank Herbert", true,
					"shelf", pgUUID(locationID), int64(3), pgTime(now), pgTime(now),
				))
			},
			expectKind: infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := dbmock.NewMockDBTX(ctrl)
			tc.setupMock(mockDB)

			repo := repository.NewBookRepository(mockDB)
			if tc.locking {
				repo = repository.NewLockingBookRepository(mockDB)
			}

			got, err := repo.FindByID(ctx, bookID)

			if tc.expectKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.expectKind), "expected kind [%v] but got (%v)", tc.expectKind, err)
				if tc.expectMark != nil {
					assert.True(t, errs.Is(err, tc.expectMark))
				}
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, bookID, got.ID())
			assert.Equal(t, "Dune", got.Title())
			assert.True(t, got.Available())
			assert.Equal(t, book.LocationKeeper(locationID), got.Keeper())
			assert.Equal(t, int64(3), got.Version())
		})
	}
}

func TestBookRepository_Update(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name       string
		tag        string
		execErr    error
		expectKind infra.RepositoryErrorKind
		expectMark error
	}{
		{name: "success: version matched", tag: "UPDATE 1"},
		{
			name:       "error: version moved",
			tag:        "UPDATE 0",
			expectKind: infra.KindConflict,
			expectMark: shared.ErrConcurrentModification,
		},
		{
			name:       "error: serialization failure",
			execErr:    &pgconn.PgError{Code: "40001"},
			expectKind: infra.KindConflict,
			expectMark: shared.ErrConcurrentModification,
		},
		{
			name:       "error: database failure",
			execErr:    errors.New("database connection error"),
			expectKind: infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := dbmock.NewMockDBTX(ctrl)
			b := builder.NewBookBuilder().BuildDomain()

			mockDB.EXPECT().
				Exec(ctx, sqlContains(`"version" + 1`), gomock.Any()).
				Return(pgconn.NewCommandTag(tc.tag), tc.execErr)

			err := repository.NewLockingBookRepository(mockDB).Update(ctx, b)

			if tc.expectKind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, infra.IsKind(err, tc.expectKind), "expected kind [%v] but got (%v)", tc.expectKind, err)
			if tc.expectMark != nil {
				assert.True(t, errs.Is(err, tc.expectMark))
			}
		})
	}
}

func TestBookRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctrl := gomock.NewController(t)
	mockDB := dbmock.NewMockDBTX(ctrl)

	memberID := uuid.New()
	rows := rowsOf(
		rowOf(pgUUID(uuid.New()), "Dune", "Frank Herbert", true, "location", pgUUID(uuid.New()), int64(1), pgTime(now), pgTime(now)),
		rowOf(pgUUID(uuid.New()), "Emma", "Jane Austen", false, "member", pgUUID(memberID), int64(4), pgTime(now), pgTime(now)),
	)
	mockDB.EXPECT().Query(ctx, sqlContains("ORDER BY"), gomock.Any()).Return(rows, nil)

	books, err := repository.NewBookRepository(mockDB).List(ctx)

	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.True(t, books[1].IsHeldBy(memberID))
	assert.True(t, rows.closed)
}
