//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"book-custody/internal/domain/book"
	"book-custody/internal/domain/location"
	"book-custody/internal/domain/member"
	"book-custody/internal/infra/db"
	"book-custody/internal/infra/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Reference locations present after every reset.
var (
	CentralLocationID = uuid.MustParse("0b6f1c3e-6d0a-4c55-9a51-1f1d4a7e0001")
	HarborLocationID  = uuid.MustParse("0b6f1c3e-6d0a-4c55-9a51-1f1d4a7e0002")
	KioskLocationID   = uuid.MustParse("0b6f1c3e-6d0a-4c55-9a51-1f1d4a7e0003")
)

func InsertBook(t *testing.T, dbtx db.DBTX, b *book.Book) uuid.UUID {
	t.Helper()
	require.NoError(t, repository.NewBookRepository(dbtx).Insert(context.Background(), b))
	return b.ID()
}

func InsertMember(t *testing.T, dbtx db.DBTX, m *member.Member) uuid.UUID {
	t.Helper()
	require.NoError(t, repository.NewMemberRepository(dbtx).Insert(context.Background(), m))
	return m.ID()
}

func InsertLocation(t *testing.T, dbtx db.DBTX, l *location.Location) uuid.UUID {
	t.Helper()
	require.NoError(t, repository.NewLocationRepository(dbtx).Insert(context.Background(), l))
	return l.ID()
}

func CountActiveTransactions(t *testing.T, dbtx db.DBTX, bookID uuid.UUID) int {
	t.Helper()

	var n int
	err := dbtx.QueryRow(context.Background(),
		"SELECT count(*) FROM custody_transactions WHERE book_id = $1 AND status <> 'completed'", bookID).Scan(&n)
	require.NoError(t, err)
	return n
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO locations (id, name, accepts_returns) VALUES
		    ($1, 'Central Library', true),
		    ($2, 'Harbor Branch', true),
		    ($3, 'Station Pickup Kiosk', false)
		ON CONFLICT (id) DO NOTHING;
	`, CentralLocationID, HarborLocationID, KioskLocationID)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
