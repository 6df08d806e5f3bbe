//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"book-custody/internal/domain/custody"
	"book-custody/internal/domain/member"
	"book-custody/internal/infra/memstore"
	"book-custody/internal/infra/uow"
	"book-custody/internal/pkg/clock"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/queries"
	"book-custody/internal/usecase/shared"
	"book-custody/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var policy = uow.RetryPolicy{Timeout: time.Second, BaseDelay: time.Millisecond}

func ptr[T any](v T) *T { return &v }

func TestTransactionQueries_List(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(policy)
	alice, bob := uuid.New(), uuid.New()
	aliceDone := builder.NewTransactionBuilder().With(func(b *builder.TransactionBuilder) {
		b.MemberID = alice
		b.Status = custody.StatusCompleted
	}).BuildDomain()
	aliceOpen := builder.NewTransactionBuilder().With(func(b *builder.TransactionBuilder) {
		b.MemberID = alice
		b.CreatedAt = b.CreatedAt.Add(time.Hour)
	}).BuildDomain()
	bobOpen := builder.NewTransactionBuilder().With(func(b *builder.TransactionBuilder) { b.MemberID = bob }).BuildDomain()
	for _, txn := range []*custody.Transaction{aliceDone, aliceOpen, bobOpen} {
		store.PutTransaction(txn)
	}

	sut := queries.NewTransactionQueries(store, 50)
	aliceActor := shared.Actor{MemberID: alice, Role: member.RoleMember}
	staff := shared.Actor{MemberID: uuid.New(), Role: member.RoleStaff}

	t.Run("members see only their own, newest first", func(t *testing.T) {
		page, err := sut.List(ctx, aliceActor, queries.ListTransactionsFilter{})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, aliceOpen.ID(), page.Items[0].ID)
		assert.Equal(t, aliceDone.ID(), page.Items[1].ID)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("members asking for someone else are refused", func(t *testing.T) {
		_, err := sut.List(ctx, aliceActor, queries.ListTransactionsFilter{MemberID: &bob})
		assert.True(t, errs.Is(err, errs.ErrUnauthorized))
	})

	t.Run("staff see everyone", func(t *testing.T) {
		page, err := sut.List(ctx, staff, queries.ListTransactionsFilter{})
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
	})

	t.Run("staff filter by member and status", func(t *testing.T) {
		page, err := sut.List(ctx, staff, queries.ListTransactionsFilter{
			MemberID: &alice,
			Status:   ptr("completed"),
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, aliceDone.ID(), page.Items[0].ID)
		assert.Equal(t, "completed", page.Items[0].Status)
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		_, err := sut.List(ctx, staff, queries.ListTransactionsFilter{Status: ptr("pickup_pending")})
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("malformed cursor is a validation error", func(t *testing.T) {
		_, err := sut.List(ctx, staff, queries.ListTransactionsFilter{After: "not-a-cursor"})
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})
}

func TestTransactionQueries_ListPages(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(policy)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// two rows share a timestamp so the id breaks the tie
	var want []uuid.UUID
	for _, offset := range []time.Duration{4, 3, 3, 2, 1} {
		txn := builder.NewTransactionBuilder().With(func(b *builder.TransactionBuilder) {
			b.CreatedAt = base.Add(offset * time.Minute)
		}).BuildDomain()
		store.PutTransaction(txn)
		want = append(want, txn.ID())
	}
	if want[1].String() > want[2].String() {
		want[1], want[2] = want[2], want[1]
	}

	sut := queries.NewTransactionQueries(store, 2)
	staff := shared.Actor{MemberID: uuid.New(), Role: member.RoleStaff}

	var got []uuid.UUID
	var cursor string
	pages := 0
	for {
		page, err := sut.List(ctx, staff, queries.ListTransactionsFilter{After: cursor})
		require.NoError(t, err)
		pages++
		require.LessOrEqual(t, len(page.Items), 2)
		for _, v := range page.Items {
			got = append(got, v.ID)
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
		require.Less(t, pages, 5, "pagination does not terminate")
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, want, got)

	t.Run("explicit limit overrides the default page size", func(t *testing.T) {
		page, err := sut.List(ctx, staff, queries.ListTransactionsFilter{Limit: 5})
		require.NoError(t, err)
		assert.Len(t, page.Items, 5)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("exact page boundary has no next cursor", func(t *testing.T) {
		page, err := sut.List(ctx, staff, queries.ListTransactionsFilter{Limit: 4, After: queries.EncodeAfterCursor(base.Add(4*time.Minute), want[0])})
		require.NoError(t, err)
		assert.Len(t, page.Items, 4)
		assert.Empty(t, page.NextCursor)
	})
}

func TestAfterCursor(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 123456789, time.UTC)
	id := uuid.New()

	decoded, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(at, id))
	require.NoError(t, err)
	assert.Equal(t, id, decoded.ID)
	assert.True(t, at.Truncate(time.Microsecond).Equal(decoded.CreatedAt))

	for _, bad := range []string{"", "%%%", "bm9wZQ==", "djE6YWJjLXh5eg==", "djE6MTIz"} {
		_, err := queries.DecodeAfterCursor(bad)
		assert.True(t, errs.Is(err, errs.ErrValidation), bad)
	}

	assert.Equal(t, 50, queries.ValidateLimit(0, 50))
	assert.Equal(t, 10, queries.ValidateLimit(10, 50))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(1000, 50))
}

func TestTransactionQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(policy)
	txn := builder.NewTransactionBuilder().BuildDomain()
	store.PutTransaction(txn)
	sut := queries.NewTransactionQueries(store, 50)

	owner := shared.Actor{MemberID: txn.MemberID(), Role: member.RoleMember}
	view, err := sut.GetByID(ctx, owner, txn.ID())
	require.NoError(t, err)
	assert.Equal(t, txn.BookID(), view.BookID)

	stranger := shared.Actor{MemberID: uuid.New(), Role: member.RoleMember}
	_, err = sut.GetByID(ctx, stranger, txn.ID())
	assert.True(t, errs.Is(err, errs.ErrNotFound))

	_, err = sut.GetByID(ctx, owner, uuid.New())
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}

func TestLedgerQueries(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(policy)
	clk := clock.NewMockClock(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))
	sut := queries.NewLedgerQueries(store, clk)

	holder := builder.NewMemberBuilder().BuildDomain()
	held := builder.NewBookBuilder().HeldBy(holder.ID()).BuildDomain()
	orphan := builder.NewBookBuilder().Reserved().BuildDomain()
	store.PutMember(holder)
	store.PutBook(held)
	store.PutBook(orphan)
	store.PutTransaction(builder.NewTransactionBuilder().With(func(b *builder.TransactionBuilder) {
		b.BookID = held.ID()
		b.MemberID = holder.ID()
		b.Status = custody.StatusInPossession
	}).BuildDomain())

	t.Run("custodian of a held book is the member", func(t *testing.T) {
		view, err := sut.Custodian(ctx, held.ID())
		require.NoError(t, err)
		assert.Equal(t, "member", view.KeeperKind)
		assert.Equal(t, holder.ID(), view.KeeperID)
		require.NotNil(t, view.Status)
		assert.Equal(t, "in_possession", *view.Status)
	})

	t.Run("unknown book", func(t *testing.T) {
		_, err := sut.Custodian(ctx, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})

	t.Run("drift report lists the inconsistencies", func(t *testing.T) {
		report, err := sut.Drift(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Books)
		assert.Equal(t, 1, report.Transactions)
		assert.False(t, report.Consistent())
		kinds := make([]string, 0, len(report.Drifts))
		for _, d := range report.Drifts {
			kinds = append(kinds, d.Kind)
		}
		// holder has the book per the transaction but not on the member record
		assert.ElementsMatch(t, []string{
			string(custody.DriftUnavailableWithoutTransaction),
			string(custody.DriftPossessionNotOnMember),
		}, kinds)
		assert.Equal(t, clk.Now(), report.CheckedAt)
	})
}
