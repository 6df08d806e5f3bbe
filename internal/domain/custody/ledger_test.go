//go:build unit

package custody_test

import (
	"testing"

	"book-custody/internal/domain/book"
	"book-custody/internal/domain/custody"
	"book-custody/internal/domain/member"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerMember(t *testing.T, currentBook *uuid.UUID) *member.Member {
	t.Helper()
	email, err := member.NewEmail("ledger@example.com")
	require.NoError(t, err)
	sub, err := member.NewSubscription(now.AddDate(-1, 0, 0), now.AddDate(1, 0, 0))
	require.NoError(t, err)
	return member.ReconstructMember(uuid.New(), email, "Ledger", member.RoleMember, member.TierBasic,
		sub, true, currentBook, 1, now, now)
}

func TestCustodianOf(t *testing.T) {
	shelf := uuid.New()
	b := book.NewBook(uuid.New(), "Dune", "Frank Herbert", shelf, now)

	t.Run("no active transaction falls back to the last keeper", func(t *testing.T) {
		c := custody.CustodianOf(b, nil)
		assert.True(t, c.Keeper.IsLocation(shelf))
		assert.Nil(t, c.TransactionID)
	})

	t.Run("requested book waits at the transaction location", func(t *testing.T) {
		pickup := uuid.New()
		tx, err := custody.NewTransaction(uuid.New(), b.ID(), uuid.New(), pickup, now)
		require.NoError(t, err)

		c := custody.CustodianOf(b, tx)
		assert.True(t, c.Keeper.IsLocation(pickup))
		assert.True(t, c.AwaitingPickup)
		require.NotNil(t, c.Status)
		assert.Equal(t, custody.StatusRequested, *c.Status)
	})

	t.Run("in possession is with the member", func(t *testing.T) {
		memberID := uuid.New()
		tx, err := custody.NewTransaction(uuid.New(), b.ID(), memberID, shelf, now)
		require.NoError(t, err)
		require.NoError(t, tx.Approve(b.ID(), now))

		c := custody.CustodianOf(b, tx)
		assert.True(t, c.Keeper.IsMember(memberID))
		assert.False(t, c.AwaitingPickup)
	})

	t.Run("completed transaction is ignored", func(t *testing.T) {
		tx := custody.ReconstructTransaction(uuid.New(), b.ID(), uuid.New(), uuid.New(),
			custody.StatusCompleted, now, nil, nil, nil, now, 4)

		c := custody.CustodianOf(b, tx)
		assert.True(t, c.Keeper.IsLocation(shelf))
	})
}

func TestReconcile(t *testing.T) {
	shelf := uuid.New()

	t.Run("consistent records report nothing", func(t *testing.T) {
		bookID := uuid.New()
		m := newLedgerMember(t, &bookID)
		b := book.ReconstructBook(bookID, "Dune", "Frank Herbert", false, book.MemberKeeper(m.ID()), 3, now, now)
		tx := custody.ReconstructTransaction(uuid.New(), bookID, m.ID(), shelf,
			custody.StatusInPossession, now, &now, nil, nil, now, 2)
		idle := book.NewBook(uuid.New(), "Emma", "Jane Austen", shelf, now)

		drifts := custody.Reconcile([]*book.Book{b, idle}, []*member.Member{m}, []*custody.Transaction{tx})
		assert.Empty(t, drifts)
	})

	t.Run("pending return keeps the book on the member", func(t *testing.T) {
		bookID := uuid.New()
		m := newLedgerMember(t, &bookID)
		b := book.ReconstructBook(bookID, "Dune", "Frank Herbert", false, book.MemberKeeper(m.ID()), 3, now, now)
		returnPoint := uuid.New()
		tx := custody.ReconstructTransaction(uuid.New(), bookID, m.ID(), returnPoint,
			custody.StatusReturnRequested, now, &now, &now, nil, now, 3)

		drifts := custody.Reconcile([]*book.Book{b}, []*member.Member{m}, []*custody.Transaction{tx})
		assert.Empty(t, drifts)
	})

	t.Run("pending return without the member holding the book", func(t *testing.T) {
		m := newLedgerMember(t, nil)
		b := book.ReconstructBook(uuid.New(), "Dune", "Frank Herbert", false, book.LocationKeeper(shelf), 3, now, now)
		tx := custody.ReconstructTransaction(uuid.New(), b.ID(), m.ID(), shelf,
			custody.StatusReturnRequested, now, &now, &now, nil, now, 3)

		drifts := custody.Reconcile([]*book.Book{b}, []*member.Member{m}, []*custody.Transaction{tx})
		kinds := make([]custody.DriftKind, len(drifts))
		for i, d := range drifts {
			kinds[i] = d.Kind
		}
		assert.Equal(t, []custody.DriftKind{custody.DriftKeeperMismatch, custody.DriftPossessionNotOnMember}, kinds)
	})

	t.Run("each kind of drift is reported", func(t *testing.T) {
		orphaned := book.ReconstructBook(uuid.New(), "A", "a", false, book.LocationKeeper(shelf), 2, now, now)
		freed := book.NewBook(uuid.New(), "B", "b", shelf, now)
		doubled := book.ReconstructBook(uuid.New(), "C", "c", false, book.LocationKeeper(shelf), 2, now, now)
		misplaced := book.ReconstructBook(uuid.New(), "D", "d", false, book.LocationKeeper(shelf), 2, now, now)

		ghostBook := uuid.New()
		dreamer := newLedgerMember(t, &ghostBook)
		holder := newLedgerMember(t, nil)

		freedTx := custody.ReconstructTransaction(uuid.New(), freed.ID(), uuid.New(), shelf,
			custody.StatusRequested, now, nil, nil, nil, now, 1)
		first := custody.ReconstructTransaction(uuid.New(), doubled.ID(), uuid.New(), shelf,
			custody.StatusRequested, now, nil, nil, nil, now, 1)
		second := custody.ReconstructTransaction(uuid.New(), doubled.ID(), uuid.New(), shelf,
			custody.StatusRequested, now, nil, nil, nil, now, 1)
		misplacedTx := custody.ReconstructTransaction(uuid.New(), misplaced.ID(), holder.ID(), shelf,
			custody.StatusInPossession, now, &now, nil, nil, now, 2)

		drifts := custody.Reconcile(
			[]*book.Book{orphaned, freed, doubled, misplaced},
			[]*member.Member{dreamer, holder},
			[]*custody.Transaction{freedTx, first, second, misplacedTx},
		)

		kinds := make([]custody.DriftKind, len(drifts))
		for i, d := range drifts {
			kinds[i] = d.Kind
		}
		assert.Equal(t, []custody.DriftKind{
			custody.DriftUnavailableWithoutTransaction,
			custody.DriftAvailableWithTransaction,
			custody.DriftMultipleActiveTransactions,
			custody.DriftKeeperMismatch,
			custody.DriftMemberBookWithoutPossession,
			custody.DriftPossessionNotOnMember,
		}, kinds)
		assert.ElementsMatch(t, []uuid.UUID{first.ID(), second.ID()}, drifts[2].TransactionIDs)
		assert.Equal(t, ghostBook, drifts[4].BookID)
	})
}
