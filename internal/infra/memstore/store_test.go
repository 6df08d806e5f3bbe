//go:build unit

package memstore_test

import (
	"context"
	"testing"
	"time"

	"book-custody/internal/domain/book"
	"book-custody/internal/domain/custody"
	"book-custody/internal/infra/memstore"
	"book-custody/internal/infra/uow"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/shared"
	"book-custody/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now    = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	policy = uow.RetryPolicy{Timeout: time.Second, MaxRetries: 0, BaseDelay: time.Millisecond}
)

func TestStore_WithinAppliesAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(policy)
	b := builder.NewBookBuilder().BuildDomain()
	store.PutBook(b)

	boom := errs.New("boom")
	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Books().FindByID(ctx, b.ID())
		require.NoError(t, err)
		require.NoError(t, got.Reserve(now))
		require.NoError(t, tx.Books().Update(ctx, got))

		txn, err := custody.NewTransaction(uuid.New(), b.ID(), uuid.New(), uuid.New(), now)
		require.NoError(t, err)
		require.NoError(t, tx.Transactions().Insert(ctx, txn))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.WithinReadOnly(ctx, func(ctx context.Context, r shared.Reads) error {
		got, err := r.Books().FindByID(ctx, b.ID())
		require.NoError(t, err)
		assert.True(t, got.Available())
		assert.Equal(t, int64(1), got.Version())

		txs, err := r.Transactions().List(ctx, shared.TransactionFilter{})
		require.NoError(t, err)
		assert.Empty(t, txs)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_UpdateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(policy)
	b := builder.NewBookBuilder().BuildDomain()
	store.PutBook(b)

	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Books().FindByID(ctx, b.ID())
		if err != nil {
			return err
		}
		if err := got.Reserve(now); err != nil {
			return err
		}
		return tx.Books().Update(ctx, got)
	}))

	require.NoError(t, store.WithinReadOnly(ctx, func(ctx context.Context, r shared.Reads) error {
		got, err := r.Books().FindByID(ctx, b.ID())
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Version())
		assert.False(t, got.Available())
		return nil
	}))
}

func TestStore_StaleWriteConflicts(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(policy)
	b := builder.NewBookBuilder().BuildDomain()
	store.PutBook(b)

	// interleave a second unit between the first unit's read and its commit
	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Books().FindByID(ctx, b.ID())
		require.NoError(t, err)

		inner := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			other, err := tx.Books().FindByID(ctx, b.ID())
			require.NoError(t, err)
			other.Shelve(uuid.New(), now)
			return tx.Books().Update(ctx, other)
		})
		require.NoError(t, inner)

		got.HandTo(uuid.New(), now)
		return tx.Books().Update(ctx, got)
	})

	assert.True(t, errs.Is(err, shared.ErrConcurrentModification))
}

func TestStore_OneActiveTransactionPerBook(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(policy)
	bookID := uuid.New()

	insert := func(ctx context.Context, tx shared.Tx) error {
		txn, err := custody.NewTransaction(uuid.New(), bookID, uuid.New(), uuid.New(), now)
		if err != nil {
			return err
		}
		return tx.Transactions().Insert(ctx, txn)
	}

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, store.Within(ctx, insert))
		return insert(ctx, tx)
	})
	assert.True(t, errs.Is(err, shared.ErrConcurrentModification))

	err = store.Within(ctx, insert)
	assert.True(t, errs.Is(err, shared.ErrConcurrentModification), "second insert sees the committed one")
}

func TestStore_InsertNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(policy)
	existing := builder.NewTransactionBuilder().WithStatus(custody.StatusCompleted).BuildDomain()
	store.PutTransaction(existing)

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		exists, err := tx.Transactions().Exists(ctx, existing.ID())
		require.NoError(t, err)
		assert.True(t, exists)

		dup, err := custody.NewTransaction(existing.ID(), uuid.New(), uuid.New(), uuid.New(), now)
		require.NoError(t, err)
		return tx.Transactions().Insert(ctx, dup)
	})
	assert.True(t, errs.Is(err, shared.ErrConcurrentModification))

	require.NoError(t, store.WithinReadOnly(ctx, func(ctx context.Context, r shared.Reads) error {
		got, err := r.Transactions().FindByID(ctx, existing.ID())
		require.NoError(t, err)
		assert.Equal(t, existing.BookID(), got.BookID())
		assert.Equal(t, custody.StatusCompleted, got.Status())
		return nil
	}))
}

func TestStore_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(policy)
	memberID := uuid.New()
	older := builder.NewTransactionBuilder().With(func(b *builder.TransactionBuilder) {
		b.MemberID = memberID
		b.Status = custody.StatusCompleted
	}).BuildDomain()
	newer := builder.NewTransactionBuilder().With(func(b *builder.TransactionBuilder) {
		b.MemberID = memberID
		b.CreatedAt = b.CreatedAt.Add(time.Hour)
	}).BuildDomain()
	stranger := builder.NewTransactionBuilder().BuildDomain()
	for _, txn := range []*custody.Transaction{older, newer, stranger} {
		store.PutTransaction(txn)
	}

	require.NoError(t, store.WithinReadOnly(ctx, func(ctx context.Context, r shared.Reads) error {
		txs, err := r.Transactions().List(ctx, shared.TransactionFilter{MemberID: &memberID})
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, newer.ID(), txs[0].ID())
		assert.Equal(t, older.ID(), txs[1].ID())

		active, err := r.Transactions().FindActiveByMember(ctx, memberID)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, newer.ID(), active[0].ID())
		return nil
	}))

	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Transactions().FindByID(ctx, newer.ID())
		if err != nil {
			return err
		}
		return tx.Transactions().Delete(ctx, got)
	}))

	require.NoError(t, store.WithinReadOnly(ctx, func(ctx context.Context, r shared.Reads) error {
		_, err := r.Transactions().FindByID(ctx, newer.ID())
		assert.True(t, errs.Is(err, shared.ErrRecordNotFound))
		_, err = r.Transactions().FindActiveByBook(ctx, newer.BookID())
		assert.True(t, errs.Is(err, shared.ErrRecordNotFound))
		return nil
	}))
}

func TestStore_NotFound(t *testing.T) {
	store := memstore.New(policy)
	err := store.WithinReadOnly(context.Background(), func(ctx context.Context, r shared.Reads) error {
		_, err := r.Books().FindByID(ctx, uuid.New())
		return err
	})
	assert.True(t, errs.Is(err, shared.ErrRecordNotFound))

	err = store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Books().Update(ctx, book.NewBook(uuid.New(), "x", "y", uuid.New(), now))
	})
	assert.True(t, errs.Is(err, shared.ErrRecordNotFound))
}

func TestStore_CancelledContext(t *testing.T) {
	store := memstore.New(policy)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	called := false
	err := store.Within(ctx, func(context.Context, shared.Tx) error {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.True(t, errs.Is(err, errs.ErrStoreUnavailable))
}
