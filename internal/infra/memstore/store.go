package memstore

import (
	"context"
	"maps"
	"sync"

	"book-custody/internal/domain/book"
	"book-custody/internal/domain/custody"
	"book-custody/internal/domain/location"
	"book-custody/internal/domain/member"
	"book-custody/internal/infra/uow"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/shared"

	"github.com/google/uuid"
)

// Store is an in-memory record store with optimistic concurrency. A unit of
// work runs against a private snapshot; commit validates every written record
// against the committed version under the store lock and applies all or nothing.
type Store struct {
	mu           sync.Mutex
	books        map[uuid.UUID]bookRecord
	members      map[uuid.UUID]memberRecord
	locations    map[uuid.UUID]*location.Location
	transactions map[uuid.UUID]transactionRecord
	policy       uow.RetryPolicy
}

func New(policy uow.RetryPolicy) *Store {
	return &Store{
		books:        make(map[uuid.UUID]bookRecord),
		members:      make(map[uuid.UUID]memberRecord),
		locations:    make(map[uuid.UUID]*location.Location),
		transactions: make(map[uuid.UUID]transactionRecord),
		policy:       policy,
	}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return uow.Run(ctx, s.policy, isRetryable, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		u := s.begin()
		if err := fn(ctx, u); err != nil {
			return err
		}
		return s.commit(ctx, u)
	})
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, r shared.Reads) error) error {
	return uow.Run(ctx, s.policy, func(error) bool { return false }, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(ctx, readOnly{u: s.begin()})
	})
}

func isRetryable(err error) bool {
	return errs.Is(err, shared.ErrConcurrentModification)
}

// PutBook stores b as is, replacing any previous record. Used for seeding.
func (s *Store) PutBook(b *book.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.ID()] = bookToRecord(b, b.Version())
}

func (s *Store) PutMember(m *member.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.ID()] = memberToRecord(m, m.Version())
}

func (s *Store) PutLocation(l *location.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID()] = l
}

func (s *Store) PutTransaction(t *custody.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[t.ID()] = transactionToRecord(t, t.Version())
}

func (s *Store) begin() *unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &unit{
		books:        maps.Clone(s.books),
		members:      maps.Clone(s.members),
		locations:    maps.Clone(s.locations),
		transactions: maps.Clone(s.transactions),
		bookWrites:   make(map[uuid.UUID]int64),
		memberWrites: make(map[uuid.UUID]int64),
		txWrites:     make(map[uuid.UUID]txWrite),
	}
}

func (s *Store) commit(ctx context.Context, u *unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	for id, seen := range u.bookWrites {
		if s.books[id].version != seen {
			return errs.Wrapf(shared.ErrConcurrentModification, "book %s", id)
		}
	}
	for id, seen := range u.memberWrites {
		if s.members[id].version != seen {
			return errs.Wrapf(shared.ErrConcurrentModification, "member %s", id)
		}
	}
	for id, w := range u.txWrites {
		committed, exists := s.transactions[id]
		switch {
		case w.inserted && exists:
			return errs.Wrapf(shared.ErrConcurrentModification, "transaction id %s taken", id)
		case !w.inserted && (!exists || committed.version != w.seen):
			return errs.Wrapf(shared.ErrConcurrentModification, "transaction %s", id)
		}
	}
	if err := s.checkOneActivePerBook(u); err != nil {
		return err
	}

	for id := range u.bookWrites {
		s.books[id] = u.books[id]
	}
	for id := range u.memberWrites {
		s.members[id] = u.members[id]
	}
	for id, w := range u.txWrites {
		if w.deleted {
			delete(s.transactions, id)
			continue
		}
		s.transactions[id] = u.transactions[id]
	}
	return nil
}

// checkOneActivePerBook rejects an insert when another unit committed an
// active transaction for the same book after this unit took its snapshot.
func (s *Store) checkOneActivePerBook(u *unit) error {
	for id, w := range u.txWrites {
		if !w.inserted {
			continue
		}
		inserted := u.transactions[id]
		if !inserted.status.IsActive() {
			continue
		}
		for otherID, other := range s.transactions {
			if other.bookID != inserted.bookID || !other.status.IsActive() {
				continue
			}
			if ow, touched := u.txWrites[otherID]; touched && (ow.deleted || !u.transactions[otherID].status.IsActive()) {
				continue
			}
			return errs.Wrapf(shared.ErrConcurrentModification, "book %s already has an active transaction", inserted.bookID)
		}
	}
	return nil
}
