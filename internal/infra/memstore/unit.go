package memstore

import (
	"context"
	"slices"
	"strings"

	"book-custody/internal/domain/book"
	"book-custody/internal/domain/custody"
	"book-custody/internal/domain/location"
	"book-custody/internal/domain/member"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/shared"

	"github.com/google/uuid"
)

type txWrite struct {
	seen     int64
	inserted bool
	deleted  bool
}

// unit is the private snapshot of one unit of work plus its staged writes.
// The *Writes maps hold the committed version each written record had when
// this unit first read it.
type unit struct {
	books        map[uuid.UUID]bookRecord
	members      map[uuid.UUID]memberRecord
	locations    map[uuid.UUID]*location.Location
	transactions map[uuid.UUID]transactionRecord

	bookWrites   map[uuid.UUID]int64
	memberWrites map[uuid.UUID]int64
	txWrites     map[uuid.UUID]txWrite
}

func (u *unit) Books() shared.BookRepository               { return bookRepo{u} }
func (u *unit) Members() shared.MemberRepository           { return memberRepo{u} }
func (u *unit) Locations() shared.LocationReader           { return locationRepo{u} }
func (u *unit) Transactions() shared.TransactionRepository { return transactionRepo{u} }

type readOnly struct {
	u *unit
}

func (r readOnly) Books() shared.BookReader               { return bookRepo(r) }
func (r readOnly) Members() shared.MemberReader           { return memberRepo(r) }
func (r readOnly) Locations() shared.LocationReader       { return locationRepo(r) }
func (r readOnly) Transactions() shared.TransactionReader { return transactionRepo(r) }

type bookRepo struct{ u *unit }

func (r bookRepo) FindByID(_ context.Context, id uuid.UUID) (*book.Book, error) {
	rec, ok := r.u.books[id]
	if !ok {
		return nil, errs.Wrapf(shared.ErrRecordNotFound, "book %s", id)
	}
	return rec.entity(), nil
}

func (r bookRepo) List(_ context.Context) ([]*book.Book, error) {
	recs := sortedValues(r.u.books, func(a, b bookRecord) int {
		return compareCreated(a.createdAt.UnixNano(), b.createdAt.UnixNano(), a.id, b.id)
	})
	out := make([]*book.Book, len(recs))
	for i, rec := range recs {
		out[i] = rec.entity()
	}
	return out, nil
}

func (r bookRepo) Update(_ context.Context, b *book.Book) error {
	rec, ok := r.u.books[b.ID()]
	if !ok {
		return errs.Wrapf(shared.ErrRecordNotFound, "book %s", b.ID())
	}
	if rec.version != b.Version() {
		return errs.Wrapf(shared.ErrConcurrentModification, "book %s", b.ID())
	}
	if _, staged := r.u.bookWrites[b.ID()]; !staged {
		r.u.bookWrites[b.ID()] = rec.version
	}
	r.u.books[b.ID()] = bookToRecord(b, rec.version+1)
	return nil
}

type memberRepo struct{ u *unit }

func (r memberRepo) FindByID(_ context.Context, id uuid.UUID) (*member.Member, error) {
	rec, ok := r.u.members[id]
	if !ok {
		return nil, errs.Wrapf(shared.ErrRecordNotFound, "member %s", id)
	}
	return rec.entity(), nil
}

func (r memberRepo) List(_ context.Context) ([]*member.Member, error) {
	recs := sortedValues(r.u.members, func(a, b memberRecord) int {
		return compareCreated(a.createdAt.UnixNano(), b.createdAt.UnixNano(), a.id, b.id)
	})
	out := make([]*member.Member, len(recs))
	for i, rec := range recs {
		out[i] = rec.entity()
	}
	return out, nil
}

func (r memberRepo) Update(_ context.Context, m *member.Member) error {
	rec, ok := r.u.members[m.ID()]
	if !ok {
		return errs.Wrapf(shared.ErrRecordNotFound, "member %s", m.ID())
	}
	if rec.version != m.Version() {
		return errs.Wrapf(shared.ErrConcurrentModification, "member %s", m.ID())
	}
	if _, staged := r.u.memberWrites[m.ID()]; !staged {
		r.u.memberWrites[m.ID()] = rec.version
	}
	r.u.members[m.ID()] = memberToRecord(m, rec.version+1)
	return nil
}

type locationRepo struct{ u *unit }

func (r locationRepo) FindByID(_ context.Context, id uuid.UUID) (*location.Location, error) {
	l, ok := r.u.locations[id]
	if !ok {
		return nil, errs.Wrapf(shared.ErrRecordNotFound, "location %s", id)
	}
	return l, nil
}

type transactionRepo struct{ u *unit }

func (r transactionRepo) FindByID(_ context.Context, id uuid.UUID) (*custody.Transaction, error) {
	rec, ok := r.u.transactions[id]
	if !ok {
		return nil, errs.Wrapf(shared.ErrRecordNotFound, "transaction %s", id)
	}
	return rec.entity(), nil
}

func (r transactionRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.u.transactions[id]
	return ok, nil
}

func (r transactionRepo) FindActiveByBook(ctx context.Context, bookID uuid.UUID) (*custody.Transaction, error) {
	txs, err := r.List(ctx, shared.TransactionFilter{Statuses: custody.ActiveStatuses(), BookID: &bookID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, errs.Wrapf(shared.ErrRecordNotFound, "active transaction for book %s", bookID)
	}
	return txs[0], nil
}

func (r transactionRepo) FindActiveByMember(ctx context.Context, memberID uuid.UUID) ([]*custody.Transaction, error) {
	return r.List(ctx, shared.TransactionFilter{Statuses: custody.ActiveStatuses(), MemberID: &memberID})
}

// List orders newest first.
func (r transactionRepo) List(_ context.Context, filter shared.TransactionFilter) ([]*custody.Transaction, error) {
	recs := sortedValues(r.u.transactions, func(a, b transactionRecord) int {
		return compareCreated(b.createdAt.UnixMicro(), a.createdAt.UnixMicro(), a.id, b.id)
	})
	var out []*custody.Transaction
	for _, rec := range recs {
		t := rec.entity()
		if !filter.Matches(t) {
			continue
		}
		out = append(out, t)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r transactionRepo) Insert(_ context.Context, t *custody.Transaction) error {
	if _, exists := r.u.transactions[t.ID()]; exists {
		return errs.Wrapf(shared.ErrConcurrentModification, "transaction id %s taken", t.ID())
	}
	for _, rec := range r.u.transactions {
		if rec.bookID == t.BookID() && rec.status.IsActive() && t.IsActive() {
			return errs.Wrapf(shared.ErrConcurrentModification, "book %s already has an active transaction", t.BookID())
		}
	}
	r.u.txWrites[t.ID()] = txWrite{inserted: true}
	r.u.transactions[t.ID()] = transactionToRecord(t, t.Version())
	return nil
}

func (r transactionRepo) Update(_ context.Context, t *custody.Transaction) error {
	rec, err := r.staged(t)
	if err != nil {
		return err
	}
	r.u.transactions[t.ID()] = transactionToRecord(t, rec.version+1)
	return nil
}

func (r transactionRepo) Delete(_ context.Context, t *custody.Transaction) error {
	if _, err := r.staged(t); err != nil {
		return err
	}
	w := r.u.txWrites[t.ID()]
	w.deleted = true
	r.u.txWrites[t.ID()] = w
	delete(r.u.transactions, t.ID())
	return nil
}

func (r transactionRepo) staged(t *custody.Transaction) (transactionRecord, error) {
	rec, ok := r.u.transactions[t.ID()]
	if !ok {
		return transactionRecord{}, errs.Wrapf(shared.ErrRecordNotFound, "transaction %s", t.ID())
	}
	if rec.version != t.Version() {
		return transactionRecord{}, errs.Wrapf(shared.ErrConcurrentModification, "transaction %s", t.ID())
	}
	if _, tracked := r.u.txWrites[t.ID()]; !tracked {
		r.u.txWrites[t.ID()] = txWrite{seen: rec.version}
	}
	return rec, nil
}

func sortedValues[V any](m map[uuid.UUID]V, cmp func(a, b V) int) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, cmp)
	return out
}

func compareCreated(a, b int64, aID, bID uuid.UUID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return strings.Compare(aID.String(), bID.String())
	}
}
