package memstore

import (
	"time"

	"book-custody/internal/domain/book"
	"book-custody/internal/domain/custody"
	"book-custody/internal/domain/member"

	"github.com/google/uuid"
)

// Records are immutable values. Entities are rebuilt from them on every read,
// so callers never alias committed state.

type bookRecord struct {
	id        uuid.UUID
	title     string
	author    string
	available bool
	keeper    book.Keeper
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

func bookToRecord(b *book.Book, version int64) bookRecord {
	return bookRecord{
		id:        b.ID(),
		title:     b.Title(),
		author:    b.Author(),
		available: b.Available(),
		keeper:    b.Keeper(),
		version:   version,
		createdAt: b.CreatedAt(),
		updatedAt: b.UpdatedAt(),
	}
}

func (r bookRecord) entity() *book.Book {
	return book.ReconstructBook(r.id, r.title, r.author, r.available, r.keeper, r.version, r.createdAt, r.updatedAt)
}

type memberRecord struct {
	id           uuid.UUID
	email        member.Email
	displayName  string
	role         member.Role
	tier         member.Tier
	subscription member.Subscription
	depositHeld  bool
	currentBook  *uuid.UUID
	version      int64
	createdAt    time.Time
	updatedAt    time.Time
}

func memberToRecord(m *member.Member, version int64) memberRecord {
	return memberRecord{
		id:           m.ID(),
		email:        m.Email(),
		displayName:  m.DisplayName(),
		role:         m.Role(),
		tier:         m.Tier(),
		subscription: m.Subscription(),
		depositHeld:  m.DepositHeld(),
		currentBook:  copyID(m.CurrentBook()),
		version:      version,
		createdAt:    m.CreatedAt(),
		updatedAt:    m.UpdatedAt(),
	}
}

func (r memberRecord) entity() *member.Member {
	return member.ReconstructMember(r.id, r.email, r.displayName, r.role, r.tier, r.subscription,
		r.depositHeld, copyID(r.currentBook), r.version, r.createdAt, r.updatedAt)
}

type transactionRecord struct {
	id                uuid.UUID
	bookID            uuid.UUID
	memberID          uuid.UUID
	locationID        uuid.UUID
	status            custody.Status
	createdAt         time.Time
	approvedAt        *time.Time
	returnRequestedAt *time.Time
	completedAt       *time.Time
	updatedAt         time.Time
	version           int64
}

func transactionToRecord(t *custody.Transaction, version int64) transactionRecord {
	return transactionRecord{
		id:                t.ID(),
		bookID:            t.BookID(),
		memberID:          t.MemberID(),
		locationID:        t.LocationID(),
		status:            t.Status(),
		createdAt:         t.CreatedAt(),
		approvedAt:        copyTime(t.ApprovedAt()),
		returnRequestedAt: copyTime(t.ReturnRequestedAt()),
		completedAt:       copyTime(t.CompletedAt()),
		updatedAt:         t.UpdatedAt(),
		version:           version,
	}
}

func (r transactionRecord) entity() *custody.Transaction {
	return custody.ReconstructTransaction(r.id, r.bookID, r.memberID, r.locationID, r.status, r.createdAt,
		copyTime(r.approvedAt), copyTime(r.returnRequestedAt), copyTime(r.completedAt), r.updatedAt, r.version)
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
