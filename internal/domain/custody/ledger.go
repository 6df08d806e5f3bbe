package custody

import (
	"book-custody/internal/domain/book"
	"book-custody/internal/domain/member"

	"github.com/google/uuid"
)

// Custodian is who holds a book right now, derived from its active transaction.
type Custodian struct {
	BookID        uuid.UUID
	Keeper        book.Keeper
	TransactionID *uuid.UUID
	Status        *Status
	// AwaitingPickup is set while a checkout is requested but not handed over.
	AwaitingPickup bool
}

// CustodianOf resolves the custodian of b. active is the book's active
// transaction or nil; without one the book's last known keeper stands.
func CustodianOf(b *book.Book, active *Transaction) Custodian {
	c := Custodian{BookID: b.ID(), Keeper: b.Keeper()}
	if active == nil || !active.IsActive() || active.BookID() != b.ID() {
		return c
	}

	id := active.ID()
	status := active.Status()
	c.TransactionID = &id
	c.Status = &status
	if status == StatusRequested {
		c.Keeper = book.LocationKeeper(active.LocationID())
		c.AwaitingPickup = true
	} else {
		c.Keeper = book.MemberKeeper(active.MemberID())
	}
	return c
}

type DriftKind string

const (
	DriftUnavailableWithoutTransaction DriftKind = "book_unavailable_without_transaction"
	DriftAvailableWithTransaction      DriftKind = "book_available_with_transaction"
	DriftMultipleActiveTransactions    DriftKind = "multiple_active_transactions"
	DriftMemberBookWithoutPossession   DriftKind = "member_book_without_possession"
	DriftPossessionNotOnMember         DriftKind = "possession_not_recorded_on_member"
	DriftKeeperMismatch                DriftKind = "keeper_mismatch"
)

type Drift struct {
	Kind           DriftKind
	BookID         uuid.UUID
	MemberID       *uuid.UUID
	TransactionIDs []uuid.UUID
}

// Reconcile cross-checks books, members and transactions and reports every
// record pair that disagrees. Findings follow the order of the inputs.
func Reconcile(books []*book.Book, members []*member.Member, txs []*Transaction) []Drift {
	activeByBook := make(map[uuid.UUID][]*Transaction)
	heldByMember := make(map[uuid.UUID][]*Transaction)
	for _, tx := range txs {
		if !tx.IsActive() {
			continue
		}
		activeByBook[tx.BookID()] = append(activeByBook[tx.BookID()], tx)
		if tx.Status().HeldByMember() {
			heldByMember[tx.MemberID()] = append(heldByMember[tx.MemberID()], tx)
		}
	}

	var drifts []Drift
	for _, b := range books {
		active := activeByBook[b.ID()]
		switch {
		case len(active) > 1:
			drifts = append(drifts, Drift{Kind: DriftMultipleActiveTransactions, BookID: b.ID(), TransactionIDs: idsOf(active)})
		case len(active) == 0 && !b.Available():
			drifts = append(drifts, Drift{Kind: DriftUnavailableWithoutTransaction, BookID: b.ID()})
		case len(active) == 1 && b.Available():
			drifts = append(drifts, Drift{Kind: DriftAvailableWithTransaction, BookID: b.ID(), TransactionIDs: idsOf(active)})
		}
		for _, tx := range active {
			if tx.Status().HeldByMember() && !b.IsHeldBy(tx.MemberID()) {
				memberID := tx.MemberID()
				drifts = append(drifts, Drift{Kind: DriftKeeperMismatch, BookID: b.ID(), MemberID: &memberID, TransactionIDs: []uuid.UUID{tx.ID()}})
			}
		}
	}

	for _, m := range members {
		memberID := m.ID()
		held := heldByMember[memberID]
		if current := m.CurrentBook(); current != nil && !containsBook(held, *current) {
			drifts = append(drifts, Drift{Kind: DriftMemberBookWithoutPossession, BookID: *current, MemberID: &memberID})
		}
		for _, tx := range held {
			if !m.HoldsBook(tx.BookID()) {
				drifts = append(drifts, Drift{Kind: DriftPossessionNotOnMember, BookID: tx.BookID(), MemberID: &memberID, TransactionIDs: []uuid.UUID{tx.ID()}})
			}
		}
	}

	return drifts
}

func idsOf(txs []*Transaction) []uuid.UUID {
	ids := make([]uuid.UUID, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID()
	}
	return ids
}

func containsBook(txs []*Transaction, bookID uuid.UUID) bool {
	for _, tx := range txs {
		if tx.BookID() == bookID {
			return true
		}
	}
	return false
}
