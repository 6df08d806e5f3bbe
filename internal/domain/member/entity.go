package member

import (
	"time"

	"github.com/google/uuid"
)

// Member borrows books. Billing owns the subscription and deposit attributes;
// the custody engine only reads them.
type Member struct {
	id           uuid.UUID
	email        Email
	displayName  string
	role         Role
	tier         Tier
	subscription Subscription
	depositHeld  bool
	currentBook  *uuid.UUID
	version      int64
	createdAt    time.Time
	updatedAt    time.Time
}

func NewMember(email Email, displayName string, role Role, tier Tier, sub Subscription, depositHeld bool, now time.Time) *Member {
	return &Member{
		id:           uuid.New(),
		email:        email,
		displayName:  displayName,
		role:         role,
		tier:         tier,
		subscription: sub,
		depositHeld:  depositHeld,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}
}

func ReconstructMember(
	id uuid.UUID,
	email Email,
	displayName string,
	role Role,
	tier Tier,
	sub Subscription,
	depositHeld bool,
	currentBook *uuid.UUID,
	version int64,
	createdAt, updatedAt time.Time,
) *Member {
	return &Member{
		id:           id,
		email:        email,
		displayName:  displayName,
		role:         role,
		tier:         tier,
		subscription: sub,
		depositHeld:  depositHeld,
		currentBook:  currentBook,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (m *Member) TakeCustody(bookID uuid.UUID, now time.Time) error {
	if m.currentBook != nil && *m.currentBook != bookID {
		return ErrAlreadyHoldsBook
	}
	id := bookID
	m.currentBook = &id
	m.updatedAt = now
	return nil
}

func (m *Member) ReleaseCustody(now time.Time) {
	m.currentBook = nil
	m.updatedAt = now
}

// Touch records activity on the member so the next write is conditional on
// this one. Two checkouts by the same member can then never both commit.
func (m *Member) Touch(now time.Time) {
	m.updatedAt = now
}

func (m *Member) HoldsBook(bookID uuid.UUID) bool {
	return m.currentBook != nil && *m.currentBook == bookID
}

func (m *Member) ID() uuid.UUID              { return m.id }
func (m *Member) Email() Email               { return m.email }
func (m *Member) DisplayName() string        { return m.displayName }
func (m *Member) Role() Role                 { return m.role }
func (m *Member) Tier() Tier                 { return m.tier }
func (m *Member) Subscription() Subscription { return m.subscription }
func (m *Member) DepositHeld() bool          { return m.depositHeld }
func (m *Member) CurrentBook() *uuid.UUID    { return m.currentBook }
func (m *Member) Version() int64             { return m.version }
func (m *Member) CreatedAt() time.Time       { return m.createdAt }
func (m *Member) UpdatedAt() time.Time       { return m.updatedAt }
