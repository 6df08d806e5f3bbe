//go:build unit || e2e

package builder

import (
	"time"

	"book-custody/internal/domain/member"

	"github.com/google/uuid"
)

type MemberBuilder struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	Role        member.Role
	Tier        member.Tier
	ValidFrom   time.Time
	ValidUntil  time.Time
	DepositHeld bool
	CurrentBook *uuid.UUID
	Version     int64
	CreatedAt   time.Time
}

// NewMemberBuilder returns an eligible basic member whose subscription covers
// the whole of 2026.
func NewMemberBuilder() *MemberBuilder {
	return &MemberBuilder{
		ID:          uuid.New(),
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Role:        member.RoleMember,
		Tier:        member.TierBasic,
		ValidFrom:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:  time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		DepositHeld: true,
		Version:     1,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MemberBuilder) With(mutate func(*MemberBuilder)) *MemberBuilder {
	mutate(m)
	return m
}

func (m *MemberBuilder) BuildDomain() *member.Member {
	email, err := member.NewEmail(m.Email)
	if err != nil {
		panic(err)
	}
	return member.ReconstructMember(m.ID, email, m.DisplayName, m.Role, m.Tier,
		member.Subscription{ValidFrom: m.ValidFrom, ValidUntil: m.ValidUntil},
		m.DepositHeld, m.CurrentBook, m.Version, m.CreatedAt, m.CreatedAt)
}

func (m *MemberBuilder) WithRole(role member.Role) *MemberBuilder {
	m.Role = role
	return m
}

func (m *MemberBuilder) WithoutDeposit() *MemberBuilder {
	m.DepositHeld = false
	return m
}

func (m *MemberBuilder) Expired() *MemberBuilder {
	m.ValidUntil = m.ValidFrom.Add(time.Hour)
	return m
}

func (m *MemberBuilder) Holding(bookID uuid.UUID) *MemberBuilder {
	m.CurrentBook = &bookID
	return m
}
