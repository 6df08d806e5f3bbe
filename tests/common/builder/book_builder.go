//go:build unit || e2e

package builder

import (
	"time"

	"book-custody/internal/domain/book"

	"github.com/google/uuid"
)

type BookBuilder struct {
	ID        uuid.UUID
	Title     string
	Author    string
	Available bool
	Keeper    book.Keeper
	Version   int64
	CreatedAt time.Time
}

func NewBookBuilder() *BookBuilder {
	return &BookBuilder{
		ID:        uuid.New(),
		Title:     "The Left Hand of Darkness",
		Author:    "Ursula K. Le Guin",
		Available: true,
		Keeper:    book.LocationKeeper(uuid.New()),
		Version:   1,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (b *BookBuilder) With(mutate func(*BookBuilder)) *BookBuilder {
	mutate(b)
	return b
}

func (b *BookBuilder) BuildDomain() *book.Book {
	return book.ReconstructBook(b.ID, b.Title, b.Author, b.Available, b.Keeper, b.Version, b.CreatedAt, b.CreatedAt)
}

func (b *BookBuilder) AtLocation(locationID uuid.UUID) *BookBuilder {
	b.Keeper = book.LocationKeeper(locationID)
	return b
}

func (b *BookBuilder) HeldBy(memberID uuid.UUID) *BookBuilder {
	b.Keeper = book.MemberKeeper(memberID)
	b.Available = false
	return b
}

func (b *BookBuilder) Reserved() *BookBuilder {
	b.Available = false
	return b
}
