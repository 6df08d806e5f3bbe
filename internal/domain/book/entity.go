package book

import (
	"time"

	"book-custody/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound    = errs.Mark(errs.New("book not found"), errs.ErrNotFound)
	ErrBookUnavailable = errs.Mark(errs.New("book is already reserved or checked out"), errs.ErrInventoryUnavailable)
	ErrInvalidKeeper   = errs.Mark(errs.New("invalid keeper"), errs.ErrValidation)
)

type KeeperKind string

const (
	KeeperLocation KeeperKind = "location"
	KeeperMember   KeeperKind = "member"
)

func (k KeeperKind) IsValid() bool {
	switch k {
	case KeeperLocation, KeeperMember:
		return true
	default:
		return false
	}
}

// Keeper is whoever physically holds the book: a partner location or a member.
type Keeper struct {
	Kind KeeperKind
	ID   uuid.UUID
}

func LocationKeeper(id uuid.UUID) Keeper { return Keeper{Kind: KeeperLocation, ID: id} }
func MemberKeeper(id uuid.UUID) Keeper   { return Keeper{Kind: KeeperMember, ID: id} }

func NewKeeper(kind string, id uuid.UUID) (Keeper, error) {
	k := KeeperKind(kind)
	if !k.IsValid() || id == uuid.Nil {
		return Keeper{}, ErrInvalidKeeper
	}
	return Keeper{Kind: k, ID: id}, nil
}

func (k Keeper) IsMember(id uuid.UUID) bool   { return k.Kind == KeeperMember && k.ID == id }
func (k Keeper) IsLocation(id uuid.UUID) bool { return k.Kind == KeeperLocation && k.ID == id }

type Book struct {
	id        uuid.UUID
	title     string
	author    string
	available bool
	keeper    Keeper
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBook shelves a new book at a location.
func NewBook(id uuid.UUID, title, author string, locationID uuid.UUID, now time.Time) *Book {
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Book{
		id:        id,
		title:     title,
		author:    author,
		available: true,
		keeper:    LocationKeeper(locationID),
		version:   1,
		createdAt: now,
		updatedAt: now,
	}
}

func ReconstructBook(
	id uuid.UUID,
	title, author string,
	available bool,
	keeper Keeper,
	version int64,
	createdAt, updatedAt time.Time,
) *Book {
	return &Book{
		id:        id,
		title:     title,
		author:    author,
		available: available,
		keeper:    keeper,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Reserve takes the book off the shelf for a pending checkout. The keeper is
// unchanged until the member actually picks it up.
func (b *Book) Reserve(now time.Time) error {
	if !b.available {
		return ErrBookUnavailable
	}
	b.available = false
	b.updatedAt = now
	return nil
}

func (b *Book) HandTo(memberID uuid.UUID, now time.Time) {
	b.available = false
	b.keeper = MemberKeeper(memberID)
	b.updatedAt = now
}

// Shelve puts the book back on the shelf of a location.
func (b *Book) Shelve(locationID uuid.UUID, now time.Time) {
	b.available = true
	b.keeper = LocationKeeper(locationID)
	b.updatedAt = now
}

func (b *Book) IsHeldBy(memberID uuid.UUID) bool {
	return b.keeper.IsMember(memberID)
}

func (b *Book) ID() uuid.UUID        { return b.id }
func (b *Book) Title() string        { return b.title }
func (b *Book) Author() string       { return b.author }
func (b *Book) Available() bool      { return b.available }
func (b *Book) Keeper() Keeper       { return b.keeper }
func (b *Book) Version() int64       { return b.version }
func (b *Book) CreatedAt() time.Time { return b.createdAt }
func (b *Book) UpdatedAt() time.Time { return b.updatedAt }
