package shared

import (
	"context"

	"book-custody/internal/domain/book"
	"book-custody/internal/domain/custody"
	"book-custody/internal/domain/location"
	"book-custody/internal/domain/member"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: atomic read-check-write over several records, retried as a whole
	// on ErrConcurrentModification
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: consistent snapshot for multi-record reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, r Reads) error) error
}

// Tx exposes repositories bound to one unit of work. Records read through it
// are locked or versioned so the writes below fail if someone else got there first.
type Tx interface {
	Books() BookRepository
	Members() MemberRepository
	Locations() LocationReader
	Transactions() TransactionRepository
}

type Reads interface {
	Books() BookReader
	Members() MemberReader
	Locations() LocationReader
	Transactions() TransactionReader
}

type BookReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*book.Book, error)
	List(ctx context.Context) ([]*book.Book, error)
}

type BookRepository interface {
	BookReader
	// Update succeeds only if the stored version still equals b.Version().
	Update(ctx context.Context, b *book.Book) error
}

type MemberReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error)
	List(ctx context.Context) ([]*member.Member, error)
}

type MemberRepository interface {
	MemberReader
	Update(ctx context.Context, m *member.Member) error
}

type LocationReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error)
}

type TransactionReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*custody.Transaction, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// FindActiveByBook returns ErrRecordNotFound when the book is idle.
	FindActiveByBook(ctx context.Context, bookID uuid.UUID) (*custody.Transaction, error)
	FindActiveByMember(ctx context.Context, memberID uuid.UUID) ([]*custody.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*custody.Transaction, error)
}

type TransactionRepository interface {
	TransactionReader
	// Insert never overwrites; a taken id or a second active transaction for
	// the book is reported as ErrConcurrentModification.
	Insert(ctx context.Context, t *custody.Transaction) error
	Update(ctx context.Context, t *custody.Transaction) error
	Delete(ctx context.Context, t *custody.Transaction) error
}
