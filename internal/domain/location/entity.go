package location

import (
	"time"

	"book-custody/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrLocationNotFound = errs.Mark(errs.New("location not found"), errs.ErrNotFound)
	ErrNotReturnPoint   = errs.Mark(errs.New("location does not accept returns"), errs.ErrValidation)
)

// Location is a partner venue that lends and takes back books.
type Location struct {
	id             uuid.UUID
	name           string
	acceptsReturns bool
	createdAt      time.Time
}

func NewLocation(name string, acceptsReturns bool, now time.Time) *Location {
	return &Location{id: uuid.New(), name: name, acceptsReturns: acceptsReturns, createdAt: now}
}

func ReconstructLocation(id uuid.UUID, name string, acceptsReturns bool, createdAt time.Time) *Location {
	return &Location{id: id, name: name, acceptsReturns: acceptsReturns, createdAt: createdAt}
}

func (l *Location) EnsureReturnPoint() error {
	if !l.acceptsReturns {
		return ErrNotReturnPoint
	}
	return nil
}

func (l *Location) ID() uuid.UUID        { return l.id }
func (l *Location) Name() string         { return l.name }
func (l *Location) AcceptsReturns() bool { return l.acceptsReturns }
func (l *Location) CreatedAt() time.Time { return l.createdAt }
