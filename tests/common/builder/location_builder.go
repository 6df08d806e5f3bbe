//go:build unit || e2e

package builder

import (
	"time"

	"book-custody/internal/domain/location"

	"github.com/google/uuid"
)

type LocationBuilder struct {
	ID             uuid.UUID
	Name           string
	AcceptsReturns bool
}

func NewLocationBuilder() *LocationBuilder {
	return &LocationBuilder{
		ID:             uuid.New(),
		Name:           "Corner Cafe",
		AcceptsReturns: true,
	}
}

func (l *LocationBuilder) BuildDomain() *location.Location {
	return location.ReconstructLocation(l.ID, l.Name, l.AcceptsReturns, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (l *LocationBuilder) Named(name string) *LocationBuilder {
	l.Name = name
	return l
}

func (l *LocationBuilder) PickupOnly() *LocationBuilder {
	l.AcceptsReturns = false
	return l
}
