package commands

import (
	"context"
	"log/slog"

	"book-custody/internal/pkg/errs"

	"github.com/google/uuid"
)

// IDGenerator proposes transaction ids. Collisions are caught by the caller.
type IDGenerator interface {
	NewID() uuid.UUID
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() uuid.UUID {
	return uuid.New()
}

type idChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

func newTransactionID(ctx context.Context, ids IDGenerator, repo idChecker, maxAttempts int) (uuid.UUID, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		id := ids.NewID()
		exists, err := repo.Exists(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		if !exists {
			return id, nil
		}
		slog.WarnContext(ctx, "transaction id collision",
			slog.String("candidate", id.String()),
			slog.Int("attempt", attempt))
	}
	return uuid.Nil, errs.Wrapf(errs.ErrIDGenerationExhausted, "no free transaction id after %d attempts", maxAttempts)
}
