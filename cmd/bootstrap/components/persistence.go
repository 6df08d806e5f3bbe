package components

import (
	"context"
	"log/slog"

	"book-custody/internal/infra/db"
	"book-custody/internal/infra/memstore"
	"book-custody/internal/infra/uow"
	"book-custody/internal/pkg/config"
	"book-custody/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewUnitOfWork,
	),
)

// NewUnitOfWork selects the record store by STORE_DRIVER. The memory store
// starts empty and is meant for local runs.
func NewUnitOfWork(lc fx.Lifecycle, cfg config.Config) (shared.UnitOfWork, error) {
	policy := uow.PolicyFromConfig(cfg.Store)

	if cfg.Store.Driver == config.StoreDriverMemory {
		slog.Warn("Using in-memory record store; data is lost on shutdown")
		return memstore.New(policy), nil
	}

	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return uow.NewPostgresUoW(pool, policy), nil
}
