package components

import (
	"book-custody/internal/domain/eligibility"
	"book-custody/internal/pkg/clock"
	"book-custody/internal/pkg/config"
	"book-custody/internal/usecase"
	"book-custody/internal/usecase/commands"
	"book-custody/internal/usecase/queries"
	"book-custody/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	eligibility.NewChecker,
	fx.Annotate(
		func() commands.UUIDGenerator { return commands.UUIDGenerator{} },
		fx.As(new(commands.IDGenerator)),
	),
	func(cfg config.Config) commands.Options {
		return commands.Options{MaxIDAttempts: cfg.Custody.MaxIDAttempts}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCustodyUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		func(u shared.UnitOfWork, cfg config.Config) queries.TransactionQueries {
			return queries.NewTransactionQueries(u, cfg.Custody.TransactionPageSize)
		},
		queries.NewLedgerQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
