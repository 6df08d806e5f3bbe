package bootstrap

import (
	"context"
	"log/slog"

	"book-custody/internal/jobs"
	"book-custody/internal/pkg/config"
	"book-custody/internal/usecase/queries"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewDriftWatcher,
	),
	fx.Invoke(StartScheduler),
)

func NewDriftWatcher(cfg config.Config, ledger queries.LedgerQueries, logger *slog.Logger) *jobs.DriftWatcher {
	return jobs.NewDriftWatcher(ledger, cfg.Store.OperationTimeout, logger)
}

func StartScheduler(lc fx.Lifecycle, cfg config.Config, watcher *jobs.DriftWatcher, logger *slog.Logger) error {
	if !cfg.Custody.DriftCheckEnabled {
		logger.Info("Drift check disabled")
		return nil
	}

	scheduler, err := jobs.NewScheduler(cfg.Custody.DriftCheckSchedule, watcher, logger)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
	return nil
}
