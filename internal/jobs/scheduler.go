package jobs

import (
	"log/slog"
	"time"

	"book-custody/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler registers the drift watcher under schedule, which accepts
// five-field cron specs and descriptors such as "@every 10m".
func NewScheduler(schedule string, watcher *DriftWatcher, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(schedule, watcher.Run); err != nil {
		return nil, errs.Wrapf(err, "register drift check %q", schedule)
	}
	logger.Info("Drift check registered", "schedule", schedule)

	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Cron scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler stopped")
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
