package jobs

import (
	"context"
	"log/slog"
	"time"

	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/queries"
)

const stackLines = 20

// DriftWatcher runs the custody reconciliation on a schedule and logs what it finds.
type DriftWatcher struct {
	ledger  queries.LedgerQueries
	timeout time.Duration
	logger  *slog.Logger
}

func NewDriftWatcher(ledger queries.LedgerQueries, timeout time.Duration, logger *slog.Logger) *DriftWatcher {
	return &DriftWatcher{ledger: ledger, timeout: timeout, logger: logger}
}

// Run is the cron entry point.
func (w *DriftWatcher) Run() {
	w.runWithRecovery("CheckCustodyDrift", func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		_, _ = w.CheckOnce(ctx)
	})
}

func (w *DriftWatcher) CheckOnce(ctx context.Context) (*queries.DriftReport, error) {
	report, err := w.ledger.Drift(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Custody drift check failed", "error", err)
		return nil, errs.Wrap(err, "drift check")
	}

	if report.Consistent() {
		w.logger.InfoContext(ctx, "Custody ledger consistent",
			"books", report.Books,
			"members", report.Members,
			"active_transactions", report.Transactions)
		return report, nil
	}

	for _, d := range report.Drifts {
		attrs := []any{"kind", d.Kind, "book_id", d.BookID}
		if d.MemberID != nil {
			attrs = append(attrs, "member_id", *d.MemberID)
		}
		if len(d.TransactionIDs) > 0 {
			attrs = append(attrs, "transaction_ids", d.TransactionIDs)
		}
		w.logger.WarnContext(ctx, "Custody drift detected", attrs...)
	}
	w.logger.WarnContext(ctx, "Custody ledger inconsistent", "drifts", len(report.Drifts))
	return report, nil
}

func (w *DriftWatcher) runWithRecovery(jobName string, job func()) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Job panicked", "job", jobName, "panic", r,
				"stack", errs.ExtractStackLines(errs.FromPanic(r), stackLines))
		}
	}()

	start := time.Now()
	job()
	w.logger.Debug("Job finished", "job", jobName, "duration", time.Since(start))
}
