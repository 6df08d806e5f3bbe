package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"

	"book-custody/internal/pkg/config"
	"book-custody/internal/pkg/errs"
)

var errMaxRetriesExceeded = errs.New("unit of work failed after max retries")

// RetryPolicy bounds one unit of work: a deadline shared by every attempt and
// a number of retries after the first one.
type RetryPolicy struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

func PolicyFromConfig(cfg config.StoreConfig) RetryPolicy {
	return RetryPolicy{
		Timeout:    cfg.OperationTimeout,
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
	}
}

// Run calls attempt until it succeeds, fails with an error retryable rejects,
// or the policy is spent. Deadline expiry is reported as errs.ErrStoreUnavailable.
func Run(ctx context.Context, p RetryPolicy, retryable func(error) bool, attempt func(ctx context.Context) error) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	for i := 0; ; i++ {
		err := attempt(ctx)
		if err == nil {
			return nil
		}
		if isDeadline(ctx, err) {
			return errs.Mark(errs.Wrap(err, "unit of work timed out"), errs.ErrStoreUnavailable)
		}
		if !retryable(err) {
			return err
		}
		if i >= p.MaxRetries {
			slog.ErrorContext(ctx, "unit of work failed after max retries",
				"attempts", i+1,
				"error", err.Error())
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		waitTime := calculateBackoff(i, p.BaseDelay)
		slog.WarnContext(ctx, "retrying unit of work due to retryable error",
			"attempt", i+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return errs.Mark(errs.Wrap(ctx.Err(), "unit of work timed out"), errs.ErrStoreUnavailable)
		case <-time.After(waitTime):
		}
	}
}

func isDeadline(ctx context.Context, err error) bool {
	return errs.Is(err, context.DeadlineExceeded) || errs.Is(ctx.Err(), context.DeadlineExceeded)
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- high bit masked above
	return int64(uval) % n
}
