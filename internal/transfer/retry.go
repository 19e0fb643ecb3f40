package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryPolicy bounds how often a transfer step is retried. Delay is a
// fixed pause between attempts, not a backoff.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// Do runs fn up to Attempts times, sleeping Delay between failures.
// Context cancellation stops the loop immediately. The last error is
// wrapped in ErrRetryExhausted once the budget is spent.
func (p RetryPolicy) Do(ctx context.Context, log *slog.Logger, op string, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		log.Warn("operation failed",
			"op", op, "attempt", attempt, "of", attempts, "error", lastErr)

		if attempt < attempts {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrRetryExhausted, lastErr)
}
