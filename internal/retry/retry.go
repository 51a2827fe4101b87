// Package retry wraps best-effort local writes in bounded exponential
// backoff. The memory log rewrites its whole record file on every append; a
// transient filesystem error there should cost a few short waits, not a lost
// conversation exchange.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Config bounds one retried operation.
type Config struct {
	// MaxAttempts counts the first try too; values below 1 mean one try.
	MaxAttempts int
	// InitialDelay is the wait after the first failure. It doubles on each
	// further failure, capped at MaxDelay.
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultConfig suits short local I/O: three tries within roughly a second.
var DefaultConfig = Config{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     2 * time.Second,
}

// Do runs fn until it returns nil or the attempt budget is spent, sleeping
// between attempts. The error of the last attempt is returned. Cancelling
// ctx cuts the sleep short; the context error is joined onto the last
// attempt's error so callers can match either with errors.Is.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := cfg.InitialDelay
	if delay <= 0 {
		delay = DefaultConfig.InitialDelay
	}
	maxDelay := cfg.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultConfig.MaxDelay
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			return lastErr
		}

		slog.Debug("retry: attempt failed, waiting",
			"attempt", attempt, "of", attempts, "wait", delay, "err", lastErr)

		select {
		case <-ctx.Done():
			return errors.Join(lastErr, ctx.Err())
		case <-time.After(delay):
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}
