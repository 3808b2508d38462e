package batch

import (
	"context"
	"time"
)

// RetryPolicy bounds the attempts made for a single unit of work.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 are treated as 1 (no retries).
	MaxAttempts int

	// BaseDelay is the pause before the first retry. Each later retry
	// doubles the previous delay; no jitter is applied.
	BaseDelay time.Duration
}

// Retry runs fn until it succeeds or the policy's attempts are exhausted,
// sleeping BaseDelay * 2^attempt between attempts. The attempt counter is
// local to this call; concurrent Retry calls never share state, so unrelated
// failures cannot cross-talk.
//
// The error from the final attempt is wrapped in a RetryError. Context
// cancellation during a backoff sleep aborts immediately with ctx.Err(),
// not a RetryError.
func Retry[R any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (R, error)) (R, error) {
	var zero R

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := policy.BaseDelay
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
			delay *= 2
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return zero, RetryError{Attempts: attempts, Err: lastErr}
}
