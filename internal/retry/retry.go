// Package retry runs an operation a bounded number of times.
//
// It replaces ad-hoc "for attempt := 0; attempt < max; attempt++" loops
// with one combinator whose sleep is injectable, so callers can be tested
// without waiting.
//
// Example:
//
//	policy := retry.Policy{
//		MaxAttempts: 5,
//		Delay:       5 * time.Second,
//		Retryable:   func(err error) bool { return errors.Is(err, model.ErrSourceUnavailable) },
//	}
//	stream, err := retry.Do(ctx, policy, func(ctx context.Context) (model.Stream, error) {
//		return source.AudioStream(ctx, url)
//	})
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// Delay is waited between attempts.
	Delay time.Duration

	// Retryable reports whether err should trigger another attempt.
	// A nil Retryable retries every error.
	Retryable func(err error) bool

	// Sleep waits for d or until ctx is done. Defaults to Wait.
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry is called before sleeping, with the number of the failed attempt.
	OnRetry func(attempt int, err error)
}

// Wait blocks for d or until ctx is cancelled.
func Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do calls op until it succeeds, fails with a non-retryable error,
// or MaxAttempts is reached.
//
// When attempts are exhausted the last error is returned wrapped, so
// errors.Is still matches the underlying cause.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	attempts := max(p.MaxAttempts, 1)
	sleep := p.Sleep
	if sleep == nil {
		sleep = Wait
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}
