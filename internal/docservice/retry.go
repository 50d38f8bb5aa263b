package docservice

import (
	"context"
	"time"
)

// BackoffFunc computes the wait before the next attempt. attempt is the
// 1-based attempt that just failed.
type BackoffFunc func(attempt int, initial time.Duration) time.Duration

func FixedBackoff(_ int, initial time.Duration) time.Duration {
	return initial
}

func ExponentialBackoff(attempt int, initial time.Duration) time.Duration {
	return initial * time.Duration(1<<(attempt-1))
}

// WithRetry runs op up to maxAttempts times, waiting per backoff between
// failures. Cancellation is terminal: it is returned immediately and never
// retried.
func WithRetry[T any](ctx context.Context, maxAttempts int, initial time.Duration, backoff BackoffFunc, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if IsCancellation(err) {
			return zero, err
		}

		lastErr = err
		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff(attempt, initial)):
		}
	}

	return zero, lastErr
}

// Retry is WithRetry for operations without a result.
func Retry(ctx context.Context, maxAttempts int, initial time.Duration, backoff BackoffFunc, op func(ctx context.Context) error) error {
	_, err := WithRetry(ctx, maxAttempts, initial, backoff, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
