// Package resilience retries operations that fail for transient reasons,
// such as a registry connection reset in the middle of an install.
package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"
)

// RetryPolicy defines the retry behavior for operations.
type RetryPolicy struct {
	// MaxRetries is the maximum number of retry attempts (not including initial call).
	MaxRetries int

	// BaseDelay is the initial delay before the first retry.
	BaseDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration

	// UseJitter spreads delays between 0.5x and 1.5x of the computed backoff.
	UseJitter bool

	// RetryableErrors lists the errors worth another attempt. Empty means
	// nothing is retried.
	RetryableErrors []error

	// OnRetry, when set, is called before sleeping ahead of attempt n+1.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry calls fn until it succeeds, returns a non-retryable error or the
// retries are exhausted. The error of the last attempt is returned.
func Retry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	var lastErr error
	maxAttempts := max(policy.MaxRetries, 0) + 1

	for attempt := range maxAttempts {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isErrorRetryable(err, policy.RetryableErrors) {
			return err
		}

		if attempt < maxAttempts-1 {
			delay := CalculateBackoff(attempt, policy.BaseDelay, policy.MaxDelay, policy.UseJitter)
			if policy.OnRetry != nil {
				policy.OnRetry(attempt+1, err, delay)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return lastErr
}

// CalculateBackoff calculates the backoff delay for a given attempt.
// The delay grows exponentially: baseDelay * 2^attempt, capped at maxDelay.
func CalculateBackoff(attempt int, baseDelay, maxDelay time.Duration, useJitter bool) time.Duration {
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}

	delay := baseDelay
	for range attempt {
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
			break
		}
	}

	if useJitter {
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
	}
	return min(delay, maxDelay)
}

func isErrorRetryable(err error, retryableErrors []error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	for _, retryable := range retryableErrors {
		if errors.Is(err, retryable) {
			return true
		}
	}
	return false
}
