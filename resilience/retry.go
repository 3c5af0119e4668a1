// Package resilience provides composable retry and circuit-breaker policies
// for fallible calls, principally storage and upstream-service calls made
// during pipeline stages. Policies are explicit objects composed at the
// call site; the circuit breaker is outermost so an open circuit suppresses
// all retry attempts.
package resilience

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobharvest"
)

// Operation is a fallible call wrapped by a policy.
type Operation func(ctx context.Context) error

// Default retry configuration.
const (
	DefaultMaxAttempts = 3
	DefaultMinWait     = 1 * time.Second
	DefaultMaxWait     = 10 * time.Second
	DefaultMultiplier  = 2.0
)

// Retry retries an operation with exponential backoff. Only errors flagged
// retryable by the error taxonomy (or transport-level transients) are
// retried; everything else propagates immediately, without a single retry.
type Retry struct {
	MaxAttempts int
	MinWait     time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	Logger      *slog.Logger

	// Sleep waits between attempts. Nil means a real context-aware sleep;
	// tests inject a recorder.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRetry creates a Retry with default configuration.
func NewRetry() *Retry {
	return &Retry{
		MaxAttempts: DefaultMaxAttempts,
		MinWait:     DefaultMinWait,
		MaxWait:     DefaultMaxWait,
		Multiplier:  DefaultMultiplier,
	}
}

// Do runs op, retrying retryable failures until success or MaxAttempts.
// After exhausting attempts on a retryable failure it returns an
// ERETRYEXHAUSTED error wrapping the last one. Non-retryable failures
// propagate unchanged from the attempt that produced them.
func (r *Retry) Do(ctx context.Context, op Operation) error {
	maxAttempts := r.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := r.sleep(ctx, r.backoff(attempt)); err != nil {
				return err
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if !jobharvest.Retryable(lastErr) {
			return lastErr
		}

		if r.Logger != nil && attempt < maxAttempts {
			r.Logger.Warn("retrying after transient failure",
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"err", lastErr,
			)
		}
	}

	return jobharvest.WrapErr(lastErr, jobharvest.ERETRYEXHAUSTED,
		"max retries (%d) exceeded", maxAttempts)
}

// backoff computes the wait before the given 1-indexed attempt (attempt >= 2):
// MinWait * Multiplier^(attempt-2), clamped to [MinWait, MaxWait].
func (r *Retry) backoff(attempt int) time.Duration {
	min := r.MinWait
	if min <= 0 {
		min = DefaultMinWait
	}
	max := r.MaxWait
	if max <= 0 {
		max = DefaultMaxWait
	}
	mult := r.Multiplier
	if mult <= 0 {
		mult = DefaultMultiplier
	}

	wait := float64(min)
	for i := 2; i < attempt; i++ {
		wait *= mult
	}

	d := time.Duration(wait)
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

// sleep waits for d or until the context is done.
func (r *Retry) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
