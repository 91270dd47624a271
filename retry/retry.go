// Package retry wraps remote calls with bounded retry-and-backoff. It is
// the only layer that distinguishes transient failures from permanent ones;
// callers above it see either a result, a permanent error, or an
// ExhaustedError once the attempt budget is spent.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
)

// transientError marks an error as safe to retry after a delay.
type transientError struct {
	err error
}

func (t *transientError) Error() string { return t.err.Error() }
func (t *transientError) Unwrap() error { return t.err }

// Transient wraps err so the executor will retry it. A nil err returns nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err (or anything it wraps) was marked
// retryable with Transient.
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// ExhaustedError is returned when every attempt failed transiently. Last
// carries the final underlying error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("rate limit: gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Executor runs remote operations with exponential backoff. The zero value
// uses the defaults. Executors hold no mutable state: copies are
// independent and concurrent use is safe, though each Do call runs its
// attempts strictly in sequence.
type Executor struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Sleep is the backoff wait, injectable for tests. Nil means a
	// context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do runs op, retrying transient failures with backoff of BaseDelay<<i
// after attempt i. Permanent errors propagate immediately with no sleep.
// Cancellation is honored between attempts, never mid-call: an in-flight
// op always completes or fails on its own.
func (ex Executor) Do(ctx context.Context, op func() error) error {
	attempts := ex.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	base := ex.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	sleep := ex.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var last error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		last = err

		if err := sleep(ctx, base<<i); err != nil {
			return err
		}
	}

	return &ExhaustedError{Attempts: attempts, Last: last}
}

// DoValue is Do for operations that return a value.
func DoValue[T any](ctx context.Context, ex Executor, op func() (T, error)) (T, error) {
	var out T
	err := ex.Do(ctx, func() error {
		v, err := op()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
