package retry

import (
	"context"
	"errors"
)

// ErrNonPositiveRetries is returned, without running the operation, when the
// attempt budget is zero or negative.
var ErrNonPositiveRetries = errors.New("Retries count must be positive") //nolint:staticcheck // same text as the transform diagnostic

// Executor runs an operation up to a fixed number of attempts.
//
// Thread Safety:
// The Executor itself is safe for concurrent use when calling Execute().
// However, WithOnRetry() returns a NEW instance with the callback configured,
// ensuring each goroutine can have its own configuration without shared state.
// The original Executor remains unchanged.
type Executor struct {
	retries int
	onRetry func(attempt int, err error)
}

// NewExecutor creates an executor allowing retries attempts in total.
// A non-positive count is reported by Execute, not here.
func NewExecutor(retries int) *Executor {
	return &Executor{retries: retries}
}

// WithOnRetry returns a new Executor with the specified retry callback.
// The callback runs after a failed attempt when another attempt follows;
// attempt is 1-based and names the attempt that just failed.
//
// This method does NOT modify the receiver; it returns a new instance.
//
// Example:
//
//	executor := retry.NewExecutor(3)
//	executor1 := executor.WithOnRetry(callback1) // New instance
//	executor2 := executor.WithOnRetry(callback2) // Another new instance
//	// executor1 and executor2 are independent
func (e *Executor) WithOnRetry(callback func(attempt int, err error)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs the operation until it succeeds or the attempt budget is
// spent. Returns nil on success and the last error otherwise. ctx is handed
// to every attempt; reacting to cancellation is up to the operation.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	_, err := run(ctx, e.retries, e.onRetry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})
	return err
}

// run is the attempt loop shared by every entry point. It mirrors the
// generated code: count attempts, return on the first success, return the
// last attempt's values once the budget is spent.
func run[T any](ctx context.Context, retries int, onRetry func(int, error), operation func(context.Context) (T, error)) (T, error) {
	if retries <= 0 {
		var zero T
		return zero, ErrNonPositiveRetries
	}

	for attempt := 1; ; attempt++ {
		value, err := operation(ctx)
		if err == nil {
			return value, nil
		}
		if attempt == retries {
			return value, err
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
	}
}
