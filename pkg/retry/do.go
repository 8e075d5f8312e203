package retry

import "context"

// Do runs operation up to retries times and returns nil on the first
// success or the last error.
func Do(retries int, operation func() error) error {
	return NewExecutor(retries).Execute(context.Background(), func(context.Context) error {
		return operation()
	})
}

// DoValue is Do for operations that produce a value. On failure the value of
// the last attempt is returned together with its error.
func DoValue[T any](retries int, operation func() (T, error)) (T, error) {
	return run(context.Background(), retries, nil, func(context.Context) (T, error) {
		return operation()
	})
}

// DoContext is Do for operations that take a context. Every attempt receives
// ctx, and all retries attempts run even once ctx is done.
func DoContext(ctx context.Context, retries int, operation func(ctx context.Context) error) error {
	return NewExecutor(retries).Execute(ctx, operation)
}

// DoValueContext is DoValue for operations that take a context.
func DoValueContext[T any](ctx context.Context, retries int, operation func(ctx context.Context) (T, error)) (T, error) {
	return run(ctx, retries, nil, operation)
}
