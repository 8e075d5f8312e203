// Package retry is the runtime form of the //retry:onfailure directive.
//
// Where the code generator rewrites a function body into a retry loop, this
// package wraps an operation value instead. Both follow the same contract:
// the operation runs up to the configured number of attempts, the first
// success is returned immediately, and after the last failure its error is
// returned unchanged.
//
// # Example Usage
//
//	body, err := retry.DoValue(3, func() ([]byte, error) {
//	    return fetch(url)
//	})
//
//	err = retry.DoContext(ctx, 5, func(ctx context.Context) error {
//	    return client.Ping(ctx)
//	})
//
// # Cancellation
//
// The context variants only hand the context to each attempt. The attempt
// count does not depend on it: all attempts run even after the context is
// done, nothing waits between attempts, and the operation's error is never
// replaced with ctx.Err(). The operation decides how it reacts to
// cancellation.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. Use WithOnRetry() to create
// independent configurations per goroutine.
package retry
