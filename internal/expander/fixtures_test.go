package expander

import (
	"context"
	"errors"
	"fmt"
)

// The functions below are written exactly as the expander emits them for
// annotatedFixtures. TestExpandSource_MatchesFixtures keeps the two in sync,
// and the behaviour tests run the expanded code itself.

var errFlaky = errors.New("flaky failure")

// flaky fails until it has been called succeedOn times.
type flaky struct {
	calls     int
	succeedOn int // 0 means never
}

func (f *flaky) call() (string, error) {
	f.calls++
	if f.succeedOn == 0 || f.calls < f.succeedOn {
		return "", fmt.Errorf("attempt %d: %w", f.calls, errFlaky)
	}
	return fmt.Sprintf("ok after %d", f.calls), nil
}

// callContext counts an attempt that finds ctx done as a failure carrying
// the context error.
func (f *flaky) callContext(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		f.calls++
		return "", fmt.Errorf("attempt %d: %w", f.calls, err)
	}
	return f.call()
}

const annotatedFixtures = `package expander

import "context"

//retry:onfailure retries=3
func fetchWithRetry(f *flaky) (string, error) {
	return f.call()
}

//retry:onfailure
func pingWithRetry(f *flaky) error {
	_, err := f.call()
	return err
}

// lookupWithRetry returns two values.
//retry:onfailure retries=2
func lookupWithRetry(f *flaky) (string, int, error) {
	value, err := f.call()
	return value, f.calls, err
}

//retry:onfailure retries=5
func fetchContext(ctx context.Context, f *flaky) (string, error) {
	return f.callContext(ctx)
}

//retry:onfailure retries=5
func fetchIgnoringContext(ctx context.Context, f *flaky) (string, error) {
	return f.call()
}
`

func fetchWithRetry(f *flaky) (string, error) {
	retryBlock := func() (string, error) {
		return f.call()
	}
	retryAttempts := 0
	for retryAttempts < 3 {
		retryResult, retryErr := retryBlock()
		if retryErr == nil {
			return retryResult, nil
		}
		retryAttempts++
		if retryAttempts == 3 {
			return retryResult, retryErr
		}
	}
	panic("retry: unreachable")
}

func pingWithRetry(f *flaky) error {
	retryBlock := func() error {
		_, err := f.call()
		return err
	}
	retryAttempts := 0
	for retryAttempts < 3 {
		retryErr := retryBlock()
		if retryErr == nil {
			return nil
		}
		retryAttempts++
		if retryAttempts == 3 {
			return retryErr
		}
	}
	panic("retry: unreachable")
}

// lookupWithRetry returns two values.
func lookupWithRetry(f *flaky) (string, int, error) {
	retryBlock := func() (string, int, error) {
		value, err := f.call()
		return value, f.calls, err
	}
	retryAttempts := 0
	for retryAttempts < 2 {
		retryResult0, retryResult1, retryErr := retryBlock()
		if retryErr == nil {
			return retryResult0, retryResult1, nil
		}
		retryAttempts++
		if retryAttempts == 2 {
			return retryResult0, retryResult1, retryErr
		}
	}
	panic("retry: unreachable")
}

func fetchContext(ctx context.Context, f *flaky) (string, error) {
	retryBlock := func() (string, error) {
		return f.callContext(ctx)
	}
	retryAttempts := 0
	for retryAttempts < 5 {
		retryResult, retryErr := retryBlock()
		if retryErr == nil {
			return retryResult, nil
		}
		retryAttempts++
		if retryAttempts == 5 {
			return retryResult, retryErr
		}
	}
	panic("retry: unreachable")
}

func fetchIgnoringContext(ctx context.Context, f *flaky) (string, error) {
	retryBlock := func() (string, error) {
		return f.call()
	}
	retryAttempts := 0
	for retryAttempts < 5 {
		retryResult, retryErr := retryBlock()
		if retryErr == nil {
			return retryResult, nil
		}
		retryAttempts++
		if retryAttempts == 5 {
			return retryResult, retryErr
		}
	}
	panic("retry: unreachable")
}
