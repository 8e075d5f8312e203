// Package transform rewrites the body of a fallible Go function so that it
// re-invokes its original logic a bounded number of times.
//
// The input is a retry directive written in a declaration's doc comment:
//
//	//retry:onfailure retries=3
//	func fetchData(id int) (string, error) {
//	    return fetchByID(id)
//	}
//
// Transform validates the directive and the declaration, then builds a
// replacement body made of four statements:
//
//	retryBlock := func() (string, error) {
//	    return fetchByID(id)
//	}
//	retryAttempts := 0
//	for retryAttempts < 3 {
//	    retryResult, retryErr := retryBlock()
//	    if retryErr == nil {
//	        return retryResult, nil
//	    }
//	    retryAttempts++
//	    if retryAttempts == 3 {
//	        return retryResult, retryErr
//	    }
//	}
//	panic("retry: unreachable")
//
// The helper closes over the enclosing parameters, so it takes none. Functions
// whose first parameter is a context.Context expand to the same loop: every
// attempt runs, and the wrapped body decides how to react to cancellation.
// The final error is always returned unchanged.
//
// # Diagnostics
//
// Rejected input produces a *Diagnostic carrying one of five fixed messages.
// Checks run in order and the first failure wins: argument syntax, argument
// sign, declaration kind, error result, body presence.
//
// Transform is pure. Identifier hygiene is delegated to a NameGenerator.
package transform
