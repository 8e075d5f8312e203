package retrygen

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := cmd.Execute()
//	if errors.Is(err, retrygen.ErrDiagnostics) {
//	    // at least one directive was rejected
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDiagnostics indicates one or more directives could not be expanded.
	ErrDiagnostics = errors.New("retry directives rejected")

	// ErrParseFailed indicates a Go source file could not be parsed or reformatted.
	ErrParseFailed = errors.New("parse failed")

	// ErrWriteFailed indicates expanded output could not be written.
	ErrWriteFailed = errors.New("write failed")
)

// usageErrorPatterns are the message prefixes cobra and pflag use for
// command line misuse.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
	"if any flags in the group",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrDiagnostics):
		return ExitDiagnostics
	case errors.Is(err, ErrParseFailed):
		return ExitParseError
	case errors.Is(err, ErrWriteFailed):
		return ExitWriteError
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.HasPrefix(errStr, pattern) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
