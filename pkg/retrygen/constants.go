package retrygen

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess      = 0  // All files expanded or checked cleanly
	ExitGeneralError = 1  // Unknown or unclassified error
	ExitUsageError   = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic        = 3  // Internal panic (unexpected crash)
	ExitConfigError  = 10 // Invalid configuration file or values
	ExitDiagnostics  = 11 // One or more retry directives were rejected
	ExitParseError   = 12 // A Go source file could not be parsed
	ExitWriteError   = 13 // Expanded output could not be written
)

const (
	// DefaultDirective is the comment directive that marks a function for expansion.
	// It is written without a space after the slashes, like //go:generate.
	DefaultDirective = "retry:onfailure"

	// DefaultRetries is the number of attempts used when the directive carries no argument.
	DefaultRetries = 3

	// DefaultNamePrefix prefixes every identifier introduced by an expansion.
	DefaultNamePrefix = "retry"

	// DefaultUnreachableMessage is the panic message placed after the generated loop.
	DefaultUnreachableMessage = "retry: unreachable"

	// NamingSequential appends a counter to colliding identifiers.
	NamingSequential = "sequential"

	// NamingHashed appends a content-derived suffix to every identifier.
	NamingHashed = "hashed"

	// ConfigFileName is the project configuration file looked up in the working directory.
	ConfigFileName = "retrygen.yaml"

	// ConfigEnvVar overrides the configuration file location.
	ConfigEnvVar = "RETRYGEN_CONFIG"
)
