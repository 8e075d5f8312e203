package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents how retrygen writes to a stream.
type Mode int

const (
	// ModePlain is used for CI/CD pipelines, redirected output and NO_COLOR.
	ModePlain Mode = iota
	// ModeStyled is used when a human is at the terminal.
	ModeStyled
)

// DetectMode determines whether output written to f should be styled.
//
// Returns ModePlain if:
//   - RETRYGEN_NO_COLOR=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (https://no-color.org)
//   - f is not a terminal
//
// Returns ModeStyled otherwise.
func DetectMode(f *os.File) Mode {
	if os.Getenv("RETRYGEN_NO_COLOR") == "1" {
		return ModePlain
	}
	if os.Getenv("CI") != "" {
		return ModePlain
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return ModePlain
	}
	return ModeStyled
}

// IsStyled is a convenience function that returns true if output to f is styled.
func IsStyled(f *os.File) bool {
	return DetectMode(f) == ModeStyled
}
