package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - keeping it minimal and accessible.
var (
	ColorSecondary = lipgloss.Color("245") // Gray
	ColorSuccess   = lipgloss.Color("34")  // Green
	ColorError     = lipgloss.Color("196") // Red
)

// Styles renders the parts of diagnostic output.
type Styles struct {
	Position lipgloss.Style
	Message  lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
}

// NewStyles builds styles bound to the color profile of out.
func NewStyles(out io.Writer) Styles {
	r := lipgloss.NewRenderer(out)
	return Styles{
		Position: r.NewStyle().Bold(true).Foreground(ColorSecondary),
		Message:  r.NewStyle().Foreground(ColorError),
		Success:  r.NewStyle().Foreground(ColorSuccess),
		Error:    r.NewStyle().Foreground(ColorError).Bold(true),
	}
}

// Symbols for visual feedback.
const (
	SymbolCheck = "✓"
	SymbolCross = "✗"
)
