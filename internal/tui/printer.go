package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/vvka-141/retrygen/internal/transform"
)

// Summary counts the outcome of a command run.
type Summary struct {
	Files    int // files scanned
	Changed  int // files whose output differs from the input
	Expanded int // functions expanded
	Rejected int // directives rejected
}

// Printer writes diagnostics in the compiler's file:line:col: message
// format. Safe for concurrent use.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	styled bool
	styles Styles
}

// NewPrinter creates a printer. Styling only applies when styled is true.
func NewPrinter(out io.Writer, styled bool) *Printer {
	return &Printer{
		out:    out,
		styled: styled,
		styles: NewStyles(out),
	}
}

// Diagnostic prints one rejected directive.
func (p *Printer) Diagnostic(d *transform.Diagnostic) {
	pos := d.Pos.String()
	if !d.Pos.IsValid() {
		pos = "-"
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.styled {
		fmt.Fprintf(p.out, "%s: %s\n", p.styles.Position.Render(pos), p.styles.Message.Render(d.Message))
		return
	}
	fmt.Fprintf(p.out, "%s: %s\n", pos, d.Message)
}

// Diagnostics prints a file's diagnostics as one uninterrupted block.
func (p *Printer) Diagnostics(diags []*transform.Diagnostic) {
	for _, d := range diags {
		p.Diagnostic(d)
	}
}

// Summary prints the closing line of an expand or check run.
func (p *Printer) Summary(s Summary, check bool) {
	var line string
	failed := s.Rejected > 0
	switch {
	case failed:
		line = fmt.Sprintf("%d retry directive(s) rejected", s.Rejected)
	case check:
		line = fmt.Sprintf("%d file(s) checked, no problems found", s.Files)
	default:
		line = fmt.Sprintf("expanded %d function(s) in %d of %d file(s)", s.Expanded, s.Changed, s.Files)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case !p.styled:
		fmt.Fprintln(p.out, line)
	case failed:
		fmt.Fprintln(p.out, p.styles.Error.Render(SymbolCross+" "+line))
	default:
		fmt.Fprintln(p.out, p.styles.Success.Render(SymbolCheck+" "+line))
	}
}
