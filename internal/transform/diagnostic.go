package transform

import (
	"fmt"
	"go/token"
)

// Fixed diagnostic messages. Host tooling matches on these strings.
const (
	MsgInvalidRetries     = "Missing or invalid 'retries' parameter"
	MsgNonPositiveRetries = "Retries count must be positive"
	MsgNotFunction        = "Macro can only be applied to function declarations"
	MsgNotThrowing        = "Macro can only be applied to throwing functions"
	MsgNoBody             = "Function must have a body to apply retry logic"
)

// Kind identifies which validation rule a Diagnostic reports.
type Kind int

const (
	KindInvalidRetries Kind = iota + 1
	KindNonPositiveRetries
	KindNotFunction
	KindNotThrowing
	KindNoBody
)

var kindMessages = map[Kind]string{
	KindInvalidRetries:     MsgInvalidRetries,
	KindNonPositiveRetries: MsgNonPositiveRetries,
	KindNotFunction:        MsgNotFunction,
	KindNotThrowing:        MsgNotThrowing,
	KindNoBody:             MsgNoBody,
}

// String returns the fixed message for k.
func (k Kind) String() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is a transformation-time error tied to a source position.
// Line and column are 1-based.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     token.Position
}

func newDiagnostic(kind Kind, pos token.Position) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Message: kind.String(),
		Pos:     pos,
	}
}

// Error formats the diagnostic as "file:line:column: message", dropping the
// parts of the position that are unknown.
func (d *Diagnostic) Error() string {
	if !d.Pos.IsValid() {
		return d.Message
	}
	return d.Pos.String() + ": " + d.Message
}
