package transform

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

const retriesArg = "retries"

// Directive is a retry directive found in a comment, e.g.
//
//	//retry:onfailure retries=3
//
// Args holds the whitespace-separated tokens after the directive name.
// Validation happens in Transform, not when the directive is parsed.
type Directive struct {
	Name string
	Args []string
	Pos  token.Position
}

// ParseDirective reports whether text is the directive called name and
// returns its arguments. Like //go: directives, the name must directly follow
// the slashes and be followed by whitespace or the end of the comment.
func ParseDirective(text, name string) ([]string, bool) {
	rest, ok := strings.CutPrefix(text, "//"+name)
	if !ok {
		return nil, false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, false
	}
	return strings.Fields(rest), true
}

// Retries resolves the retry count. With no argument the declared default
// applies. A single argument must be an integer literal, either positional or
// written as retries=<literal>.
func (d Directive) Retries(defaultRetries int) (int, error) {
	if len(d.Args) == 0 {
		if defaultRetries <= 0 {
			return 0, newDiagnostic(KindNonPositiveRetries, d.Pos)
		}
		return defaultRetries, nil
	}
	if len(d.Args) != 1 {
		return 0, newDiagnostic(KindInvalidRetries, d.Pos)
	}

	value := d.Args[0]
	if key, v, named := strings.Cut(value, "="); named {
		if key != retriesArg {
			return 0, newDiagnostic(KindInvalidRetries, d.Pos)
		}
		value = v
	}

	lit, negative, ok := intLiteral(value)
	if !ok {
		return 0, newDiagnostic(KindInvalidRetries, d.Pos)
	}

	n, err := strconv.ParseInt(lit, 0, strconv.IntSize)
	if err != nil || negative || n <= 0 {
		return 0, newDiagnostic(KindNonPositiveRetries, d.Pos)
	}
	return int(n), nil
}

// intLiteral reports whether s is a Go integer literal with an optional sign.
func intLiteral(s string) (lit string, negative bool, ok bool) {
	if s == "" {
		return "", false, false
	}
	expr, err := parser.ParseExpr(s)
	if err != nil {
		return "", false, false
	}
	if unary, isUnary := expr.(*ast.UnaryExpr); isUnary {
		switch unary.Op {
		case token.SUB:
			negative = true
		case token.ADD:
		default:
			return "", false, false
		}
		expr = unary.X
	}
	basic, isBasic := expr.(*ast.BasicLit)
	if !isBasic || basic.Kind != token.INT {
		return "", false, false
	}
	return basic.Value, negative, true
}
