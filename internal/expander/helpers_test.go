package expander

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestExpander(t *testing.T, opts Options) *Expander {
	t.Helper()
	e, err := New(opts, nil)
	require.NoError(t, err)
	return e
}

// funcSource returns the text of the named top-level function, from the
// func keyword to the closing brace.
func funcSource(t *testing.T, filename string, src []byte, name string) string {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	require.NoError(t, err)

	for _, d := range file.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || fn.Name.Name != name {
			continue
		}
		start := fset.Position(fn.Pos()).Offset
		end := fset.Position(fn.End()).Offset
		return string(src[start:end])
	}
	require.Failf(t, "function not found", "%s has no function %s", filename, name)
	return ""
}

// tokens scans src into a token stream, dropping comments and the semicolons
// the scanner inserts at line ends.
func tokens(t *testing.T, src string) []string {
	t.Helper()
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	var scanErr error
	s.Init(file, []byte(src), func(pos token.Position, msg string) { scanErr = scanner.Error{Pos: pos, Msg: msg} }, 0)

	var out []string
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		if lit != "" {
			out = append(out, lit)
		} else {
			out = append(out, tok.String())
		}
	}
	require.NoError(t, scanErr)
	return out
}

func requireSameCode(t *testing.T, want, got string) {
	t.Helper()
	require.Equal(t, tokens(t, want), tokens(t, got), "got:\n%s", got)
}
