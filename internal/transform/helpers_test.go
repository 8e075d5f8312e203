package transform

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"
)

const testDirective = "retry:onfailure"

// fixture is a parsed single-file package with one annotated declaration.
type fixture struct {
	fset      *token.FileSet
	file      *ast.File
	directive Directive
	target    Target
	decl      *ast.FuncDecl
}

// parseFixture parses src and returns the first directive together with the
// declaration whose doc comment holds it.
func parseFixture(t *testing.T, src string) fixture {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "fixture.go", src, parser.ParseComments)
	require.NoError(t, err)

	fx := fixture{fset: fset, file: file}
	contextName := ContextImportName(file)

	match := func(node ast.Node, doc *ast.CommentGroup, method bool) bool {
		if doc == nil {
			return false
		}
		for _, c := range doc.List {
			args, ok := ParseDirective(c.Text, testDirective)
			if !ok {
				continue
			}
			fx.directive = Directive{Name: testDirective, Args: args, Pos: fset.Position(c.Pos())}
			fx.target = Target{Node: node, Method: method, Pos: fset.Position(declPos(node)), ContextName: contextName}
			if fn, isFunc := node.(*ast.FuncDecl); isFunc {
				fx.decl = fn
			}
			return true
		}
		return false
	}

	found := false
	ast.Inspect(file, func(n ast.Node) bool {
		if found {
			return false
		}
		switch n := n.(type) {
		case *ast.FuncDecl:
			found = match(n, n.Doc, false)
		case *ast.GenDecl:
			found = match(n, n.Doc, false)
		case *ast.InterfaceType:
			for _, m := range n.Methods.List {
				if match(m, m.Doc, true) {
					found = true
					break
				}
			}
		}
		return !found
	})
	require.True(t, found, "no directive in fixture")
	return fx
}

func declPos(n ast.Node) token.Pos {
	if fn, ok := n.(*ast.FuncDecl); ok {
		return fn.Type.Func
	}
	return n.Pos()
}

// render prints a synthesized node with a fresh FileSet.
func render(t *testing.T, node ast.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, format.Node(&buf, token.NewFileSet(), node))
	return buf.String()
}

// tokens scans src into a token stream, dropping comments and the semicolons
// the scanner inserts at line ends, so layout differences do not matter.
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
