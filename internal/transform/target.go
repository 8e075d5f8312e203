package transform

import (
	"go/ast"
	"go/token"
)

// Target is the declaration a directive is attached to.
type Target struct {
	// Node is the annotated declaration: *ast.FuncDecl, an interface method
	// *ast.Field, or any other node (GenDecl, TypeSpec, struct field, ...).
	// Nil when the directive is not attached to any declaration.
	Node ast.Node

	// Method marks Node as an interface method.
	Method bool

	// Pos is the position of the declaration itself.
	Pos token.Position

	// ContextName is the file-local name of the "context" import: the
	// package name, an alias, "." for a dot import, or "" when not imported.
	ContextName string
}

// signature is the part of a function declaration the transformer needs.
type signature struct {
	name string
	typ  *ast.FuncType
	body *ast.BlockStmt
}

func (t Target) function() (signature, bool) {
	switch n := t.Node.(type) {
	case *ast.FuncDecl:
		return signature{name: n.Name.Name, typ: n.Type, body: n.Body}, true
	case *ast.Field:
		ft, ok := n.Type.(*ast.FuncType)
		if !t.Method || !ok || len(n.Names) != 1 {
			return signature{}, false
		}
		return signature{name: n.Names[0].Name, typ: ft}, true
	}
	return signature{}, false
}

// throwing reports whether the last result is the predeclared error type.
func (s signature) throwing() bool {
	results := s.typ.Results
	if results == nil || len(results.List) == 0 {
		return false
	}
	id, ok := results.List[len(results.List)-1].Type.(*ast.Ident)
	return ok && id.Name == "error"
}

// valueCount is the number of results preceding the trailing error.
func (s signature) valueCount() int {
	n := 0
	for _, field := range s.typ.Results.List {
		if len(field.Names) == 0 {
			n++
		} else {
			n += len(field.Names)
		}
	}
	return n - 1
}

// takesContext reports whether the first parameter is a context.Context.
// The result only classifies the function; the generated loop is identical.
func (s signature) takesContext(contextName string) bool {
	if contextName == "" || s.typ.Params == nil || len(s.typ.Params.List) == 0 {
		return false
	}
	return isContextType(s.typ.Params.List[0].Type, contextName)
}

func isContextType(expr ast.Expr, contextName string) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return contextName == "." && t.Name == "Context"
	case *ast.SelectorExpr:
		pkg, ok := t.X.(*ast.Ident)
		return ok && pkg.Name == contextName && t.Sel.Name == "Context"
	}
	return false
}

// ContextImportName returns the file-local name of the "context" import, or
// "" when the file does not import it.
func ContextImportName(file *ast.File) string {
	for _, imp := range file.Imports {
		if imp.Path.Value != `"context"` {
			continue
		}
		if imp.Name == nil {
			return "context"
		}
		if imp.Name.Name == "_" {
			continue
		}
		return imp.Name.Name
	}
	return ""
}
