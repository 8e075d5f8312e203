package expander

import (
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"
)

// owner is the declaration a doc comment group belongs to.
type owner struct {
	node   ast.Node
	method bool
}

// indexDocOwners maps every doc comment group in file to the node it
// documents. Comment groups missing from the index float freely.
func indexDocOwners(file *ast.File) map[*ast.CommentGroup]owner {
	owners := make(map[*ast.CommentGroup]owner)
	methods := make(map[*ast.Field]bool)

	add := func(doc *ast.CommentGroup, node ast.Node, method bool) {
		if doc == nil {
			return
		}
		if _, seen := owners[doc]; !seen {
			owners[doc] = owner{node: node, method: method}
		}
	}

	astutil.Apply(file, func(c *astutil.Cursor) bool {
		switch n := c.Node().(type) {
		case *ast.FuncDecl:
			add(n.Doc, n, false)
		case *ast.GenDecl:
			add(n.Doc, n, false)
		case *ast.TypeSpec:
			add(n.Doc, n, false)
		case *ast.ValueSpec:
			add(n.Doc, n, false)
		case *ast.InterfaceType:
			if n.Methods != nil {
				for _, m := range n.Methods.List {
					methods[m] = true
				}
			}
		case *ast.Field:
			add(n.Doc, n, methods[n])
		}
		return true
	}, nil)

	return owners
}

// declName is the name of a declaration, used for logs and name seeds.
func declName(node ast.Node) string {
	switch n := node.(type) {
	case *ast.FuncDecl:
		if n.Recv != nil && len(n.Recv.List) == 1 {
			return receiverType(n.Recv.List[0].Type) + "." + n.Name.Name
		}
		return n.Name.Name
	case *ast.Field:
		if len(n.Names) > 0 {
			return n.Names[0].Name
		}
	case *ast.TypeSpec:
		return n.Name.Name
	case *ast.ValueSpec:
		if len(n.Names) > 0 {
			return n.Names[0].Name
		}
	}
	return ""
}

func receiverType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverType(t.X)
	case *ast.IndexExpr:
		return receiverType(t.X)
	case *ast.IndexListExpr:
		return receiverType(t.X)
	case *ast.Ident:
		return t.Name
	}
	return "?"
}
