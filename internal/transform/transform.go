package transform

import (
	"go/ast"
	"go/token"
	"strconv"

	"github.com/vvka-141/retrygen/pkg/retrygen"
)

// Options configures a Transformer.
type Options struct {
	// DefaultRetries applies when the directive has no argument.
	DefaultRetries int

	// UnreachableMessage is the panic message after the retry loop.
	UnreachableMessage string
}

// DefaultOptions returns the declared directive defaults.
func DefaultOptions() Options {
	return Options{
		DefaultRetries:     retrygen.DefaultRetries,
		UnreachableMessage: retrygen.DefaultUnreachableMessage,
	}
}

// Transformer builds replacement bodies. It holds no mutable state and is
// safe for concurrent use.
type Transformer struct {
	opts Options
}

// New creates a Transformer. Zero option fields fall back to the defaults.
func New(opts Options) *Transformer {
	defaults := DefaultOptions()
	if opts.DefaultRetries == 0 {
		opts.DefaultRetries = defaults.DefaultRetries
	}
	if opts.UnreachableMessage == "" {
		opts.UnreachableMessage = defaults.UnreachableMessage
	}
	return &Transformer{opts: opts}
}

// Transform expands directive on target using the default options.
func Transform(directive Directive, target Target, names NameGenerator) (*ReplacementBody, error) {
	return New(DefaultOptions()).Transform(directive, target, names)
}

// ReplacementBody is the statement sequence that replaces the original body.
type ReplacementBody struct {
	Helper     *ast.AssignStmt // name := func() <results> { <original body> }
	Counter    *ast.AssignStmt // attempts := 0
	Loop       *ast.ForStmt
	Terminator *ast.ExprStmt // panic(<unreachable message>)

	FuncName    string
	HelperName  string
	CounterName string
	Retries     int
	Async       bool // first parameter is a context.Context
	ResultCount int // results preceding the trailing error
}

// Stmts returns the replacement statements in order.
func (b *ReplacementBody) Stmts() []ast.Stmt {
	return []ast.Stmt{b.Helper, b.Counter, b.Loop, b.Terminator}
}

// HelperFunc returns the closure holding the original body.
func (b *ReplacementBody) HelperFunc() *ast.FuncLit {
	return b.Helper.Rhs[0].(*ast.FuncLit)
}

// Transform validates directive and target and builds the replacement body.
// A rejected input yields a *Diagnostic and no body.
func (t *Transformer) Transform(directive Directive, target Target, names NameGenerator) (*ReplacementBody, error) {
	retries, err := directive.Retries(t.opts.DefaultRetries)
	if err != nil {
		return nil, err
	}

	sig, ok := target.function()
	if !ok {
		return nil, newDiagnostic(KindNotFunction, directive.Pos)
	}
	if !sig.throwing() {
		return nil, newDiagnostic(KindNotThrowing, directive.Pos)
	}
	if sig.body == nil {
		return nil, newDiagnostic(KindNoBody, target.Pos)
	}

	async := sig.takesContext(target.ContextName)
	helperName := names.MakeUniqueName("block")
	counterName := names.MakeUniqueName("attempts")

	valueCount := sig.valueCount()
	values := make([]string, valueCount)
	for i := range values {
		base := "result"
		if valueCount > 1 {
			base += strconv.Itoa(i)
		}
		values[i] = names.MakeUniqueName(base)
	}
	errName := names.MakeUniqueName("err")

	limit := &ast.BasicLit{Kind: token.INT, Value: strconv.Itoa(retries)}

	// retryBlock := func() <results> { <body> }
	helper := &ast.AssignStmt{
		Lhs: []ast.Expr{ast.NewIdent(helperName)},
		Tok: token.DEFINE,
		Rhs: []ast.Expr{&ast.FuncLit{
			Type: &ast.FuncType{
				Params:  &ast.FieldList{},
				Results: sig.typ.Results,
			},
			Body: sig.body,
		}},
	}

	// retryAttempts := 0
	counter := &ast.AssignStmt{
		Lhs: []ast.Expr{ast.NewIdent(counterName)},
		Tok: token.DEFINE,
		Rhs: []ast.Expr{&ast.BasicLit{Kind: token.INT, Value: "0"}},
	}

	// retryResult, retryErr := retryBlock()
	lhs := make([]ast.Expr, 0, valueCount+1)
	for _, v := range values {
		lhs = append(lhs, ast.NewIdent(v))
	}
	lhs = append(lhs, ast.NewIdent(errName))
	attempt := &ast.AssignStmt{
		Lhs: lhs,
		Tok: token.DEFINE,
		Rhs: []ast.Expr{&ast.CallExpr{Fun: ast.NewIdent(helperName)}},
	}

	// if retryErr == nil { return retryResult, nil }
	success := &ast.IfStmt{
		Cond: &ast.BinaryExpr{X: ast.NewIdent(errName), Op: token.EQL, Y: ast.NewIdent("nil")},
		Body: &ast.BlockStmt{List: []ast.Stmt{
			&ast.ReturnStmt{Results: returnValues(values, ast.NewIdent("nil"))},
		}},
	}

	// retryAttempts++
	increment := &ast.IncDecStmt{X: ast.NewIdent(counterName), Tok: token.INC}

	// if retryAttempts == N { return retryResult, retryErr }
	exhausted := &ast.BinaryExpr{X: ast.NewIdent(counterName), Op: token.EQL, Y: limit}
	failure := &ast.IfStmt{
		Cond: exhausted,
		Body: &ast.BlockStmt{List: []ast.Stmt{
			&ast.ReturnStmt{Results: returnValues(values, ast.NewIdent(errName))},
		}},
	}

	// for retryAttempts < N { ... }
	loop := &ast.ForStmt{
		Cond: &ast.BinaryExpr{X: ast.NewIdent(counterName), Op: token.LSS, Y: &ast.BasicLit{Kind: token.INT, Value: limit.Value}},
		Body: &ast.BlockStmt{List: []ast.Stmt{attempt, success, increment, failure}},
	}

	// panic("retry: unreachable")
	terminator := &ast.ExprStmt{X: &ast.CallExpr{
		Fun:  ast.NewIdent("panic"),
		Args: []ast.Expr{&ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(t.opts.UnreachableMessage)}},
	}}

	return &ReplacementBody{
		Helper:      helper,
		Counter:     counter,
		Loop:        loop,
		Terminator:  terminator,
		FuncName:    sig.name,
		HelperName:  helperName,
		CounterName: counterName,
		Retries:     retries,
		Async:       async,
		ResultCount: valueCount,
	}, nil
}

func returnValues(values []string, last ast.Expr) []ast.Expr {
	exprs := make([]ast.Expr, 0, len(values)+1)
	for _, v := range values {
		exprs = append(exprs, ast.NewIdent(v))
	}
	return append(exprs, last)
}
