package expander

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"path/filepath"

	"github.com/vvka-141/retrygen/internal/logging"
	"github.com/vvka-141/retrygen/internal/sourcemap"
	"github.com/vvka-141/retrygen/internal/transform"
	"github.com/vvka-141/retrygen/pkg/retrygen"
)

// Options configures an Expander. Zero fields fall back to the defaults.
type Options struct {
	// Directive is the comment directive name, written without slashes.
	Directive string

	// DefaultRetries applies to directives without an argument.
	DefaultRetries int

	// NamePrefix prefixes every identifier an expansion introduces.
	NamePrefix string

	// Naming selects retrygen.NamingSequential or retrygen.NamingHashed.
	Naming string

	// UnreachableMessage is the panic message after the generated loop.
	UnreachableMessage string
}

// DefaultOptions returns the built-in configuration.
func DefaultOptions() Options {
	return Options{
		Directive:          retrygen.DefaultDirective,
		DefaultRetries:     retrygen.DefaultRetries,
		NamePrefix:         retrygen.DefaultNamePrefix,
		Naming:             retrygen.NamingSequential,
		UnreachableMessage: retrygen.DefaultUnreachableMessage,
	}
}

// Result is the outcome of expanding one file.
type Result struct {
	Filename    string
	Output      []byte                  // Expanded source; the input itself when nothing was expanded
	Diagnostics []*transform.Diagnostic // Rejected directives, in source order
	Expanded    int                     // Number of functions expanded
	SourceMap   *sourcemap.SourceMap    // Expanded line ranges back to the annotated declarations

	original []byte
}

// Changed reports whether Output differs from the input.
func (r *Result) Changed() bool {
	return !bytes.Equal(r.Output, r.original)
}

// HasDiagnostics reports whether any directive was rejected.
func (r *Result) HasDiagnostics() bool {
	return len(r.Diagnostics) > 0
}

// Expander expands retry directives in Go source files.
// Safe for concurrent use when its logger is.
type Expander struct {
	opts        Options
	transformer *transform.Transformer
	logger      retrygen.Logger
}

// New creates an Expander. A nil logger discards output.
func New(opts Options, logger retrygen.Logger) (*Expander, error) {
	defaults := DefaultOptions()
	if opts.Directive == "" {
		opts.Directive = defaults.Directive
	}
	if opts.NamePrefix == "" {
		opts.NamePrefix = defaults.NamePrefix
	}
	if opts.Naming == "" {
		opts.Naming = defaults.Naming
	}
	if opts.Naming != retrygen.NamingSequential && opts.Naming != retrygen.NamingHashed {
		return nil, fmt.Errorf("%w: unknown naming strategy %q", retrygen.ErrInvalidConfig, opts.Naming)
	}
	if !transform.ValidPrefix(opts.NamePrefix) {
		return nil, fmt.Errorf("%w: name prefix %q is not a Go identifier", retrygen.ErrInvalidConfig, opts.NamePrefix)
	}
	if opts.DefaultRetries < 0 {
		return nil, fmt.Errorf("%w: default retries must be positive, got %d", retrygen.ErrInvalidConfig, opts.DefaultRetries)
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	return &Expander{
		opts: opts,
		transformer: transform.New(transform.Options{
			DefaultRetries:     opts.DefaultRetries,
			UnreachableMessage: opts.UnreachableMessage,
		}),
		logger: logger,
	}, nil
}

// directiveRef is one directive comment found in a file.
type directiveRef struct {
	comment   *ast.Comment
	directive transform.Directive
	owner     owner
}

// expansion is a validated directive ready to be rendered.
type expansion struct {
	decl  *ast.FuncDecl
	refs  []directiveRef // first entry is the applied directive
	body  *transform.ReplacementBody
	name  string
	line  int
	index int // position among the file's function declarations
}

// plan is the parsed file with every directive either validated or rejected.
type plan struct {
	fset        *token.FileSet
	expansions  []expansion
	diagnostics []*transform.Diagnostic
}

// ExpandSource expands every valid directive in src. Parse failures are
// returned as errors wrapping retrygen.ErrParseFailed; rejected directives
// are reported in Result.Diagnostics.
func (e *Expander) ExpandSource(filename string, src []byte) (*Result, error) {
	p, err := e.plan(filename, src)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Filename:    filename,
		Output:      src,
		Diagnostics: p.diagnostics,
		SourceMap:   sourcemap.New(),
		original:    src,
	}
	if len(p.expansions) == 0 {
		return result, nil
	}

	var edits []edit
	for _, x := range p.expansions {
		text, err := renderBody(p.fset, src, x.body)
		if err != nil {
			return nil, err
		}
		edits = append(edits, bodyEdit(p.fset, x.decl.Body, text))
		for _, ref := range x.refs {
			edits = append(edits, commentEdit(p.fset, src, ref.comment))
		}
	}

	output, err := format.Source(applyEdits(src, edits))
	if err != nil {
		return nil, fmt.Errorf("%w: formatting expanded %s: %w", retrygen.ErrParseFailed, filename, err)
	}
	if err := mapExpansions(filename, output, p.expansions, result.SourceMap); err != nil {
		return nil, err
	}

	result.Output = output
	result.Expanded = len(p.expansions)
	return result, nil
}

// Check validates every directive in src without rendering any output.
func (e *Expander) Check(filename string, src []byte) ([]*transform.Diagnostic, error) {
	p, err := e.plan(filename, src)
	if err != nil {
		return nil, err
	}
	return p.diagnostics, nil
}

func (e *Expander) plan(filename string, src []byte) (*plan, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", retrygen.ErrParseFailed, err)
	}

	p := &plan{fset: fset}
	groups := e.findDirectives(fset, file)
	if len(groups) == 0 {
		return p, nil
	}

	reserved := transform.CollectIdents(file)
	contextName := transform.ContextImportName(file)
	funcIndex := indexFuncDecls(file)

	for _, refs := range groups {
		first := refs[0]
		target := transform.Target{
			Node:        first.owner.node,
			Method:      first.owner.method,
			Pos:         first.directive.Pos,
			ContextName: contextName,
		}
		if target.Node != nil {
			target.Pos = fset.Position(target.Node.Pos())
		}

		name := declName(target.Node)
		body, err := e.transformer.Transform(first.directive, target, e.newNames(filename, name, reserved))
		if err != nil {
			var diag *transform.Diagnostic
			if !errors.As(err, &diag) {
				return nil, err
			}
			e.logger.Verbose("%s", diag.Error())
			p.diagnostics = append(p.diagnostics, diag)
			continue
		}

		// Only function declarations carry a body, so a successful
		// transform always targets one.
		decl := target.Node.(*ast.FuncDecl)
		if len(refs) > 1 {
			e.logger.Info("%s: ignoring %d additional //%s directive(s) on %s",
				target.Pos, len(refs)-1, e.opts.Directive, name)
		}
		e.logger.Verbose("%s: expanding %s (retries=%d, context=%t)",
			target.Pos, name, body.Retries, body.Async)

		p.expansions = append(p.expansions, expansion{
			decl:  decl,
			refs:  refs,
			body:  body,
			name:  name,
			line:  target.Pos.Line,
			index: funcIndex[decl],
		})
	}
	return p, nil
}

// findDirectives collects directive comments grouped by the declaration
// they document. Groups keep source order; detached directives form
// singleton groups.
func (e *Expander) findDirectives(fset *token.FileSet, file *ast.File) [][]directiveRef {
	var owners map[*ast.CommentGroup]owner
	var groups [][]directiveRef
	byNode := make(map[ast.Node]int)

	for _, cg := range file.Comments {
		for _, c := range cg.List {
			args, ok := transform.ParseDirective(c.Text, e.opts.Directive)
			if !ok {
				continue
			}
			if owners == nil {
				owners = indexDocOwners(file)
			}

			ref := directiveRef{
				comment: c,
				directive: transform.Directive{
					Name: e.opts.Directive,
					Args: args,
					Pos:  fset.Position(c.Pos()),
				},
				owner: owners[cg],
			}

			if ref.owner.node != nil {
				if i, seen := byNode[ref.owner.node]; seen {
					groups[i] = append(groups[i], ref)
					continue
				}
				byNode[ref.owner.node] = len(groups)
			}
			groups = append(groups, []directiveRef{ref})
		}
	}
	return groups
}

func (e *Expander) newNames(filename, decl string, reserved map[string]bool) transform.NameGenerator {
	if e.opts.Naming == retrygen.NamingHashed {
		return transform.NewHashedScope(e.opts.NamePrefix, filepath.Base(filename)+":"+decl, reserved)
	}
	return transform.NewScope(e.opts.NamePrefix, reserved)
}

func indexFuncDecls(file *ast.File) map[*ast.FuncDecl]int {
	index := make(map[*ast.FuncDecl]int)
	for _, d := range file.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			index[fn] = len(index)
		}
	}
	return index
}

// mapExpansions records the output line range of every expanded function.
// Expansion never adds or removes declarations, so the n-th function of
// the output is the n-th function of the input.
func mapExpansions(filename string, output []byte, expansions []expansion, sm *sourcemap.SourceMap) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, output, parser.SkipObjectResolution)
	if err != nil {
		return fmt.Errorf("%w: reparsing expanded %s: %w", retrygen.ErrParseFailed, filename, err)
	}

	var decls []*ast.FuncDecl
	for _, d := range file.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			decls = append(decls, fn)
		}
	}

	for _, x := range expansions {
		if x.index >= len(decls) {
			return fmt.Errorf("expanded %s lost function %s", filename, x.name)
		}
		fn := decls[x.index]
		sm.Add(sourcemap.Entry{
			ExpandedStart: fset.Position(fn.Pos()).Line,
			ExpandedEnd:   fset.Position(fn.End()).Line,
			OriginalFile:  filename,
			OriginalLine:  x.line,
			Function:      x.name,
			Retries:       x.body.Retries,
		})
	}
	return nil
}
