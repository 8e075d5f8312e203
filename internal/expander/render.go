package expander

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"sort"

	"github.com/vvka-141/retrygen/internal/transform"
)

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       []byte
}

// renderBody prints the replacement block. The helper closure reuses the
// original result list and body text from src; everything else is printed
// from the synthetic AST.
func renderBody(fset *token.FileSet, src []byte, body *transform.ReplacementBody) ([]byte, error) {
	helper := body.HelperFunc()

	var buf bytes.Buffer
	buf.WriteString("{\n")
	fmt.Fprintf(&buf, "%s := func() %s %s\n",
		body.HelperName,
		sourceText(fset, src, helper.Type.Results),
		sourceText(fset, src, helper.Body),
	)
	for _, stmt := range body.Stmts()[1:] {
		if err := format.Node(&buf, token.NewFileSet(), stmt); err != nil {
			return nil, fmt.Errorf("failed to print %s expansion: %w", body.FuncName, err)
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}")
	return buf.Bytes(), nil
}

func sourceText(fset *token.FileSet, src []byte, node ast.Node) []byte {
	return src[offset(fset, node.Pos()):offset(fset, node.End())]
}

func offset(fset *token.FileSet, pos token.Pos) int {
	return fset.Position(pos).Offset
}

// bodyEdit replaces the braces and content of a function body.
func bodyEdit(fset *token.FileSet, body *ast.BlockStmt, text []byte) edit {
	return edit{
		start: offset(fset, body.Lbrace),
		end:   offset(fset, body.Rbrace) + 1,
		text:  text,
	}
}

// commentEdit removes a directive comment. When the comment is alone on its
// line the whole line goes, otherwise only the comment text.
func commentEdit(fset *token.FileSet, src []byte, c *ast.Comment) edit {
	start := offset(fset, c.Pos())
	end := offset(fset, c.End())

	lineStart := start
	for lineStart > 0 && (src[lineStart-1] == ' ' || src[lineStart-1] == '\t') {
		lineStart--
	}
	if lineStart == 0 || src[lineStart-1] == '\n' {
		start = lineStart
		if end < len(src) && src[end] == '\r' {
			end++
		}
		if end < len(src) && src[end] == '\n' {
			end++
		}
	}
	return edit{start: start, end: end}
}

// applyEdits splices edits into src, last edit first so earlier offsets
// stay valid. Edits must not overlap.
func applyEdits(src []byte, edits []edit) []byte {
	sorted := make([]edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].start > sorted[j].start
	})

	out := append([]byte(nil), src...)
	for _, e := range sorted {
		tail := append([]byte(nil), out[e.end:]...)
		out = append(append(out[:e.start], e.text...), tail...)
	}
	return out
}
