package transform

import (
	"go/ast"
	"go/token"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// NameGenerator produces identifiers that do not collide with any name
// visible at the expansion site.
type NameGenerator interface {
	MakeUniqueName(base string) string
}

// Scope is a sequential NameGenerator. Names are the prefix followed by the
// capitalised base; on collision a counter is appended.
// A Scope is meant for a single expansion and is not safe for concurrent use.
type Scope struct {
	prefix string
	taken  map[string]bool
}

// NewScope creates a Scope that never returns a name in reserved.
// The reserved set is copied.
func NewScope(prefix string, reserved map[string]bool) *Scope {
	taken := make(map[string]bool, len(reserved))
	for name := range reserved {
		taken[name] = true
	}
	return &Scope{prefix: prefix, taken: taken}
}

// MakeUniqueName returns a fresh identifier derived from base.
func (s *Scope) MakeUniqueName(base string) string {
	return s.claim(joinName(s.prefix, base))
}

func (s *Scope) claim(candidate string) string {
	name := candidate
	for i := 1; s.taken[name]; i++ {
		name = candidate + strconv.Itoa(i)
	}
	s.taken[name] = true
	return name
}

// HashedScope is a NameGenerator whose names carry a suffix derived from a
// seed (typically file and function name), so that names stay stable when
// unrelated code around the expansion changes.
type HashedScope struct {
	seed  string
	scope *Scope
}

var hashNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/vvka-141/retrygen"))

// NewHashedScope creates a HashedScope for one expansion.
func NewHashedScope(prefix, seed string, reserved map[string]bool) *HashedScope {
	return &HashedScope{
		seed:  seed,
		scope: NewScope(prefix, reserved),
	}
}

// MakeUniqueName returns prefix+Base+"_"+hash, with a counter on collision.
func (h *HashedScope) MakeUniqueName(base string) string {
	id := uuid.NewSHA1(hashNamespace, []byte(h.seed+"\x00"+base))
	suffix := id.String()[:8]
	return h.scope.claim(joinName(h.scope.prefix, base) + "_" + suffix)
}

// ValidPrefix reports whether prefix yields valid Go identifiers. Keywords are
// accepted because generated names always extend the prefix.
func ValidPrefix(prefix string) bool {
	return prefix == "" || token.IsIdentifier(prefix) || token.IsKeyword(prefix)
}

// joinName builds prefix+Base, or base unchanged when there is no prefix.
func joinName(prefix, base string) string {
	if prefix == "" {
		return base
	}
	r, size := utf8.DecodeRuneInString(base)
	return prefix + string(unicode.ToUpper(r)) + base[size:]
}

// CollectIdents returns every identifier name used in file, including
// package and import names.
func CollectIdents(file *ast.File) map[string]bool {
	idents := make(map[string]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			idents[id.Name] = true
		}
		return true
	})
	for _, imp := range file.Imports {
		if imp.Name != nil {
			continue
		}
		if path, err := strconv.Unquote(imp.Path.Value); err == nil {
			idents[importBase(path)] = true
		}
	}
	return idents
}

// importBase approximates the default package name of an import path.
func importBase(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
