// Package expander rewrites Go source files, replacing the body of every
// function annotated with the retry directive by its retry-loop expansion.
//
// Expansion works on source text. The annotated body is carried over
// byte-for-byte into the helper closure, so comments and formatting inside
// it survive. The generated scaffolding is printed with go/format, spliced
// over the original body, and the whole file is gofmt'ed once at the end.
//
// A file with diagnostics is still expanded for every valid directive;
// declarations that failed validation are left exactly as written.
package expander
