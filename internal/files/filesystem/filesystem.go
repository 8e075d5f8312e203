package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// SkipDir is returned by a Walk callback to skip the directory it was
// called for.
var SkipDir = fs.SkipDir

// File represents an individual file with its metadata and content accessor
type File interface {
	// Path returns the absolute path to the file
	Path() string

	// RelativePath returns the path relative to the walked directory
	RelativePath() string

	// Info returns file metadata
	Info() FileInfo

	// ReadContent returns the file's content
	ReadContent() ([]byte, error)
}

// Directory represents a directory that can be traversed to discover files
type Directory interface {
	// Path returns the absolute path to the directory
	Path() string

	// Walk traverses the directory tree in lexical order, calling fn for
	// each file and directory, the root included. Returning SkipDir for a
	// directory skips its contents; any other error stops the walk.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider reads Go sources and writes expanded output.
type FileSystemProvider interface {
	// Open opens a directory at the specified path
	Open(path string) (Directory, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)

	// WriteFile replaces the content of path, creating parent directories
	// as needed. An existing file keeps its permissions.
	WriteFile(path string, data []byte, perm fs.FileMode) error
}
