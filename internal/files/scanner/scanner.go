package scanner

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vvka-141/retrygen/internal/files/filesystem"
)

// SourceFile is a Go source file selected for processing.
type SourceFile struct {
	// Path is the file path, built from the argument it was found under.
	Path string

	// Root is the directory argument the file was discovered in, or the
	// file's own directory when it was named explicitly.
	Root string

	// RelativePath is Path relative to Root, slash-separated.
	RelativePath string
}

// Scanner resolves command arguments into Go source files.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided fsProvider is also thread-safe.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
	exclude    []string
}

// NewScanner creates a scanner over the OS filesystem. Exclude patterns use
// path.Match syntax and are matched against both the base name and the
// slash-separated path relative to the walked directory.
func NewScanner(exclude []string) *Scanner {
	return NewScannerWithFS(filesystem.NewOSFileSystem(), exclude)
}

// NewScannerWithFS creates a new file scanner with a custom filesystem provider.
// This is primarily useful for testing with in-memory filesystems.
// Panics if fsProvider is nil.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider, exclude []string) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		fsProvider: fsProvider,
		exclude:    exclude,
	}
}

// Scan resolves paths into a sorted, de-duplicated list of Go source files.
// Explicitly named files are always included when they end in ".go".
func (s *Scanner) Scan(paths []string) ([]SourceFile, error) {
	seen := make(map[string]bool)
	var files []SourceFile

	add := func(f SourceFile) {
		key := filepath.Clean(f.Path)
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, f)
	}

	for _, arg := range paths {
		root := strings.TrimSuffix(filepath.ToSlash(arg), "/...")
		if root == "..." || root == "" {
			root = "."
		}
		root = filepath.FromSlash(root)

		info, err := s.fsProvider.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", arg, err)
		}

		if !info.IsDir() {
			if !isGoFile(info.Name()) {
				return nil, fmt.Errorf("not a Go source file: %s", arg)
			}
			add(SourceFile{Path: root, Root: filepath.Dir(root), RelativePath: info.Name()})
			continue
		}

		found, err := s.scanDirectory(root)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

func (s *Scanner) scanDirectory(root string) ([]SourceFile, error) {
	dir, err := s.fsProvider.Open(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	var files []SourceFile
	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}

		rel := filepath.ToSlash(file.RelativePath())
		name := file.Info().Name()

		if file.Info().IsDir() {
			if rel != "." && (skipDirectory(name) || s.excluded(name, rel)) {
				return filesystem.SkipDir
			}
			return nil
		}

		if !isGoFile(name) || ignoredName(name) || s.excluded(name, rel) {
			return nil
		}

		files = append(files, SourceFile{
			Path:         filepath.Join(root, filepath.FromSlash(rel)),
			Root:         root,
			RelativePath: rel,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *Scanner) excluded(name, rel string) bool {
	for _, pattern := range s.exclude {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isGoFile(name string) bool {
	return strings.HasSuffix(name, ".go")
}

// ignoredName reports names the go tool ignores.
func ignoredName(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

func skipDirectory(name string) bool {
	return name == "vendor" || name == "testdata" || ignoredName(name)
}
