package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

// memoryFile implements File interface for in-memory files
type memoryFile struct {
	absPath string
	relPath string
	content []byte
	info    fs.FileInfo
}

func (f *memoryFile) Path() string         { return f.absPath }
func (f *memoryFile) RelativePath() string { return f.relPath }
func (f *memoryFile) Info() FileInfo       { return f.info }

func (f *memoryFile) ReadContent() ([]byte, error) {
	return f.content, nil
}

// memoryDirectory implements Directory interface for in-memory filesystem
type memoryDirectory struct {
	absPath string
	fs      *MemoryFileSystem
}

func (d *memoryDirectory) Path() string { return d.absPath }

func (d *memoryDirectory) Walk(fn func(File, error) error) error {
	entries := d.fs.entriesUnder(d.absPath)

	// Sort by path for deterministic order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].absPath < entries[j].absPath
	})

	var skipped []string
	for _, entry := range entries {
		if underAny(entry.absPath, skipped) {
			continue
		}

		// Recover from panics in callback to prevent crashing the entire walk
		var callbackErr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					callbackErr = fmt.Errorf("walk callback panicked at %s: %v", entry.absPath, r)
				}
			}()

			callbackErr = fn(entry, nil)
		}()

		if errors.Is(callbackErr, SkipDir) && entry.info.IsDir() {
			skipped = append(skipped, entry.absPath)
			continue
		}
		if callbackErr != nil {
			return callbackErr
		}
	}

	return nil
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// Safe for concurrent use.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string]*memoryFile // map of absolute path -> file
	root  string                 // root directory path
}

// NewMemoryFileSystem creates a new in-memory filesystem.
// The root path is normalized to use forward slashes for virtual filesystem consistency.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))

	mfs := &MemoryFileSystem{
		files: make(map[string]*memoryFile),
		root:  root,
	}
	mfs.files[root] = mfs.newDir(root)
	return mfs
}

// AddFile adds a file to the in-memory filesystem
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.put(mfs.resolve(filePath), []byte(content), 0644)
}

// WriteFile implements FileSystemProvider.WriteFile
func (mfs *MemoryFileSystem) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	absPath := mfs.resolve(filePath)
	if existing, ok := mfs.files[absPath]; ok {
		if existing.info.IsDir() {
			return fmt.Errorf("path is a directory, not a file: %s", filePath)
		}
		perm = existing.info.Mode().Perm()
	}
	mfs.put(absPath, append([]byte(nil), data...), perm)
	return nil
}

// Open implements FileSystemProvider.Open
func (mfs *MemoryFileSystem) Open(openPath string) (Directory, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	absPath := mfs.resolve(openPath)
	file, exists := mfs.files[absPath]
	if !exists {
		return nil, fmt.Errorf("directory not found: %s", openPath)
	}
	if !file.info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", openPath)
	}
	return &memoryDirectory{absPath: absPath, fs: mfs}, nil
}

// ReadFile implements FileSystemProvider.ReadFile
func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	file, exists := mfs.files[mfs.resolve(filePath)]
	if !exists {
		return nil, fmt.Errorf("file not found: %s: %w", filePath, fs.ErrNotExist)
	}
	if file.info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	return append([]byte(nil), file.content...), nil
}

// Stat implements FileSystemProvider.Stat
func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	file, exists := mfs.files[mfs.resolve(statPath)]
	if !exists {
		return nil, fmt.Errorf("path not found: %s: %w", statPath, fs.ErrNotExist)
	}
	return file.info, nil
}

// resolve maps a path to its absolute, slash-separated form. Relative paths
// are taken from the root.
func (mfs *MemoryFileSystem) resolve(p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return mfs.root
	}
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

// put stores a file and creates its parent directories. Callers hold mu.
func (mfs *MemoryFileSystem) put(absPath string, content []byte, perm fs.FileMode) {
	mfs.files[absPath] = &memoryFile{
		absPath: absPath,
		relPath: mfs.relative(absPath),
		content: content,
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			size:    int64(len(content)),
			mode:    perm,
			modTime: time.Now(),
		},
	}

	for dir := path.Dir(absPath); ; dir = path.Dir(dir) {
		if _, exists := mfs.files[dir]; exists {
			break
		}
		mfs.files[dir] = mfs.newDir(dir)
		if dir == "/" || dir == "." {
			break
		}
	}
}

func (mfs *MemoryFileSystem) newDir(absPath string) *memoryFile {
	return &memoryFile{
		absPath: absPath,
		relPath: mfs.relative(absPath),
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			mode:    0755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		},
	}
}

func (mfs *MemoryFileSystem) relative(absPath string) string {
	rel, err := filepath.Rel(mfs.root, absPath)
	if err != nil {
		return absPath
	}
	return filepath.ToSlash(rel)
}

// entriesUnder returns a snapshot of all files and directories under basePath.
// Relative paths in the snapshot are taken from basePath.
func (mfs *MemoryFileSystem) entriesUnder(basePath string) []*memoryFile {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	var entries []*memoryFile
	for p, file := range mfs.files {
		if p != basePath && !strings.HasPrefix(p, strings.TrimSuffix(basePath, "/")+"/") {
			continue
		}
		rel, err := filepath.Rel(basePath, p)
		if err != nil {
			rel = file.relPath
		}
		entries = append(entries, &memoryFile{
			absPath: file.absPath,
			relPath: filepath.ToSlash(rel),
			content: file.content,
			info:    file.info,
		})
	}
	return entries
}

func underAny(p string, dirs []string) bool {
	for _, dir := range dirs {
		if strings.HasPrefix(p, dir+"/") {
			return true
		}
	}
	return false
}
