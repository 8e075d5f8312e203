// Package files groups the file-handling sub-packages.
//
//   - filesystem: Filesystem abstraction interfaces and implementations (OS and in-memory)
//   - scanner: Go source discovery from command line arguments
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/retrygen/internal/files/filesystem"
//	    "github.com/vvka-141/retrygen/internal/files/scanner"
//	)
//
//	fsys := filesystem.NewOSFileSystem()
//	files, err := scanner.NewScannerWithFS(fsys, cfg.Exclude).Scan([]string{"./..."})
package files
