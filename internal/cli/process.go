package cli

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/retrygen/internal/files/filesystem"
	"github.com/vvka-141/retrygen/internal/files/scanner"
)

// newFileSystem is replaced in tests.
var newFileSystem = func() filesystem.FileSystemProvider {
	return filesystem.NewOSFileSystem()
}

// processFiles reads every file and hands its content to fn, at most limit
// files at a time. The first error cancels the remaining work; fn results
// are stored by index, so callers see them in scan order.
func processFiles(
	ctx context.Context,
	fsys filesystem.FileSystemProvider,
	files []scanner.SourceFile,
	limit int,
	fn func(i int, file scanner.SourceFile, src []byte) error,
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := fsys.ReadFile(file.Path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file.Path, err)
			}
			return fn(i, file, src)
		})
	}
	return g.Wait()
}

// scanArgs resolves command arguments, defaulting to the current module tree.
func scanArgs(fsys filesystem.FileSystemProvider, exclude []string, args []string) ([]scanner.SourceFile, error) {
	if len(args) == 0 {
		args = []string{"./..."}
	}
	return scanner.NewScannerWithFS(fsys, exclude).Scan(args)
}
