package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vvka-141/retrygen/internal/expander"
	"github.com/vvka-141/retrygen/internal/files/scanner"
	"github.com/vvka-141/retrygen/internal/tui"
	"github.com/vvka-141/retrygen/pkg/retrygen"
)

var expandCmd = &cobra.Command{
	Use:   "expand [path ...]",
	Short: "Expand retry directives",
	Long: `Expand rewrites every function annotated with //retry:onfailure.

Arguments are Go files or directories; directories are walked recursively,
skipping vendor, testdata and names starting with "_" or ".". Without
arguments the current directory tree is expanded.

By default the expanded source is printed to stdout. A file with rejected
directives is never written, and the command then exits with code 11.

Examples:
  # Preview the expansion of one file
  retrygen expand client.go

  # Rewrite a whole module in place
  retrygen expand -w ./...

  # List files that would change
  retrygen expand -l ./...

  # Write expanded copies to a separate tree
  retrygen expand -o build/gen ./internal/...`,
	RunE: runExpand,
}

// expandFlags holds the expand command's flag values.
var expandFlags struct {
	write  bool
	list   bool
	outDir string
	jobs   int
}

func init() {
	expandCmd.Flags().BoolVarP(&expandFlags.write, "write", "w", false, "Write results to the source files instead of stdout")
	expandCmd.Flags().BoolVarP(&expandFlags.list, "list", "l", false, "List files whose expansion differs from their source")
	expandCmd.Flags().StringVarP(&expandFlags.outDir, "output", "o", "", "Write expanded files under this directory, mirroring the input layout")
	expandCmd.Flags().IntVarP(&expandFlags.jobs, "jobs", "j", 0, "Files processed in parallel (default: config concurrency, then GOMAXPROCS)")
	expandCmd.MarkFlagsMutuallyExclusive("write", "output")
	rootCmd.AddCommand(expandCmd)
}

func resetExpandFlags() {
	expandFlags.write = false
	expandFlags.list = false
	expandFlags.outDir = ""
	expandFlags.jobs = 0
}

func runExpand(cmd *cobra.Command, args []string) error {
	if expandFlags.jobs < 0 {
		return fmt.Errorf("invalid argument %d for --jobs: must not be negative", expandFlags.jobs)
	}

	s, err := newSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	fsys := newFileSystem()
	files, err := scanArgs(fsys, s.cfg.Exclude, args)
	if err != nil {
		return err
	}
	s.logger.Verbose("Expanding %d file(s)", len(files))

	results := make([]*expander.Result, len(files))
	err = processFiles(cmd.Context(), fsys, files, concurrencyLimit(expandFlags.jobs, s.cfg),
		func(i int, file scanner.SourceFile, src []byte) error {
			result, err := s.expander.ExpandSource(file.Path, src)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	summary := tui.Summary{Files: len(files)}
	rejectedFiles := 0

	for i, result := range results {
		file := files[i]
		if result.HasDiagnostics() {
			s.printer.Diagnostics(result.Diagnostics)
			summary.Rejected += len(result.Diagnostics)
			rejectedFiles++
			continue
		}

		summary.Expanded += result.Expanded
		if result.Changed() {
			summary.Changed++
		}
		for _, entry := range result.SourceMap.Entries() {
			s.logger.Verbose("%s:%d-%d: %s", file.Path, entry.ExpandedStart, entry.ExpandedEnd, entry.Description())
		}

		if expandFlags.list && result.Changed() {
			fmt.Fprintln(out, file.Path)
		}

		switch {
		case expandFlags.write:
			if !result.Changed() {
				continue
			}
			if err := fsys.WriteFile(file.Path, result.Output, 0644); err != nil {
				return fmt.Errorf("%w: %w", retrygen.ErrWriteFailed, err)
			}
		case expandFlags.outDir != "":
			target := filepath.Join(expandFlags.outDir, filepath.FromSlash(file.RelativePath))
			if err := fsys.WriteFile(target, result.Output, 0644); err != nil {
				return fmt.Errorf("%w: %w", retrygen.ErrWriteFailed, err)
			}
		case !expandFlags.list:
			if _, err := out.Write(result.Output); err != nil {
				return fmt.Errorf("%w: %w", retrygen.ErrWriteFailed, err)
			}
		}
	}

	if expandFlags.write || expandFlags.outDir != "" || summary.Rejected > 0 || rootFlags.verbose {
		s.printer.Summary(summary, false)
	}
	if summary.Rejected > 0 {
		return fmt.Errorf("%w: %d directive(s) in %d file(s)", retrygen.ErrDiagnostics, summary.Rejected, rejectedFiles)
	}
	return nil
}
