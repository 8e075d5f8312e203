package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/retrygen/internal/files/scanner"
	"github.com/vvka-141/retrygen/internal/transform"
	"github.com/vvka-141/retrygen/internal/tui"
	"github.com/vvka-141/retrygen/pkg/retrygen"
)

var checkCmd = &cobra.Command{
	Use:   "check [path ...]",
	Short: "Validate retry directives without expanding them",
	Long: `Check reports every retry directive that cannot be expanded, in the
compiler's file:line:col: message format. Nothing is written.

Examples:
  retrygen check ./...
  retrygen check --config ci/retrygen.yaml ./internal/...`,
	RunE: runCheck,
}

var checkFlags struct {
	jobs int
}

func init() {
	checkCmd.Flags().IntVarP(&checkFlags.jobs, "jobs", "j", 0, "Files processed in parallel (default: config concurrency, then GOMAXPROCS)")
	rootCmd.AddCommand(checkCmd)
}

func resetCheckFlags() {
	checkFlags.jobs = 0
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkFlags.jobs < 0 {
		return fmt.Errorf("invalid argument %d for --jobs: must not be negative", checkFlags.jobs)
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

	diagnostics := make([][]*transform.Diagnostic, len(files))
	err = processFiles(cmd.Context(), fsys, files, concurrencyLimit(checkFlags.jobs, s.cfg),
		func(i int, file scanner.SourceFile, src []byte) error {
			diags, err := s.expander.Check(file.Path, src)
			if err != nil {
				return err
			}
			diagnostics[i] = diags
			return nil
		})
	if err != nil {
		return err
	}

	summary := tui.Summary{Files: len(files)}
	rejectedFiles := 0
	for _, diags := range diagnostics {
		if len(diags) == 0 {
			continue
		}
		s.printer.Diagnostics(diags)
		summary.Rejected += len(diags)
		rejectedFiles++
	}

	s.printer.Summary(summary, true)
	if summary.Rejected > 0 {
		return fmt.Errorf("%w: %d directive(s) in %d file(s)", retrygen.ErrDiagnostics, summary.Rejected, rejectedFiles)
	}
	return nil
}
