package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vvka-141/retrygen/pkg/retrygen"
)

var locateCmd = &cobra.Command{
	Use:   "locate <file.go> <line>",
	Short: "Map a line of expanded output back to its retry directive",
	Long: `Locate expands a file in memory and reports which annotated function
produced the given line of the expanded output. Use it when the compiler or a
stack trace points into generated retry scaffolding.

Examples:
  retrygen locate client.go 42`,
	Args: cobra.ExactArgs(2),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	path := args[0]
	line, err := strconv.Atoi(args[1])
	if err != nil || line <= 0 {
		return fmt.Errorf("invalid argument %q for line: must be a positive integer", args[1])
	}

	s, err := newSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	src, err := newFileSystem().ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	result, err := s.expander.ExpandSource(path, src)
	if err != nil {
		return err
	}
	if result.HasDiagnostics() {
		s.printer.Diagnostics(result.Diagnostics)
		return fmt.Errorf("%w: %d directive(s) in %s", retrygen.ErrDiagnostics, len(result.Diagnostics), path)
	}

	out := cmd.OutOrStdout()
	entry, ok := result.SourceMap.Resolve(line)
	if !ok {
		fmt.Fprintf(out, "%s:%d: not inside an expanded function\n", path, line)
		return nil
	}
	fmt.Fprintf(out, "%s:%d: %s\n", path, line, entry.Description())
	return nil
}
