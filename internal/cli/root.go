package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "retrygen",
	Short: "Expand //retry:onfailure directives into retry loops",
	Long: `retrygen rewrites Go functions annotated with a retry directive:

  //retry:onfailure retries=3
  func fetch(ctx context.Context, url string) ([]byte, error) {
      ...
  }

The body is moved into a closure and called in a loop until it returns a nil
error or the attempt budget is spent; the last error is returned unchanged.
A context parameter stays in scope for the body, which decides how to react
to cancellation. No dependency is added to the expanded code.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - One or more retry directives were rejected
  12 - A Go source file could not be parsed
  13 - Expanded output could not be written`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// rootFlags holds the persistent flag values shared by every command.
var rootFlags struct {
	verbose    bool
	configPath string
}

// Execute runs the root command. Interrupts cancel in-flight file processing.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "",
		"Path to retrygen.yaml (default: $RETRYGEN_CONFIG, then ./retrygen.yaml)")
}
