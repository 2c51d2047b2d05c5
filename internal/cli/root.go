package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.3.1"

// Process exit codes.
const (
	ExitSuccess        = 0
	ExitRuntimeError   = 1
	ExitUsageError     = 2
	ExitConfigError    = 3
	ExitBudgetExceeded = 4
)

var rootCmd = &cobra.Command{
	Use:   "cloak",
	Short: "Privacy-preserving AI code review for pull requests",
	Long:  "Cloak reviews a pull request by redacting its changes, submitting the abstracted code to the Cloak analysis service, and posting the restored suggestions back to the PR.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print cloak version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "cloak version %s\n", version)
	},
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: cloak.yaml)")
}
