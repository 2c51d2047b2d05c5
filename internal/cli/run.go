package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/cloak/internal/backend"
	"github.com/dshills/cloak/internal/budget"
	"github.com/dshills/cloak/internal/config"
	"github.com/dshills/cloak/internal/github"
	"github.com/dshills/cloak/internal/pipeline"
)

var (
	flagConfig      string
	flagDryRun      bool
	flagVerbose     bool
	flagProvider    string
	flagModel       string
	flagAPIURL      string
	flagTokenBudget string
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Render the review comment to stdout instead of posting it")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider override")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name override")
	cmd.Flags().StringVar(&flagAPIURL, "api-url", "", "Analysis service base URL override")
	cmd.Flags().StringVar(&flagTokenBudget, "token-budget", "", "Token budget override")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagAPIURL != "" {
		m["apiUrl"] = flagAPIURL
	}
	if flagTokenBudget != "" {
		m["tokenBudget"] = flagTokenBudget
	}
	return m
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the review pass for the triggering pull request",
	Long:  "Run fetches the pull request diff named by GITHUB_EVENT_PATH, redacts the added lines, submits them for analysis, and posts the result as a PR comment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig, buildOverrides())
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			fmt.Fprintf(os.Stdout, "::error::%v\n", err)
			exitCode = ExitConfigError
			return nil
		}

		log, err := newLogger(flagVerbose)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		defer log.Sync() //nolint:errcheck

		runID := uuid.NewString()
		log = log.With(zap.String("run_id", runID))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		gh := github.NewClient(cfg.RepoToken)
		be := backend.NewClient(cfg.APIURL, cfg.ActionToken, runID, log)
		p := pipeline.New(cfg, gh, be, log)
		p.DryRun = flagDryRun

		if err := p.Run(ctx); err != nil {
			var exceeded *budget.ExceededError
			if errors.As(err, &exceeded) {
				exitCode = ExitBudgetExceeded
				return nil
			}
			exitCode = ExitRuntimeError
			return nil
		}
		return nil
	},
}

func init() {
	addRunFlags(runCmd)
}
