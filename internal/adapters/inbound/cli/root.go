package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dashlint/dashlint/internal/adapters/outbound/logging"
)

var (
	version = "dev"
	commit  = "none"
)

// globals holds the persistent flags and what they build.
type globals struct {
	logLevel  string
	logFormat string
	logger    *logrus.Logger
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:   "dashlint",
		Short: "Lint and auto-fix front-end and service projects",
		Long: "dashlint detects a project's stack, runs security, quality, UX, migration-residue " +
			"and performance checks against its source tree, optionally fixes what it safely can, " +
			"and rolls everything into a single health score.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Options{
				Level:  g.logLevel,
				Format: g.logFormat,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			g.logger = logger
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log format (text, json)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCheckCmd(g))
	cmd.AddCommand(newBatchCheckCmd(g))
	cmd.AddCommand(newScoreCmd(g))
	cmd.AddCommand(newDetectCmd(g))
	cmd.AddCommand(newRulesCmd(g))
	cmd.AddCommand(newWatchCmd(g))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd(g))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	err := newRootCmd().Execute()
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		if exit.Err != nil {
			fmt.Fprintln(os.Stderr, "Error:", exit.Err)
		}
		return exit.Code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show dashlint version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "dashlint %s (%s)\n", version, commit)
			return nil
		},
	}
}
