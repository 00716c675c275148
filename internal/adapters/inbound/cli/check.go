package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dashlint/dashlint/internal/adapters/outbound/tui"
	"github.com/dashlint/dashlint/internal/application"
)

// checkFlags are shared by check, batch-check and watch.
type checkFlags struct {
	selection string
	fix       bool
	dryRun    bool
	workers   int
	timeout   time.Duration
}

func (f *checkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.selection, "check", "", "Rule selection: smart, all, or a comma-separated category list (default from .dashlint.yaml, else smart)")
	cmd.Flags().BoolVar(&f.fix, "fix", false, "Rewrite files to fix fixable findings")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Show the fixes as diffs without writing")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Files checked in parallel (default: number of CPUs)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 2*time.Minute, "Upper bound for the fix pass")
}

func (f *checkFlags) options() application.CheckOptions {
	return application.CheckOptions{
		Selection: f.selection,
		FixMode:   fixMode(f.fix, f.dryRun),
		Workers:   f.workers,
		Timeout:   f.timeout,
	}
}

func newCheckCmd(g *globals) *cobra.Command {
	var (
		flags      checkFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Check a project and optionally fix what can be fixed",
		Long: "Detect the project's stack, run the selected rule catalogs over its text files and score the result.\n" +
			"Exit status: 0 pass, 1 fail or fatal error, 2 warnings only.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pathArg(args)
			if err != nil {
				return err
			}

			svc := NewCheckService(g.log())
			report, err := svc.Check(cmd.Context(), path, flags.options())
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			}
			return exitFor(report.Verdict, report.Errored())
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")

	return cmd
}
