package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashlint/dashlint/internal/adapters/outbound/tui"
	"github.com/dashlint/dashlint/internal/application"
	"github.com/dashlint/dashlint/internal/domain"
)

func newScoreCmd(g *globals) *cobra.Command {
	var (
		jsonOutput bool
		badge      bool
		selection  string
	)

	cmd := &cobra.Command{
		Use:   "score [path]",
		Short: "Score a project without fixing anything",
		Long:  "Run the check pipeline read-only and print the health score with its category breakdown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pathArg(args)
			if err != nil {
				return err
			}

			svc := NewCheckService(g.log())
			report, err := svc.Check(cmd.Context(), path, application.CheckOptions{Selection: selection})
			if err != nil {
				return fmt.Errorf("scoring failed: %w", err)
			}

			switch {
			case jsonOutput:
				if err := renderJSON(cmd, report); err != nil {
					return err
				}
			case badge:
				if report.Errored() {
					return &ExitError{Code: ExitFail, Err: fmt.Errorf("cannot score %s: %s", report.Root, report.FatalError)}
				}
				renderBadge(cmd, report)
			default:
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderScore(report))
			}
			return exitFor(report.Verdict, report.Errored())
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&badge, "badge", false, "Output a shields.io badge URL")
	cmd.Flags().StringVar(&selection, "check", "", "Rule selection: smart, all, or a comma-separated category list")

	return cmd
}

func renderBadge(cmd *cobra.Command, report *domain.HealthReport) {
	color := domain.BadgeColor(report.Overall)
	url := fmt.Sprintf("https://img.shields.io/badge/dashlint-%d%%2F100-%s", report.Overall, color)
	fmt.Fprintln(cmd.OutOrStdout(), url)
}
