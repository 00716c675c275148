package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashlint/dashlint/internal/adapters/outbound/tui"
	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

func newDetectCmd(g *globals) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "detect [path]",
		Short: "Show the technology profile detected for a project",
		Long:  "Read the project's manifests and print its technology tags, the catalogs smart mode would run, and any manifest that could not be parsed.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pathArg(args)
			if err != nil {
				return err
			}

			det, err := NewCheckService(g.log()).Detect(path)
			if err != nil {
				return &ExitError{Code: ExitFail, Err: fmt.Errorf("detection failed: %w", err)}
			}

			if jsonOutput {
				return renderJSON(cmd, struct {
					Profile    domain.ProjectProfile `json:"profile"`
					Gaps       []domain.DetectionGap `json:"gaps,omitempty"`
					Categories []domain.Category     `json:"smart_categories"`
				}{det.Profile, det.Gaps, rules.SmartCategories(det.Profile)})
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderDetection(det))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the profile as JSON")

	return cmd
}
