package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dashlint/dashlint/internal/adapters/outbound/tui"
	"github.com/dashlint/dashlint/internal/application"
)

func newBatchCheckCmd(g *globals) *cobra.Command {
	var (
		flags      checkFlags
		jsonOutput bool
		parallel   int
	)

	cmd := &cobra.Command{
		Use:   "batch-check <path>...",
		Short: "Check several projects and aggregate their scores",
		Long: "Check every project independently. A project that cannot be checked is marked errored " +
			"and the batch carries on; the batch score averages the projects that completed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := make([]string, len(args))
			for i, a := range args {
				abs, err := filepath.Abs(a)
				if err != nil {
					return fmt.Errorf("resolving path %s: %w", a, err)
				}
				roots[i] = abs
			}

			svc := application.NewBatchService(NewCheckService(g.log()), parallel, g.log())
			batch, err := svc.CheckAll(cmd.Context(), roots, flags.options())
			if err != nil {
				return fmt.Errorf("batch check failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, batch); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderBatch(batch))
			}
			return exitFor(batch.Verdict, batch.ErroredCount() > 0)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the batch report as JSON")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "Projects checked at once (default: number of CPUs)")

	return cmd
}
