package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashlint/dashlint/internal/adapters/outbound/tui"
	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

func newRulesCmd(g *globals) *cobra.Command {
	var (
		category   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the registered rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := NewCheckService(g.log()).Rules("")
			if err != nil {
				return err
			}

			var listed []rules.Rule
			if category == "" {
				for _, r := range reg.All() {
					if r.Category != domain.CategoryInternal {
						listed = append(listed, r)
					}
				}
			} else {
				cat, err := domain.ParseCategory(category)
				if err != nil {
					return err
				}
				listed = reg.ByCategory(cat)
			}

			if jsonOutput {
				return renderJSON(cmd, rules.Infos(listed))
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(listed))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list one category (security, quality, performance, ux, residue)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the rules as JSON")

	return cmd
}
