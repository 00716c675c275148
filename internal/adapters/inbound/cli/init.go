package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dashlint/dashlint/internal/adapters/outbound/config"
	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/scoring"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .dashlint.yaml configuration file",
		Long:  "Create a .dashlint.yaml with the built-in defaults and commented examples of every other setting.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := pathArg(args)
			if err != nil {
				return err
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			content, err := generateConfig()
			if err != nil {
				return err
			}

			if err := os.WriteFile(dest, []byte(content), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .dashlint.yaml")

	return cmd
}

func generateConfig() (string, error) {
	body, err := config.Marshal(domain.DefaultConfig())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# dashlint configuration\n\n")
	b.Write(body)
	b.WriteString(`
# workers: 4

# ignore_paths:
#   - legacy/**
#   - "*.generated.ts"

# categories:
#   - security
#   - ux

# disabled_rules:
#   - quality/console-log

# weights:
`)
	// Ordered output for readability
	weights := scoring.Current().CategoryWeights
	for _, c := range domain.ValidCategories {
		fmt.Fprintf(&b, "#   %s: %.2f\n", c, weights[c])
	}
	return b.String(), nil
}
