package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dashlint/dashlint/internal/adapters/outbound/config"
	"github.com/dashlint/dashlint/internal/adapters/outbound/detector"
	"github.com/dashlint/dashlint/internal/adapters/outbound/differ"
	"github.com/dashlint/dashlint/internal/adapters/outbound/fsstore"
	"github.com/dashlint/dashlint/internal/adapters/outbound/gitinfo"
	"github.com/dashlint/dashlint/internal/adapters/outbound/logging"
	"github.com/dashlint/dashlint/internal/adapters/outbound/scanner"
	"github.com/dashlint/dashlint/internal/application"
	"github.com/dashlint/dashlint/internal/domain"
)

// NewCheckService wires the filesystem adapters into a CheckService.
func NewCheckService(logger logrus.FieldLogger) *application.CheckService {
	if logger == nil {
		logger = logging.Discard()
	}
	return application.NewCheckService(
		scanner.New(),
		detector.New(),
		config.New(),
		fsstore.New(),
		differ.New(),
		gitinfo.New(),
		logger,
	)
}

func (g *globals) log() logrus.FieldLogger {
	if g.logger == nil {
		return logging.Discard()
	}
	return g.logger
}

func pathArg(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// fixMode turns the --fix and --dry-run flags into a mode. --dry-run wins.
func fixMode(fix, dryRun bool) domain.FixMode {
	switch {
	case dryRun:
		return domain.FixModeDryRun
	case fix:
		return domain.FixModeApply
	default:
		return domain.FixModeNone
	}
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
