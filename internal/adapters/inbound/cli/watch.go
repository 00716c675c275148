package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dashlint/dashlint/internal/adapters/outbound/config"
	"github.com/dashlint/dashlint/internal/adapters/outbound/tui"
	"github.com/dashlint/dashlint/internal/adapters/outbound/watcher"
	"github.com/dashlint/dashlint/internal/application"
	"github.com/dashlint/dashlint/internal/domain"
)

func newWatchCmd(g *globals) *cobra.Command {
	var (
		flags    checkFlags
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-check a project every time its files change",
		Long:  "Run a check, then run it again after each burst of file changes until interrupted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pathArg(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc := application.NewWatchService(
				NewCheckService(g.log()),
				watcher.New(interval, g.log()),
				config.New(),
				g.log(),
			)

			out := cmd.OutOrStdout()
			err = svc.Watch(ctx, path, flags.options(), func(report *domain.HealthReport, changed []string) {
				if changed != nil {
					fmt.Fprintf(out, "\nchanged: %s\n", strings.Join(changed, ", "))
				}
				fmt.Fprint(out, tui.RenderReport(report))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return &ExitError{Code: ExitFail, Err: err}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&interval, "interval", watcher.DefaultDebounce, "Quiet period after the last change before re-checking")

	return cmd
}
