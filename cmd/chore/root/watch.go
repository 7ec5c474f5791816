package root

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/scheduler"
	"github.com/kamelfcis/childtodotasks/internal/ui"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the daily scheduler in the foreground",
		Long: `Keep a process running that materializes every child's checklist at
the configured cron time (ensure_cron, default just after midnight).
The run is idempotent, so it is safe alongside interactive commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			sched, err := scheduler.NewScheduler(scheduler.Config{
				Service:  a.svc,
				Logger:   logger,
				CronSpec: a.cfg.EnsureCron,
				Location: a.loc,
			})
			if err != nil {
				return err
			}

			// Catch up immediately so a machine that slept through the
			// cron time still gets today's checklist.
			sched.RunOnce(ctx)

			sched.Start(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "%s watching (cron %q), press Ctrl+C to stop\n", ui.IconInfo, a.cfg.EnsureCron)
			<-ctx.Done()
			sched.Stop()
			return nil
		},
	}

	return cmd
}
