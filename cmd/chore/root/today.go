package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/ui"
)

func newTodayCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "today <child>",
		Short: "Show (and instantiate) a child's checklist for the day",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("child id or name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			c, err := a.svc.FindChild(ctx, args[0])
			if err != nil {
				return err
			}
			day, err := a.today(date)
			if err != nil {
				return err
			}

			instances, err := a.svc.EnsureDailyTasks(ctx, c.ID, day)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconChild, fmt.Sprintf("%s — %s", c.Name, day)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Balance", ui.Points(c.Balance)))
			done := 0
			for _, inst := range instances {
				if inst.Done {
					done++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s %s\n",
					ui.DoneIcon(inst.Done), inst.Icon, inst.Title,
					ui.Muted.Render(fmt.Sprintf("(+%d)", inst.Points)), ui.Muted.Render(inst.ID))
			}
			if len(instances) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no tasks — add templates with `chore task add`)"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Progress", fmt.Sprintf("%d/%d", done, len(instances))))
			if done == len(instances) {
				cel := ui.CelebrationFor(c.Name)
				fmt.Fprintln(cmd.OutOrStdout(), ui.BadgeAllDone+" "+cel.Label+" "+cel.Burst())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD, default today)")

	return cmd
}
