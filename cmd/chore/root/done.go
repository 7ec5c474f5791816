package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/ui"
)

func newDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <instance-id>",
		Short: "Complete a task on today's checklist",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("instance id is required")
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

			res, err := a.svc.Complete(ctx, args[0])
			if err != nil {
				return err
			}
			if res.AlreadyDone {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.IconDone, res.Title, ui.Muted.Render("(already done, balance unchanged)"))
				return nil
			}

			child, err := a.svc.FindChild(ctx, res.ChildID)
			if err != nil {
				return err
			}
			cel := ui.CelebrationFor(child.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconDone+" Done"), res.Title, ui.Gold.Render(fmt.Sprintf("+%d", res.PointsAwarded)), cel.Burst())
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Balance", ui.Points(res.NewBalance)))
			return nil
		},
	}

	return cmd
}
