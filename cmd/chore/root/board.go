package root

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/tui"
)

func newBoardCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "board <child>",
		Short: "Open the interactive checklist for a child",
		Long: `Open a full-screen checklist for one child.

Keys: j/k or arrows to move, space/enter to complete a task,
r to redeem the selected gift, q to quit.`,
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
			return tui.RunBoard(ctx, a.svc, c.ID, day, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD), default today")

	return cmd
}
