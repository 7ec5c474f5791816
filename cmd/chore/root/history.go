package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <child>",
		Short: "Show a child's redemption history",
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
			redemptions, err := a.svc.ListRedemptions(ctx, c.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconTrophy, c.Name+"'s rewards"))
			if len(redemptions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(nothing redeemed yet)"))
				return nil
			}
			for _, r := range redemptions {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s %s\n",
					ui.IconGift, r.Title,
					ui.Muted.Render(fmt.Sprintf("(-%d)", r.CostAtClaim)),
					ui.Muted.Render(r.ClaimedAt.Local().Format("2006-01-02 15:04")))
			}
			return nil
		},
	}

	return cmd
}
