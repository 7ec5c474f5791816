package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/ledger"
	"github.com/kamelfcis/childtodotasks/internal/ui"
)

func newRedeemCmd() *cobra.Command {
	var claimKey string

	cmd := &cobra.Command{
		Use:   "redeem <child> <gift-id>",
		Short: "Redeem a gift for points",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("child and gift id are required")
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

			res, err := a.svc.Redeem(ctx, ledger.RedeemInput{ChildID: c.ID, GiftID: args[1], ClaimKey: claimKey})
			if err != nil {
				var short ledger.InsufficientBalanceError
				if errors.As(err, &short) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s needs %s more for that gift.\n",
						ui.Warn.Render(ui.IconWarn+" Not yet!"), c.Name, ui.Points(short.Missing()))
					return nil
				}
				return err
			}

			if res.Replayed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.IconGift, res.GiftTitle, ui.Muted.Render("(already claimed with this key, balance unchanged)"))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconGift+" Redeemed"), res.GiftTitle, ui.Muted.Render(fmt.Sprintf("(-%d)", res.Cost)))
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Balance", ui.Points(res.NewBalance)))
			return nil
		},
	}

	cmd.Flags().StringVar(&claimKey, "key", "", "Idempotency key; retries with the same key claim once")

	return cmd
}
