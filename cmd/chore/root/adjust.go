package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/ledger"
	"github.com/kamelfcis/childtodotasks/internal/ui"
)

func newAdjustCmd() *cobra.Command {
	var note string
	var key string

	cmd := &cobra.Command{
		Use:   "adjust <child> <delta>",
		Short: "Manually credit or debit a child's points",
		Long: `Apply a manual point adjustment, e.g. a bonus or a correction.

Negative deltas that would take the balance below zero are rejected.
Pass --key to make a retried adjustment apply once.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("child and delta are required")
			}
			if _, err := strconv.Atoi(args[1]); err != nil {
				return errors.New("delta must be an integer")
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
			delta, _ := strconv.Atoi(args[1])

			res, err := a.svc.AdjustBalance(ctx, ledger.AdjustInput{ChildID: c.ID, Delta: delta, Note: note, AdjustKey: key})
			if err != nil {
				var short ledger.InsufficientBalanceError
				if errors.As(err, &short) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s balance is only %s, cannot deduct %d\n",
						ui.Warn.Render(ui.IconWarn), ui.Points(short.Balance), -delta)
					return nil
				}
				return err
			}

			verb := "Credited"
			if res.Delta < 0 {
				verb = "Debited"
			}
			if res.Replayed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Muted.Render("Already applied with this key."), ui.LabelValue("Balance", ui.Points(res.NewBalance)))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %+d %s\n", ui.Good.Render(verb), c.Name, res.Delta, ui.Muted.Render("points"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Balance", ui.Points(res.NewBalance)))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Why the adjustment was made")
	cmd.Flags().StringVar(&key, "key", "", "Idempotency key; retries with the same key apply once")

	return cmd
}
