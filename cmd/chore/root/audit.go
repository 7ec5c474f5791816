package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/ui"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <child>",
		Short: "Check a child's balance against the ledger rows",
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
			stored, computed, err := a.svc.AuditBalance(ctx, c.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconInfo, c.Name))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Stored balance", stored))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Ledger balance", computed))
			if stored == computed {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Consistent."))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Bad.Render(fmt.Sprintf("Mismatch of %d points!", stored-computed)))
			}
			return nil
		},
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("child id or name is required")
			}
			return nil
		},
	}

	return cmd
}
