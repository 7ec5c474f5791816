package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/ledger"
	"github.com/kamelfcis/childtodotasks/internal/ui"
)

func newChildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "child",
		Short: "Manage children",
	}
	cmd.AddCommand(newChildAddCmd(), newChildListCmd(), newChildRmCmd())
	return cmd
}

func newChildAddCmd() *cobra.Command {
	var avatar string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a child",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
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

			c, err := a.svc.AddChild(ctx, ledger.AddChildInput{Name: args[0], Avatar: avatar})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconPlus+" Added"), ui.IconChild+" "+c.Name, ui.Muted.Render(c.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar reference (path or URL)")

	return cmd
}

func newChildListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List children and balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			children, err := a.svc.ListChildren(ctx)
			if err != nil {
				return err
			}
			if len(children) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no children yet — `chore child add <name>`)"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconChild, "Children"))
			for _, c := range children {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s\n", c.Name, ui.Points(c.Balance), ui.Muted.Render(c.ID))
			}
			return nil
		},
	}

	return cmd
}

func newChildRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <child>",
		Short: "Remove a child",
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
			if err := a.svc.RemoveChild(ctx, c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render("Removed"), c.Name)
			return nil
		},
	}

	return cmd
}
