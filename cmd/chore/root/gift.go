package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/ledger"
	"github.com/kamelfcis/childtodotasks/internal/ui"
)

func newGiftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gift",
		Short: "Manage the gift catalog",
	}
	cmd.AddCommand(newGiftAddCmd(), newGiftListCmd(), newGiftEditCmd(), newGiftRmCmd())
	return cmd
}

func newGiftAddCmd() *cobra.Command {
	var cost int
	var image string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a gift",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			g, err := a.svc.AddGift(ctx, ledger.AddGiftInput{Title: args[0], Cost: cost, ImageRef: image})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconPlus+" Added"), ui.IconGift+" "+g.Title, ui.Points(g.Cost), ui.Muted.Render(g.ID))
			return nil
		},
	}

	cmd.Flags().IntVarP(&cost, "cost", "c", 10, "Point cost")
	cmd.Flags().StringVar(&image, "image", "", "Image reference (path or URL)")

	return cmd
}

func newGiftListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gifts, cheapest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			gifts, err := a.svc.ListGifts(ctx)
			if err != nil {
				return err
			}
			if len(gifts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no gifts yet — `chore gift add <title> -c <cost>`)"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconGift, "Gift Shop"))
			for _, g := range gifts {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s\n", g.Title, ui.Points(g.Cost), ui.Muted.Render(g.ID))
			}
			return nil
		},
	}

	return cmd
}

func newGiftEditCmd() *cobra.Command {
	var title string
	var cost int

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a gift (past redemptions keep their cost)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
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

			g, err := a.svc.GetGift(ctx, args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = g.Title
			}
			if cost == 0 {
				cost = g.Cost
			}
			if err := a.svc.UpdateGift(ctx, g.ID, title, cost); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render("Updated"), title, ui.Points(cost))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().IntVarP(&cost, "cost", "c", 0, "New point cost")

	return cmd
}

func newGiftRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a gift (redemption history is kept)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
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

			if err := a.svc.RemoveGift(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Removed gift ")+ui.Muted.Render(args[0]))
			return nil
		},
	}

	return cmd
}
