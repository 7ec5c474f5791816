package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/ledger"
	"github.com/kamelfcis/childtodotasks/internal/ui"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the task catalog",
	}
	cmd.AddCommand(newTaskAddCmd(), newTaskListCmd(), newTaskEditCmd(), newTaskRmCmd(), newTaskReorderCmd())
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var points int
	var icon string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task template",
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

			t, err := a.svc.AddTaskTemplate(ctx, ledger.AddTaskTemplateInput{Title: args[0], Icon: icon, Points: points})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconPlus+" Added"), t.Icon, t.Title, ui.Muted.Render(fmt.Sprintf("(+%d, %s)", t.Points, t.ID)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&points, "points", "p", 5, "Points awarded on completion")
	cmd.Flags().StringVarP(&icon, "icon", "i", "", "Emoji icon")

	return cmd
}

func newTaskListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List task templates in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			templates, err := a.svc.ListTaskTemplates(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconScroll, "Task Catalog"))
			for _, t := range templates {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s %s\n", t.Icon, t.Title, ui.Points(t.Points), ui.Muted.Render(t.ID))
			}
			return nil
		},
	}

	return cmd
}

func newTaskEditCmd() *cobra.Command {
	var title string
	var points int
	var icon string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task template (past days keep their snapshot)",
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

			t, err := a.svc.GetTemplate(ctx, args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = t.Title
			}
			if points == 0 {
				points = t.Points
			}
			if icon == "" {
				icon = t.Icon
			}
			if err := a.svc.UpdateTaskTemplate(ctx, t.ID, title, icon, points); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render("Updated"), icon, title, ui.Muted.Render(fmt.Sprintf("(+%d)", points)))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().IntVarP(&points, "points", "p", 0, "New point value")
	cmd.Flags().StringVarP(&icon, "icon", "i", "", "New emoji icon")

	return cmd
}

func newTaskRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task template (past instances are kept)",
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

			if err := a.svc.RemoveTaskTemplate(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Removed template ")+ui.Muted.Render(args[0]))
			return nil
		},
	}

	return cmd
}

func newTaskReorderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reorder <id> [<id>...]",
		Short: "Reorder the task catalog (all ids, new order)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("at least one id is required")
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

			if err := a.svc.ReorderTaskTemplates(ctx, args); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Reordered."))
			return nil
		},
	}

	return cmd
}
