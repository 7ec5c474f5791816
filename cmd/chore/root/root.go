package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamelfcis/childtodotasks/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "chore",
	Short:         "ChoreChart — family chores, points and gifts",
	Long:          "ChoreChart is a local-first family chore tracker: parents define tasks and gifts, children complete daily checklists for points and redeem them for gifts.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newChildCmd(),
		newTaskCmd(),
		newGiftCmd(),
		newTodayCmd(),
		newDoneCmd(),
		newRedeemCmd(),
		newHistoryCmd(),
		newAdjustCmd(),
		newAuditCmd(),
		newBoardCmd(),
		newWatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
