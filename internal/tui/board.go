package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamelfcis/childtodotasks/internal/ledger"
)

// RunBoard opens the interactive checklist for one child.
func RunBoard(ctx context.Context, svc *ledger.Service, childID string, day ledger.Day, out io.Writer) error {
	m := newBoardModel(ctx, svc, childID, day)
	p := tea.NewProgram(m, tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}
