package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vinlylog/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive link browser for the signed-in user.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	session, err := r.signIn(ctx, cmd)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, r.engine, session)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// tuiCommand returns the top-level TUI command for interactive link browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive link browser",
		Flags:   userFlags(),
		Action:  r.TUI,
	}
}
