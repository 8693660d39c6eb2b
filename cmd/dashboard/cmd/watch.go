package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"trip-dashboard/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"ui"},
	Short:   "Open the interactive dashboard",
	Long: `Open a full screen dashboard with editable start and end dates.

Keys:
    tab / shift+tab   move between the date inputs and the trips table
    enter, ctrl+r     refresh with the entered dates
    ?                 toggle help
    q, ctrl+c         quit

Diagnostics are written to --log-file when set and discarded otherwise.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("watch needs an interactive terminal, use show instead")
	}

	// Anything written to stderr would corrupt the alt screen
	s, err := newSession(io.Discard)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	model := tui.New(ctx, s.client, s.logger, dateRange(), s.cfg.NoColor)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard UI failed: %w", err)
	}
	return nil
}
