package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/tui"
)

// ErrNoTerminal is returned when an interactive view is requested without a
// terminal on stdout.
var ErrNoTerminal = errors.New("interactive mode needs a terminal (use --list or flags instead)")

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// RunTUI opens the reminders browser. With startInEditor the settings form is
// shown first.
func (c *Context) RunTUI(startInEditor bool) error {
	if !isTerminal() {
		return ErrNoTerminal
	}

	l := c.Ledger()
	model := tui.NewModel(tui.Options{
		Settings:    c.SettingsEditor(),
		ListEntries: func() []models.ScheduleEntry { return l.ListAll() },
		Acknowledge: func(tag string) error {
			_, err := c.Acknowledge(context.Background(), tag)
			return err
		},
		StartInEditor: startInEditor,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}
