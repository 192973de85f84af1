package handlers

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/reviewnag/internal/tui/state"
)

// HandleGlobalKeys handles global key presses
func HandleGlobalKeys(m *state.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.State == state.StateEditSettings {
		if msg.String() == "ctrl+c" {
			m.Quitting = true
			return true, tea.Quit
		}
		return false, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.Quitting = true
		return true, tea.Quit
	case "tab", "shift+tab":
		// Only two views, so both directions toggle
		switch m.State {
		case state.StateSettings:
			m.State = state.StateReminders
			m.RefreshReminders()
		case state.StateReminders:
			m.State = state.StateSettings
		}
		m.StatusMessage = ""
		return true, nil
	}
	return false, nil
}
