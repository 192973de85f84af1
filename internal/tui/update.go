package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/reviewnag/internal/tui/components/reminders"
	"github.com/julianstephens/reviewnag/internal/tui/handlers"
	"github.com/julianstephens/reviewnag/internal/tui/state"
)

// acknowledgedMsg reports the outcome of an acknowledgement.
type acknowledgedMsg struct {
	tag string
	err error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.State == state.StateEditSettings {
		if msg, ok := msg.(tea.KeyMsg); ok {
			if handled, cmd := handlers.HandleGlobalKeys(m.Model, msg); handled {
				return m, cmd
			}
		}
		return m, handlers.HandleEditSettingsState(m.Model, msg)
	}

	if handled, cmd := handlers.HandleSettingsMessages(m.Model, msg); handled {
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Tabs and help take three lines
		m.SettingsModel.SetSize(msg.Width, msg.Height-3)
		m.RemindersModel.SetSize(msg.Width, msg.Height-3)
		return m, nil

	case reminders.AcknowledgeMsg:
		if m.Acknowledge == nil {
			m.StatusMessage = "Acknowledging is not available here"
			return m, nil
		}
		ack := m.Acknowledge
		return m, func() tea.Msg {
			return acknowledgedMsg{tag: msg.Tag, err: ack(msg.Tag)}
		}

	case acknowledgedMsg:
		if msg.err != nil {
			m.StatusMessage = fmt.Sprintf("Failed to acknowledge %s: %v", msg.tag, msg.err)
		} else {
			m.StatusMessage = fmt.Sprintf("Acknowledged %s", msg.tag)
		}
		m.RefreshReminders()
		return m, nil

	case reminders.RefreshMsg:
		m.RefreshReminders()
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := handlers.HandleGlobalKeys(m.Model, msg); handled {
			return m, cmd
		}
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.State {
	case state.StateSettings:
		m.SettingsModel, cmd = m.SettingsModel.Update(msg)
	case state.StateReminders:
		m.RemindersModel, cmd = m.RemindersModel.Update(msg)
	}
	return m, cmd
}
