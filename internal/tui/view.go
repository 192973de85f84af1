package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/reviewnag/internal/tui/state"
)

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var content string
	switch m.State {
	case state.StateSettings:
		content = m.SettingsModel.View()
	case state.StateReminders:
		content = m.RemindersModel.View()
	case state.StateEditSettings:
		content = m.Form.View()
		if m.FormError != "" {
			content = lipgloss.JoinVertical(lipgloss.Left, content, dangerStyle.Render(m.FormError))
		}
	}

	var status string
	if m.StatusMessage != "" {
		status = warningStyle.Render(m.StatusMessage)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Settings", "Reminders"}
	for i, title := range tabTitles {
		active := m.State == state.SessionState(i) ||
			(m.State == state.StateEditSettings && i == int(state.StateSettings))
		if active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
