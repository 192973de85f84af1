package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/reviewnag/internal/models"
)

type EditSettingsMsg struct{}

type Model struct {
	settings models.Settings
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(25)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

func New(settings models.Settings, width, height int) Model {
	return Model{
		settings: settings,
		width:    width,
		height:   height,
	}
}

func (m *Model) SetSettings(settings models.Settings) {
	m.settings = settings
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return m, func() tea.Msg { return EditSettingsMsg{} }
		}
	}
	return m, nil
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(value))
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	s := m.settings
	var sections []string

	reminderTitle := titleStyle.Render("Reminders")
	reminderContent := lipgloss.JoinVertical(
		lipgloss.Left,
		row("Enabled:", fmt.Sprintf("%t", s.Enabled)),
		row("Aggressive Mode:", fmt.Sprintf("%t", s.AggressiveMode)),
		row("Intervals (min):", intervalsLabel(s.ReminderIntervals)),
		row("Sound:", fmt.Sprintf("%t", s.SoundEnabled)),
	)
	sections = append(sections, sectionStyle.Render(reminderTitle+"\n"+reminderContent))

	quietTitle := titleStyle.Render("Quiet Hours")
	quietContent := lipgloss.JoinVertical(
		lipgloss.Left,
		row("Window:", quietLabel(s)),
		row("Timezone:", s.Timezone),
	)
	sections = append(sections, sectionStyle.Render(quietTitle+"\n"+quietContent))

	// Help text
	helpText := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		MarginTop(2).
		Render("Press 'e' to edit settings")

	sections = append(sections, helpText)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(2, 4).Render(content),
	)
}

func intervalsLabel(intervals []int) string {
	if len(intervals) == 0 {
		return "30 (fallback)"
	}
	return models.FormatIntervals(intervals)
}

func quietLabel(s models.Settings) string {
	if s.QuietHoursStart == s.QuietHoursEnd {
		return "off"
	}
	return fmt.Sprintf("%02d:00 - %02d:00", s.QuietHoursStart, s.QuietHoursEnd)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
