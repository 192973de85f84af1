// Package tui is the interactive settings editor and reminder browser.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/tui/components/reminders"
	"github.com/julianstephens/reviewnag/internal/tui/components/settings"
	"github.com/julianstephens/reviewnag/internal/tui/state"
)

type KeyMap struct {
	Tab  key.Binding
	Edit key.Binding
	Help key.Binding
	Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch view"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type Options struct {
	Settings    state.SettingsStore
	ListEntries func() []models.ScheduleEntry
	Acknowledge func(tag string) error
	// StartInEditor opens the settings form immediately.
	StartInEditor bool
}

type Model struct {
	*state.Model
	keys          KeyMap
	help          help.Model
	startInEditor bool
}

func NewModel(opts Options) Model {
	var entries []models.ScheduleEntry
	if opts.ListEntries != nil {
		entries = opts.ListEntries()
	}

	return Model{
		Model: &state.Model{
			Settings:       opts.Settings,
			ListEntries:    opts.ListEntries,
			Acknowledge:    opts.Acknowledge,
			State:          state.StateSettings,
			SettingsModel:  settings.New(opts.Settings.Current(), 0, 0),
			RemindersModel: reminders.New(entries, 0, 0),
		},
		keys:          DefaultKeyMap(),
		help:          help.New(),
		startInEditor: opts.StartInEditor,
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Edit, m.keys.Help, m.keys.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.Edit},
		{m.keys.Help, m.keys.Quit},
	}
}

func (m Model) Init() tea.Cmd {
	if m.startInEditor {
		return func() tea.Msg { return settings.EditSettingsMsg{} }
	}
	return nil
}
