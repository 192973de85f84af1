// Package state holds the TUI model shared by the root model and the
// handlers.
package state

import (
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/tui/components/reminders"
	"github.com/julianstephens/reviewnag/internal/tui/components/settings"
)

type SessionState int

const (
	StateSettings SessionState = iota
	StateReminders
	StateEditSettings
)

// SettingsStore is the slice of settings.Store the TUI needs.
type SettingsStore interface {
	Current() models.Settings
	Update(fn func(*models.Settings)) (models.Settings, error)
}

// SettingsFormModel holds the raw form values while editing.
type SettingsFormModel struct {
	Enabled           bool
	AggressiveMode    bool
	ReminderIntervals string
	QuietHoursStart   string
	QuietHoursEnd     string
	SoundEnabled      bool
	Timezone          string
}

type Model struct {
	Settings SettingsStore
	// ListEntries reloads the reminders tab.
	ListEntries func() []models.ScheduleEntry
	// Acknowledge is called for the selected reminder; nil disables the key.
	Acknowledge func(tag string) error

	State          SessionState
	SettingsModel  settings.Model
	RemindersModel reminders.Model
	Form           *huh.Form
	SettingsForm   *SettingsFormModel
	FormError      string
	StatusMessage  string
	Quitting       bool
	Width          int
	Height         int
}

// RefreshReminders reloads the reminders list.
func (m *Model) RefreshReminders() {
	if m.ListEntries == nil {
		return
	}
	m.RemindersModel.SetEntries(m.ListEntries())
}
