package handlers

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/tui/components/settings"
	"github.com/julianstephens/reviewnag/internal/tui/state"
	"github.com/julianstephens/reviewnag/internal/utils"
)

// HandleEditSettingsState handles the edit settings state
func HandleEditSettingsState(m *state.Model, msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.FormError = "" // Clear error on cancel
		m.State = state.StateSettings
		return nil
	}

	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	cmds = append(cmds, cmd)

	switch m.Form.State {
	case huh.StateCompleted:
		newSettings, err := FormToSettings(m.SettingsForm, m.Settings.Current())
		if err == nil {
			newSettings, err = m.Settings.Update(func(s *models.Settings) { *s = newSettings })
		}
		if err != nil {
			// Store error and stay in form state to allow retry
			m.FormError = "Failed to update settings: " + err.Error()
			m.Form.State = huh.StateNormal
			return tea.Batch(cmds...)
		}
		m.SettingsModel.SetSettings(newSettings)
		m.FormError = "" // Clear any previous errors
		m.StatusMessage = "Settings saved"
		m.State = state.StateSettings
	case huh.StateAborted:
		m.FormError = "" // Clear error on abort
		m.State = state.StateSettings
	}
	return tea.Batch(cmds...)
}

// HandleSettingsMessages handles messages from the settings component
func HandleSettingsMessages(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	switch msg.(type) {
	case settings.EditSettingsMsg:
		m.FormError = ""
		m.SettingsForm = SettingsToForm(m.Settings.Current())
		m.Form = NewSettingsForm(m.SettingsForm)
		m.State = state.StateEditSettings
		return true, m.Form.Init()
	}
	return false, nil
}

// SettingsToForm converts settings into raw form values.
func SettingsToForm(s models.Settings) *state.SettingsFormModel {
	return &state.SettingsFormModel{
		Enabled:           s.Enabled,
		AggressiveMode:    s.AggressiveMode,
		ReminderIntervals: models.FormatIntervals(s.ReminderIntervals),
		QuietHoursStart:   strconv.Itoa(s.QuietHoursStart),
		QuietHoursEnd:     strconv.Itoa(s.QuietHoursEnd),
		SoundEnabled:      s.SoundEnabled,
		Timezone:          s.Timezone,
	}
}

// FormToSettings parses form values over base and validates the result.
func FormToSettings(fm *state.SettingsFormModel, base models.Settings) (models.Settings, error) {
	s := base.Clone()
	s.Enabled = fm.Enabled
	s.AggressiveMode = fm.AggressiveMode
	s.SoundEnabled = fm.SoundEnabled
	s.Timezone = strings.TrimSpace(fm.Timezone)

	intervals, err := models.ParseIntervals(fm.ReminderIntervals)
	if err != nil {
		return base, err
	}
	s.ReminderIntervals = intervals

	if s.QuietHoursStart, err = parseHour(fm.QuietHoursStart); err != nil {
		return base, fmt.Errorf("quiet hours start: %w", err)
	}
	if s.QuietHoursEnd, err = parseHour(fm.QuietHoursEnd); err != nil {
		return base, fmt.Errorf("quiet hours end: %w", err)
	}
	if !utils.ValidateTimezone(s.Timezone) {
		return base, fmt.Errorf("invalid timezone %q", s.Timezone)
	}
	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}

func parseHour(s string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("must be between 0 and 23")
	}
	return h, nil
}

func NewSettingsForm(fm *state.SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reminders Enabled").
				Value(&fm.Enabled),
			huh.NewConfirm().
				Title("Aggressive Mode").
				Description("Keep re-notifying until the review is done").
				Value(&fm.AggressiveMode),
			huh.NewInput().
				Title("Reminder Intervals (minutes)").
				Description("Comma-separated, e.g. 0,15,30,60. The last value repeats.").
				Value(&fm.ReminderIntervals).
				Validate(func(s string) error {
					_, err := models.ParseIntervals(s)
					return err
				}),
			huh.NewConfirm().
				Title("Sound").
				Value(&fm.SoundEnabled),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Quiet Hours Start (0-23)").
				Value(&fm.QuietHoursStart).
				Validate(func(s string) error {
					_, err := parseHour(s)
					return err
				}),
			huh.NewInput().
				Title("Quiet Hours End (0-23)").
				Description("Equal start and end disables quiet hours").
				Value(&fm.QuietHoursEnd).
				Validate(func(s string) error {
					_, err := parseHour(s)
					return err
				}),
			huh.NewInput().
				Title("Timezone (IANA name or 'Local')").
				Description("Examples: Local, UTC, America/New_York, Europe/London, Asia/Tokyo").
				Value(&fm.Timezone).
				Validate(func(s string) error {
					if !utils.ValidateTimezone(s) {
						return fmt.Errorf("invalid timezone name")
					}
					return nil
				}),
		),
	)
}
