package handlers

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/tui/components/settings"
	"github.com/julianstephens/reviewnag/internal/tui/state"
)

type memStore struct {
	current models.Settings
}

func (s *memStore) Current() models.Settings { return s.current.Clone() }

func (s *memStore) Update(fn func(*models.Settings)) (models.Settings, error) {
	next := s.current.Clone()
	fn(&next)
	if err := next.Validate(); err != nil {
		return s.current, err
	}
	s.current = next
	return next.Clone(), nil
}

func TestSettingsFormRoundTrip(t *testing.T) {
	base := models.DefaultSettings()
	base.Timezone = "UTC"

	fm := SettingsToForm(base)
	if fm.ReminderIntervals != "0,15,30,60" {
		t.Errorf("expected intervals 0,15,30,60, got %q", fm.ReminderIntervals)
	}
	if fm.QuietHoursStart != "23" || fm.QuietHoursEnd != "7" {
		t.Errorf("unexpected quiet hours %q-%q", fm.QuietHoursStart, fm.QuietHoursEnd)
	}

	got, err := FormToSettings(fm, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, base) {
		t.Errorf("round trip changed settings: got %+v, want %+v", got, base)
	}
}

func TestFormToSettings(t *testing.T) {
	base := models.DefaultSettings()

	tests := []struct {
		name    string
		edit    func(*state.SettingsFormModel)
		wantErr bool
		check   func(t *testing.T, s models.Settings)
	}{
		{
			name: "custom intervals",
			edit: func(fm *state.SettingsFormModel) { fm.ReminderIntervals = " 5, 10 ,20" },
			check: func(t *testing.T, s models.Settings) {
				if !reflect.DeepEqual(s.ReminderIntervals, []int{5, 10, 20}) {
					t.Errorf("got intervals %v", s.ReminderIntervals)
				}
			},
		},
		{
			name: "empty intervals fall back at runtime",
			edit: func(fm *state.SettingsFormModel) { fm.ReminderIntervals = "" },
			check: func(t *testing.T, s models.Settings) {
				if len(s.ReminderIntervals) != 0 {
					t.Errorf("expected no intervals, got %v", s.ReminderIntervals)
				}
				if s.NextIntervalMin(0) != 30 {
					t.Errorf("expected fallback 30, got %d", s.NextIntervalMin(0))
				}
			},
		},
		{
			name: "toggles",
			edit: func(fm *state.SettingsFormModel) {
				fm.AggressiveMode = false
				fm.SoundEnabled = false
			},
			check: func(t *testing.T, s models.Settings) {
				if s.AggressiveMode || s.SoundEnabled {
					t.Errorf("toggles not applied: %+v", s)
				}
			},
		},
		{name: "negative interval", edit: func(fm *state.SettingsFormModel) { fm.ReminderIntervals = "5,-1" }, wantErr: true},
		{name: "hour out of range", edit: func(fm *state.SettingsFormModel) { fm.QuietHoursStart = "24" }, wantErr: true},
		{name: "hour not a number", edit: func(fm *state.SettingsFormModel) { fm.QuietHoursEnd = "seven" }, wantErr: true},
		{name: "bad timezone", edit: func(fm *state.SettingsFormModel) { fm.Timezone = "Mars/Olympus" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := SettingsToForm(base)
			tt.edit(fm)
			got, err := FormToSettings(fm, base)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestHandleSettingsMessages_OpensForm(t *testing.T) {
	m := &state.Model{
		Settings: &memStore{current: models.DefaultSettings()},
		State:    state.StateSettings,
	}

	handled, _ := HandleSettingsMessages(m, settings.EditSettingsMsg{})
	if !handled {
		t.Fatal("expected EditSettingsMsg to be handled")
	}
	if m.State != state.StateEditSettings {
		t.Errorf("expected edit state, got %v", m.State)
	}
	if m.Form == nil || m.SettingsForm == nil {
		t.Fatal("expected form to be initialized")
	}

	HandleEditSettingsState(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.State != state.StateSettings {
		t.Errorf("expected esc to return to settings, got %v", m.State)
	}
}

func TestHandleGlobalKeys(t *testing.T) {
	m := &state.Model{State: state.StateSettings}

	handled, _ := HandleGlobalKeys(m, tea.KeyMsg{Type: tea.KeyTab})
	if !handled || m.State != state.StateReminders {
		t.Errorf("expected tab to switch to reminders, got %v", m.State)
	}
	HandleGlobalKeys(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.State != state.StateSettings {
		t.Errorf("expected shift+tab to switch back, got %v", m.State)
	}

	m.State = state.StateEditSettings
	handled, _ = HandleGlobalKeys(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if handled || m.Quitting {
		t.Error("q must be typed into the form while editing")
	}

	m.State = state.StateSettings
	handled, cmd := HandleGlobalKeys(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !handled || !m.Quitting || cmd == nil {
		t.Error("expected q to quit outside the editor")
	}
}
