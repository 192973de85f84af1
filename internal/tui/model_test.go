package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/tui/components/reminders"
	"github.com/julianstephens/reviewnag/internal/tui/components/settings"
	"github.com/julianstephens/reviewnag/internal/tui/state"
)

type memStore struct {
	current models.Settings
}

func (s *memStore) Current() models.Settings { return s.current.Clone() }

func (s *memStore) Update(fn func(*models.Settings)) (models.Settings, error) {
	fn(&s.current)
	return s.current.Clone(), nil
}

func sampleEntries() []models.ScheduleEntry {
	at := time.Date(2026, 1, 5, 10, 20, 0, 0, time.UTC)
	return []models.ScheduleEntry{
		{Tag: "review-42-20", Title: "📚 kanji review", ScheduledTime: at},
		{Tag: "today-7", Title: "📖 Time to review \"verbs\"", ScheduledTime: at},
	}
}

func TestNewModel(t *testing.T) {
	m := NewModel(Options{
		Settings:    &memStore{current: models.DefaultSettings()},
		ListEntries: sampleEntries,
	})

	if m.State != state.StateSettings {
		t.Errorf("expected settings view first, got %v", m.State)
	}
	if m.RemindersModel.Len() != 2 {
		t.Errorf("expected 2 reminders, got %d", m.RemindersModel.Len())
	}
	if m.Init() != nil {
		t.Error("expected no startup command")
	}

	editor := NewModel(Options{Settings: &memStore{current: models.DefaultSettings()}, StartInEditor: true})
	cmd := editor.Init()
	if cmd == nil {
		t.Fatal("expected editor to open on start")
	}
	if _, ok := cmd().(settings.EditSettingsMsg); !ok {
		t.Error("expected EditSettingsMsg")
	}
}

func TestUpdate_AcknowledgeFlow(t *testing.T) {
	var acked []string
	m := NewModel(Options{
		Settings:    &memStore{current: models.DefaultSettings()},
		ListEntries: sampleEntries,
		Acknowledge: func(tag string) error {
			acked = append(acked, tag)
			if tag == "today-7" {
				return errors.New("daemon unreachable")
			}
			return nil
		},
	})

	next, cmd := m.Update(reminders.AcknowledgeMsg{Tag: "review-42-20"})
	if cmd == nil {
		t.Fatal("expected acknowledge command")
	}
	next, _ = next.(Model).Update(cmd())
	got := next.(Model)
	if len(acked) != 1 || acked[0] != "review-42-20" {
		t.Errorf("unexpected acknowledgements %v", acked)
	}
	if !strings.Contains(got.StatusMessage, "Acknowledged review-42-20") {
		t.Errorf("unexpected status %q", got.StatusMessage)
	}

	next, cmd = got.Update(reminders.AcknowledgeMsg{Tag: "today-7"})
	next, _ = next.(Model).Update(cmd())
	if !strings.Contains(next.(Model).StatusMessage, "Failed") {
		t.Errorf("expected failure status, got %q", next.(Model).StatusMessage)
	}
}

func TestUpdate_AcknowledgeWithoutDaemon(t *testing.T) {
	m := NewModel(Options{Settings: &memStore{current: models.DefaultSettings()}})

	next, cmd := m.Update(reminders.AcknowledgeMsg{Tag: "review-42-20"})
	if cmd != nil {
		t.Error("expected no command without an acknowledger")
	}
	if next.(Model).StatusMessage == "" {
		t.Error("expected status explaining the daemon is required")
	}
}

func TestView(t *testing.T) {
	m := NewModel(Options{Settings: &memStore{current: models.DefaultSettings()}})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := next.(Model).View()
	for _, want := range []string{"Settings", "Reminders", "Aggressive Mode", "23:00 - 07:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}
