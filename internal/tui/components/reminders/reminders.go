package reminders

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/reviewnag/internal/models"
)

// AcknowledgeMsg asks the root model to acknowledge a reminder.
type AcknowledgeMsg struct {
	Tag string
}

// RefreshMsg asks the root model to reload the list.
type RefreshMsg struct{}

type Item struct {
	Entry models.ScheduleEntry
	now   time.Time
}

func (i Item) Title() string { return i.Entry.Title }

func (i Item) Description() string {
	return fmt.Sprintf("%s · %s · %s",
		i.Entry.Tag,
		i.Entry.FormatStatus(i.now),
		i.Entry.ScheduledTime.Local().Format("Jan 2 15:04"),
	)
}

func (i Item) FilterValue() string { return i.Entry.Tag + " " + i.Entry.Title }

type KeyMap struct {
	Acknowledge key.Binding
	Refresh     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Acknowledge: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "acknowledge"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(entries []models.ScheduleEntry, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Reminders"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Acknowledge, keys.Refresh}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Acknowledge, keys.Refresh}
	}

	m := Model{
		list: l,
		keys: keys,
	}
	m.SetEntries(entries)
	return m
}

// SetEntries shows entries newest first.
func (m *Model) SetEntries(entries []models.ScheduleEntry) {
	now := time.Now()
	items := make([]list.Item, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		items = append(items, Item{Entry: entries[i], now: now})
	}
	m.list.SetItems(items)
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Selected() (models.ScheduleEntry, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.ScheduleEntry{}, false
	}
	return item.Entry, true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Acknowledge):
			if entry, ok := m.Selected(); ok && !entry.Acknowledged {
				return m, func() tea.Msg { return AcknowledgeMsg{Tag: entry.Tag} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, func() tea.Msg { return RefreshMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
