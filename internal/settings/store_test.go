package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/models"
)

type memBackend struct {
	data    map[string]string
	readErr error
	saveErr error
	saves   int
}

func (m *memBackend) GetSettings() (map[string]string, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.data, nil
}

func (m *memBackend) SaveSettings(data map[string]string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	if m.data == nil {
		m.data = make(map[string]string)
	}
	for k, v := range data {
		m.data[k] = v
	}
	return nil
}

func TestLoad_MergesOverridesOverDefaults(t *testing.T) {
	backend := &memBackend{data: map[string]string{
		constants.SettingAggressiveMode: "false",
		constants.SettingQuietHoursEnd:  "6",
	}}
	store := New(backend)

	got := store.Load()

	want := models.DefaultSettings()
	want.AggressiveMode = false
	want.QuietHoursEnd = 6
	assert.Equal(t, want, got)
	assert.Equal(t, want, store.Current())
}

func TestLoad_FailuresYieldDefaults(t *testing.T) {
	tests := []struct {
		name    string
		backend *memBackend
	}{
		{"read error", &memBackend{readErr: errors.New("disk gone")}},
		{"parse error", &memBackend{data: map[string]string{constants.SettingEnabled: "perhaps"}}},
		{"invalid value", &memBackend{data: map[string]string{constants.SettingQuietHoursStart: "42"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := New(tt.backend)
			assert.Equal(t, models.DefaultSettings(), store.Load())
		})
	}
}

func TestUpdate_PersistsSynchronously(t *testing.T) {
	backend := &memBackend{}
	store := New(backend)
	store.Load()

	updated, err := store.Update(func(s *models.Settings) {
		s.ReminderIntervals = []int{1, 2}
		s.SoundEnabled = false
	})
	require.NoError(t, err)

	assert.Equal(t, 1, backend.saves)
	assert.Equal(t, "1,2", backend.data[constants.SettingReminderIntervals])
	assert.Equal(t, "false", backend.data[constants.SettingSoundEnabled])
	assert.Equal(t, updated, store.Current())

	// A fresh store over the same backend sees the change
	assert.Equal(t, updated, New(backend).Load())
}

func TestUpdate_RejectsInvalidSettings(t *testing.T) {
	backend := &memBackend{}
	store := New(backend)

	_, err := store.Update(func(s *models.Settings) { s.QuietHoursEnd = 24 })
	require.Error(t, err)
	assert.Zero(t, backend.saves)
	assert.Equal(t, models.DefaultSettings(), store.Current())
}

func TestUpdate_SaveFailureKeepsCache(t *testing.T) {
	backend := &memBackend{saveErr: errors.New("read-only")}
	store := New(backend)

	_, err := store.Update(func(s *models.Settings) { s.Enabled = false })
	require.Error(t, err)
	assert.True(t, store.Current().Enabled)
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	store := New(&memBackend{})
	s := store.Current()
	s.ReminderIntervals[0] = 99
	assert.Equal(t, 0, store.Current().ReminderIntervals[0])
}
