package storage_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/storage"
	"github.com/julianstephens/reviewnag/internal/storage/sqlite"
)

func providers(t *testing.T) map[string]storage.Provider {
	t.Helper()
	return map[string]storage.Provider{
		"sqlite": sqlite.NewStore(filepath.Join(t.TempDir(), "reviewnag.db")),
		"json":   storage.NewJSONStore(afero.NewMemMapFs(), "/config/reviewnag"),
	}
}

func newEntry(tag string, scheduled time.Time) models.ScheduleEntry {
	return models.ScheduleEntry{
		ID:            uuid.NewString(),
		Tag:           tag,
		Title:         "Review: kanji",
		Body:          "first review window",
		ItemID:        "42",
		ScheduledTime: scheduled,
		CreatedAt:     scheduled.Add(-20 * time.Minute),
	}
}

func TestProvider_Settings(t *testing.T) {
	for name, store := range providers(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(); err != nil {
				t.Fatalf("Init() failed: %v", err)
			}
			defer store.Close()

			settings, err := store.GetSettings()
			if err != nil {
				t.Fatalf("GetSettings() failed: %v", err)
			}
			if len(settings) != 0 {
				t.Errorf("fresh store has settings: %v", settings)
			}

			want := models.SettingsToMap(models.Settings{
				Enabled:           true,
				AggressiveMode:    false,
				ReminderIntervals: []int{5, 10},
				QuietHoursStart:   22,
				QuietHoursEnd:     6,
				SoundEnabled:      false,
				Timezone:          "Asia/Tokyo",
			})
			if err := store.SaveSettings(want); err != nil {
				t.Fatalf("SaveSettings() failed: %v", err)
			}

			got, err := store.GetSettings()
			if err != nil {
				t.Fatalf("GetSettings() failed: %v", err)
			}
			for key, value := range want {
				if got[key] != value {
					t.Errorf("setting %s = %q, want %q", key, got[key], value)
				}
			}

			// Partial saves keep other keys
			if err := store.SaveSettings(map[string]string{constants.SettingQuietHoursEnd: "8"}); err != nil {
				t.Fatalf("SaveSettings() failed: %v", err)
			}
			got, _ = store.GetSettings()
			if got[constants.SettingQuietHoursEnd] != "8" || got[constants.SettingTimezone] != "Asia/Tokyo" {
				t.Errorf("partial save lost keys: %v", got)
			}
		})
	}
}

func TestProvider_Entries(t *testing.T) {
	base := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	for name, store := range providers(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(); err != nil {
				t.Fatalf("Init() failed: %v", err)
			}
			defer store.Close()

			if _, err := store.GetEntry("review-42-20"); !errors.Is(err, storage.ErrNotFound) {
				t.Fatalf("GetEntry() on empty store error = %v, want ErrNotFound", err)
			}

			first := newEntry("today-42", base)
			second := newEntry("today-42", base.Add(24*time.Hour))
			other := newEntry("review-42-20", base.Add(20*time.Minute))
			for _, e := range []models.ScheduleEntry{second, first, other} {
				if err := store.AddEntry(e); err != nil {
					t.Fatalf("AddEntry() failed: %v", err)
				}
			}

			got, err := store.GetEntry("today-42")
			if err != nil {
				t.Fatalf("GetEntry() failed: %v", err)
			}
			if got.ID != second.ID {
				t.Errorf("GetEntry() returned row %s, want latest %s", got.ID, second.ID)
			}
			if !got.ScheduledTime.Equal(second.ScheduledTime) {
				t.Errorf("ScheduledTime = %v, want %v", got.ScheduledTime, second.ScheduledTime)
			}

			all, err := store.GetAllEntries()
			if err != nil {
				t.Fatalf("GetAllEntries() failed: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("GetAllEntries() returned %d rows, want 3", len(all))
			}
			if all[0].ID != first.ID || all[2].ID != second.ID {
				t.Errorf("GetAllEntries() not ordered by scheduled time: %v", all)
			}

			ackAt := base.Add(25 * time.Hour)
			if err := store.AcknowledgeEntry("today-42", ackAt); err != nil {
				t.Fatalf("AcknowledgeEntry() failed: %v", err)
			}
			// A second acknowledgement keeps the first timestamp
			if err := store.AcknowledgeEntry("today-42", ackAt.Add(time.Hour)); err != nil {
				t.Fatalf("AcknowledgeEntry() second call failed: %v", err)
			}

			got, _ = store.GetEntry("today-42")
			if !got.Acknowledged || got.AcknowledgedAt == nil || !got.AcknowledgedAt.Equal(ackAt) {
				t.Errorf("acknowledged entry = %+v, want acknowledged at %v", got, ackAt)
			}

			all, _ = store.GetAllEntries()
			if all[0].Acknowledged {
				t.Error("older occurrence of the tag must stay unacknowledged")
			}

			if err := store.AcknowledgeEntry("review-99-20", ackAt); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("AcknowledgeEntry(missing) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestProvider_AddEntryValidates(t *testing.T) {
	for name, store := range providers(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(); err != nil {
				t.Fatalf("Init() failed: %v", err)
			}
			defer store.Close()

			if err := store.AddEntry(models.ScheduleEntry{Title: "no tag"}); err == nil {
				t.Error("AddEntry() accepted an invalid entry")
			}
		})
	}
}

func TestJSONStore_LoadRequiresInit(t *testing.T) {
	store := storage.NewJSONStore(afero.NewMemMapFs(), "/missing")
	if err := store.Load(); err == nil {
		t.Error("Load() on an uninitialized directory should fail")
	}
}

func TestJSONStore_ReadsCamelCaseBlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	blob := `{"enabled":false,"aggressiveMode":true,"reminderIntervals":[0,5],"quietHoursStart":21,"unknown":1}`
	if err := afero.WriteFile(fs, "/cfg/notificationSettings.json", []byte(blob), 0600); err != nil {
		t.Fatal(err)
	}

	store := storage.NewJSONStore(fs, "/cfg")
	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}

	got, err := models.MapToSettings(models.DefaultSettings(), settings)
	if err != nil {
		t.Fatalf("MapToSettings() failed: %v", err)
	}
	if got.Enabled || !got.AggressiveMode || got.QuietHoursStart != 21 || got.QuietHoursEnd != 7 {
		t.Errorf("unexpected settings: %+v", got)
	}
	if len(got.ReminderIntervals) != 2 || got.ReminderIntervals[1] != 5 {
		t.Errorf("unexpected intervals: %v", got.ReminderIntervals)
	}
}

func TestJSONStore_CorruptLedger(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := storage.NewJSONStore(fs, "/cfg")
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/cfg/scheduledNotifications.json", []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.GetAllEntries(); err == nil {
		t.Error("GetAllEntries() should report a corrupt ledger")
	}
}
