package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/models"
)

// JSONStore keeps the two persistence namespaces as JSON documents in a
// directory: notificationSettings.json holds the camelCase settings blob and
// scheduledNotifications.json holds the ledger array.
type JSONStore struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

func NewJSONStore(fs afero.Fs, dir string) *JSONStore {
	return &JSONStore{
		fs:  fs,
		dir: dir,
	}
}

func (s *JSONStore) settingsPath() string {
	return filepath.Join(s.dir, constants.NamespaceSettings+".json")
}

func (s *JSONStore) entriesPath() string {
	return filepath.Join(s.dir, constants.NamespaceSchedules+".json")
}

func (s *JSONStore) Init() error {
	if err := s.fs.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seeds := map[string][]byte{
		s.settingsPath(): []byte("{}"),
		s.entriesPath():  []byte("[]"),
	}
	for path, seed := range seeds {
		exists, err := afero.Exists(s.fs, path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if exists {
			continue
		}
		if err := s.writeFile(path, seed); err != nil {
			return err
		}
	}
	return nil
}

func (s *JSONStore) Load() error {
	exists, err := afero.DirExists(s.fs, s.dir)
	if err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}
	if !exists {
		return fmt.Errorf("storage not initialized, run 'reviewnag init' first")
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.dir
}

// writeFile replaces path atomically through a temporary sibling.
func (s *JSONStore) writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (s *JSONStore) readFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (s *JSONStore) readBlob() (map[string]json.RawMessage, error) {
	data, err := s.readFile(s.settingsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	blob := make(map[string]json.RawMessage)
	if len(data) == 0 {
		return blob, nil
	}
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return blob, nil
}

func (s *JSONStore) GetSettings() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.readBlob()
	if err != nil {
		return nil, err
	}

	settings := make(map[string]string)
	for jsonKey, raw := range blob {
		key, ok := models.SettingJSONKeys[jsonKey]
		if !ok {
			continue
		}
		switch key {
		case constants.SettingReminderIntervals:
			var intervals []int
			if err := json.Unmarshal(raw, &intervals); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", jsonKey, err)
			}
			settings[key] = models.FormatIntervals(intervals)
		case constants.SettingTimezone:
			var tz string
			if err := json.Unmarshal(raw, &tz); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", jsonKey, err)
			}
			settings[key] = tz
		default:
			settings[key] = string(raw)
		}
	}
	return settings, nil
}

func (s *JSONStore) SaveSettings(settings map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.readBlob()
	if err != nil {
		// A corrupt blob is replaced rather than merged
		blob = make(map[string]json.RawMessage)
	}

	jsonKeys := make(map[string]string, len(models.SettingJSONKeys))
	for jsonKey, key := range models.SettingJSONKeys {
		jsonKeys[key] = jsonKey
	}

	for key, value := range settings {
		jsonKey, ok := jsonKeys[key]
		if !ok {
			continue
		}
		raw, err := encodeSetting(key, value)
		if err != nil {
			return err
		}
		blob[jsonKey] = raw
	}

	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.writeFile(s.settingsPath(), data)
}

func encodeSetting(key, value string) (json.RawMessage, error) {
	switch key {
	case constants.SettingReminderIntervals:
		intervals, err := models.ParseIntervals(value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		if intervals == nil {
			intervals = []int{}
		}
		return json.Marshal(intervals)
	case constants.SettingTimezone:
		return json.Marshal(value)
	case constants.SettingQuietHoursStart, constants.SettingQuietHoursEnd:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		return json.Marshal(n)
	default:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		return json.Marshal(b)
	}
}

func (s *JSONStore) readEntries() ([]models.ScheduleEntry, error) {
	data, err := s.readFile(s.entriesPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	var entries []models.ScheduleEntry
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse entries: %w", err)
	}
	return entries, nil
}

func (s *JSONStore) writeEntries(entries []models.ScheduleEntry) error {
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}
	return s.writeFile(s.entriesPath(), data)
}

// latestIndex returns the index of the most recently scheduled row for tag,
// preferring the later append on ties, or -1.
func latestIndex(entries []models.ScheduleEntry, tag string) int {
	idx := -1
	for i, e := range entries {
		if e.Tag != tag {
			continue
		}
		if idx == -1 || !e.ScheduledTime.Before(entries[idx].ScheduledTime) {
			idx = i
		}
	}
	return idx
}

func (s *JSONStore) AddEntry(entry models.ScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readEntries()
	if err != nil {
		return err
	}
	return s.writeEntries(append(entries, entry))
}

func (s *JSONStore) GetEntry(tag string) (models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readEntries()
	if err != nil {
		return models.ScheduleEntry{}, err
	}
	idx := latestIndex(entries, tag)
	if idx == -1 {
		return models.ScheduleEntry{}, ErrNotFound
	}
	return entries[idx], nil
}

func (s *JSONStore) GetAllEntries() ([]models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readEntries()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ScheduledTime.Before(entries[j].ScheduledTime)
	})
	return entries, nil
}

func (s *JSONStore) AcknowledgeEntry(tag string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readEntries()
	if err != nil {
		return err
	}
	idx := latestIndex(entries, tag)
	if idx == -1 {
		return ErrNotFound
	}

	entries[idx].Acknowledged = true
	if entries[idx].AcknowledgedAt == nil {
		ackAt := at
		entries[idx].AcknowledgedAt = &ackAt
	}
	return s.writeEntries(entries)
}
