// Package settings owns the user-tunable reminder policy: defaults merged
// under persisted overrides, loaded once and updated through explicit saves.
package settings

import (
	"fmt"
	"sync"

	"github.com/julianstephens/reviewnag/internal/logger"
	"github.com/julianstephens/reviewnag/internal/models"
)

// Backend is the slice of storage.Provider the settings store needs.
type Backend interface {
	GetSettings() (map[string]string, error)
	SaveSettings(map[string]string) error
}

type Store struct {
	backend Backend

	mu      sync.RWMutex
	current models.Settings
}

// New returns a store holding the defaults. Call Load to merge persisted
// overrides.
func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		current: models.DefaultSettings(),
	}
}

// Load merges persisted overrides over the defaults and caches the result.
// Read and parse failures are logged and yield the defaults.
func (s *Store) Load() models.Settings {
	loaded := models.DefaultSettings()

	data, err := s.backend.GetSettings()
	if err != nil {
		logger.Warn("Failed to read settings, using defaults", "error", err)
	} else if merged, err := models.MapToSettings(loaded, data); err != nil {
		logger.Warn("Failed to parse settings, using defaults", "error", err)
	} else if err := merged.Validate(); err != nil {
		logger.Warn("Persisted settings are invalid, using defaults", "error", err)
	} else {
		loaded = merged
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()

	return loaded.Clone()
}

// Current returns a copy of the cached settings.
func (s *Store) Current() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Save validates and persists every key, then replaces the cached value.
func (s *Store) Save(settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := s.backend.SaveSettings(models.SettingsToMap(settings)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.mu.Lock()
	s.current = settings.Clone()
	s.mu.Unlock()

	logger.Debug("Settings saved", "settings", settings)
	return nil
}

// Update applies fn to a copy of the current settings and persists the
// result. The cached value is untouched when validation or persistence fails.
func (s *Store) Update(fn func(*models.Settings)) (models.Settings, error) {
	next := s.Current()
	fn(&next)
	if err := s.Save(next); err != nil {
		return s.Current(), err
	}
	return next.Clone(), nil
}
