package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/reviewnag/internal/constants"
)

// SettingJSONKeys maps the camelCase names of the persisted settings blob to
// setting keys.
var SettingJSONKeys = map[string]string{
	"enabled":           constants.SettingEnabled,
	"aggressiveMode":    constants.SettingAggressiveMode,
	"reminderIntervals": constants.SettingReminderIntervals,
	"quietHoursStart":   constants.SettingQuietHoursStart,
	"quietHoursEnd":     constants.SettingQuietHoursEnd,
	"soundEnabled":      constants.SettingSoundEnabled,
	"timezone":          constants.SettingTimezone,
}

// MapToSettings overlays a map of key-value pairs on base. Keys missing from
// data keep the value from base; unknown keys are ignored.
func MapToSettings(base Settings, data map[string]string) (Settings, error) {
	settings := base.Clone()

	for key, value := range data {
		switch key {
		case constants.SettingEnabled:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing enabled: %w", err)
			}
			settings.Enabled = b
		case constants.SettingAggressiveMode:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing aggressive_mode: %w", err)
			}
			settings.AggressiveMode = b
		case constants.SettingReminderIntervals:
			intervals, err := ParseIntervals(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing reminder_intervals: %w", err)
			}
			settings.ReminderIntervals = intervals
		case constants.SettingQuietHoursStart:
			if _, err := fmt.Sscanf(value, "%d", &settings.QuietHoursStart); err != nil {
				return Settings{}, fmt.Errorf("parsing quiet_hours_start: %w", err)
			}
		case constants.SettingQuietHoursEnd:
			if _, err := fmt.Sscanf(value, "%d", &settings.QuietHoursEnd); err != nil {
				return Settings{}, fmt.Errorf("parsing quiet_hours_end: %w", err)
			}
		case constants.SettingSoundEnabled:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing sound_enabled: %w", err)
			}
			settings.SoundEnabled = b
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingEnabled:           strconv.FormatBool(settings.Enabled),
		constants.SettingAggressiveMode:    strconv.FormatBool(settings.AggressiveMode),
		constants.SettingReminderIntervals: FormatIntervals(settings.ReminderIntervals),
		constants.SettingQuietHoursStart:   strconv.Itoa(settings.QuietHoursStart),
		constants.SettingQuietHoursEnd:     strconv.Itoa(settings.QuietHoursEnd),
		constants.SettingSoundEnabled:      strconv.FormatBool(settings.SoundEnabled),
		constants.SettingTimezone:          settings.Timezone,
	}
}

// ParseIntervals parses a comma-separated list of minutes ("0,15,30,60").
// An empty string yields an empty list.
func ParseIntervals(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	intervals := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid interval %q: %w", part, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("interval must not be negative: %d", n)
		}
		intervals = append(intervals, n)
	}
	return intervals, nil
}

// FormatIntervals is the inverse of ParseIntervals.
func FormatIntervals(intervals []int) string {
	parts := make([]string, len(intervals))
	for i, v := range intervals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
