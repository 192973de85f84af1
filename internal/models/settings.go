package models

import (
	"fmt"
	"slices"

	"github.com/julianstephens/reviewnag/internal/constants"
)

// Settings represents the user-tunable reminder policy
type Settings struct {
	Enabled           bool   `json:"enabled"`           // whether new reminders are scheduled at all
	AggressiveMode    bool   `json:"aggressiveMode"`    // whether unacknowledged reminders escalate
	ReminderIntervals []int  `json:"reminderIntervals"` // escalation re-arm delays in minutes
	QuietHoursStart   int    `json:"quietHoursStart"`   // hour (0-23) quiet hours begin
	QuietHoursEnd     int    `json:"quietHoursEnd"`     // hour (0-23) quiet hours end
	SoundEnabled      bool   `json:"soundEnabled"`      // whether notifications make sound
	Timezone          string `json:"timezone"`          // IANA timezone name, or "Local"
}

// DefaultSettings returns a fresh copy of the built-in policy.
func DefaultSettings() Settings {
	return Settings{
		Enabled:           constants.DefaultEnabled,
		AggressiveMode:    constants.DefaultAggressiveMode,
		ReminderIntervals: slices.Clone(constants.DefaultReminderIntervals),
		QuietHoursStart:   constants.DefaultQuietHoursStart,
		QuietHoursEnd:     constants.DefaultQuietHoursEnd,
		SoundEnabled:      constants.DefaultSoundEnabled,
		Timezone:          constants.DefaultTimezone,
	}
}

// Clone returns a deep copy so callers never share the intervals slice.
func (s Settings) Clone() Settings {
	s.ReminderIntervals = slices.Clone(s.ReminderIntervals)
	return s
}

func (s *Settings) Validate() error {
	if s.QuietHoursStart < 0 || s.QuietHoursStart > 23 {
		return fmt.Errorf("quiet hours start must be between 0 and 23, got %d", s.QuietHoursStart)
	}
	if s.QuietHoursEnd < 0 || s.QuietHoursEnd > 23 {
		return fmt.Errorf("quiet hours end must be between 0 and 23, got %d", s.QuietHoursEnd)
	}
	for i, v := range s.ReminderIntervals {
		if v < 0 {
			return fmt.Errorf("reminder interval %d must not be negative, got %d", i, v)
		}
	}
	return nil
}

// NextIntervalMin returns the re-arm delay after the given attempt. The index
// clamps at the last configured interval.
func (s *Settings) NextIntervalMin(attempt int) int {
	if len(s.ReminderIntervals) == 0 {
		return constants.FallbackIntervalMin
	}
	idx := min(attempt, len(s.ReminderIntervals)-1)
	if idx < 0 {
		idx = 0
	}
	return s.ReminderIntervals[idx]
}
