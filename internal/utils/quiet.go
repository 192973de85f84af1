package utils

import (
	"time"

	"github.com/julianstephens/reviewnag/internal/models"
)

// IsQuietHours reports whether now falls inside the configured quiet window.
// Only the hour is compared; minutes are ignored. A window whose start is
// after its end wraps midnight. Equal start and end hours mean no window.
func IsQuietHours(now time.Time, s models.Settings) bool {
	hour := InTimezone(now, s.Timezone).Hour()
	start, end := s.QuietHoursStart, s.QuietHoursEnd

	if start > end {
		return hour >= start || hour < end
	}
	return hour >= start && hour < end
}

// TimeUntilQuietHoursEnd returns how long a deferred fire must wait, in whole
// hours counted from the current hour.
func TimeUntilQuietHoursEnd(now time.Time, s models.Settings) time.Duration {
	hour := InTimezone(now, s.Timezone).Hour()
	end := s.QuietHoursEnd

	if hour < end {
		return time.Duration(end-hour) * time.Hour
	}
	return time.Duration(24-hour+end) * time.Hour
}
