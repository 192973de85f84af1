package constants

const (
	// Setting keys
	SettingEnabled           = "enabled"
	SettingAggressiveMode    = "aggressive_mode"
	SettingReminderIntervals = "reminder_intervals"
	SettingQuietHoursStart   = "quiet_hours_start"
	SettingQuietHoursEnd     = "quiet_hours_end"
	SettingSoundEnabled      = "sound_enabled"
	SettingTimezone          = "timezone"

	// Default Settings Values
	DefaultEnabled         = true
	DefaultAggressiveMode  = true
	DefaultQuietHoursStart = 23
	DefaultQuietHoursEnd   = 7
	DefaultSoundEnabled    = true
	DefaultTimezone        = "Local" // Use system local timezone by default
)

// DefaultReminderIntervals are the escalation re-arm delays in minutes.
var DefaultReminderIntervals = []int{0, 15, 30, 60}
