package constants

import "time"

const (
	AppName            = "reviewnag"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/reviewnag/reviewnag.db"
	DefaultDaemonConf  = "~/.config/reviewnag/config.yaml"
	Version            = "v0.2.0"
	EnvDBConnection    = "REVIEWNAG_DB_CONNECTION"
	EnvPrefix          = "REVIEWNAG"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Persistence namespaces
	NamespaceSettings  = "notificationSettings"
	NamespaceSchedules = "scheduledNotifications"

	// Tag prefixes
	TagPrefixReview = "review"
	TagPrefixToday  = "today"
	TagPendingCheck = "pending-check"
	TagWelcome      = "welcome"

	// Escalation constants
	MaxEscalationAttempts   = 5
	FallbackIntervalMin     = 30
	DefaultSnoozeMin        = 15
	DefaultCheckIntervalMin = 30
	DefaultCheckTimeout     = 10 * time.Second
	DefaultPresentTimeout   = 10 * time.Second
	DefaultRecoveryWindow   = 24 * time.Hour
	EscalationTitleMarker   = " ⚠️"

	// Notify constants
	NotifyMaxRetries     = 3
	NotifyRetryDelay     = 100 * time.Millisecond
	NotifierLockfileName = "reviewnag-notifier.lock"
	TrayAppIdentifier    = "com.julianstephens.reviewnag"
	TrayExecutablePrefix = "reviewnag-tray"
	TraySecretHeader     = "X-Reviewnag-Secret"

	// Action identifiers attached to every reminder
	ActionReview = "review"
	ActionSnooze = "snooze"

	// Ledger cache
	AcknowledgedCacheSize = 512

	// Server defaults
	DefaultListenAddr = "127.0.0.1:7431"
)

// DefaultAllowedOrigins are the browser origins the daemon accepts when none
// are configured.
var DefaultAllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
