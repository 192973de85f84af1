package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/reviewnag/internal/models"
)

// ErrNotFound is returned when no ledger row exists for a tag.
var ErrNotFound = errors.New("entry not found")

// TimeLayout is the fixed-width UTC layout used for text timestamp columns so
// that lexical and chronological order agree.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings namespace, stored as flat key/value pairs
	GetSettings() (map[string]string, error)
	SaveSettings(map[string]string) error

	// Schedule ledger namespace
	AddEntry(models.ScheduleEntry) error
	// GetEntry returns the most recently scheduled row for tag.
	GetEntry(tag string) (models.ScheduleEntry, error)
	GetAllEntries() ([]models.ScheduleEntry, error)
	// AcknowledgeEntry marks the row returned by GetEntry as acknowledged.
	// The first acknowledgement time is kept.
	AcknowledgeEntry(tag string, at time.Time) error

	// Utils
	GetConfigPath() string
}
