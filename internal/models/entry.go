package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/reviewnag/internal/constants"
)

// ReminderTag identifies one reminder occurrence. It joins a pending wake to
// its ledger row.
type ReminderTag = string

// ScheduleEntry is one row of the schedule ledger.
type ScheduleEntry struct {
	ID             string     `json:"id" yaml:"id"`
	Tag            string     `json:"tag" yaml:"tag"`
	Title          string     `json:"title" yaml:"title"`
	Body           string     `json:"body" yaml:"body"`
	ItemID         string     `json:"itemId" yaml:"item_id"`
	ScheduledTime  time.Time  `json:"scheduledTime" yaml:"scheduled_time"`
	Acknowledged   bool       `json:"acknowledged" yaml:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty" yaml:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" yaml:"created_at"`
}

func (e *ScheduleEntry) Validate() error {
	if e.Tag == "" {
		return fmt.Errorf("entry tag cannot be empty")
	}
	if e.Title == "" {
		return fmt.Errorf("entry title cannot be empty")
	}
	if e.ScheduledTime.IsZero() {
		return fmt.Errorf("entry scheduled time cannot be empty")
	}
	if e.Acknowledged && e.AcknowledgedAt == nil {
		return fmt.Errorf("acknowledged entry must carry an acknowledgement time")
	}
	return nil
}

// IsDue reports whether the entry is unacknowledged and its scheduled time
// has passed.
func (e *ScheduleEntry) IsDue(now time.Time) bool {
	return !e.Acknowledged && !e.ScheduledTime.After(now)
}

// FormatStatus returns a short human-readable state for listings.
func (e *ScheduleEntry) FormatStatus(now time.Time) string {
	switch {
	case e.Acknowledged:
		return "acknowledged"
	case e.ScheduledTime.After(now):
		return "scheduled"
	default:
		return "pending"
	}
}

// ReviewTag builds the tag of one forgetting-curve occurrence.
func ReviewTag(itemID string, delayMin int) ReminderTag {
	return fmt.Sprintf("%s-%s-%d", constants.TagPrefixReview, itemID, delayMin)
}

// TodayTag builds the tag of an overdue-item occurrence.
func TodayTag(itemID string) ReminderTag {
	return fmt.Sprintf("%s-%s", constants.TagPrefixToday, itemID)
}

// IsTodayTag reports whether tag was built by TodayTag.
func IsTodayTag(tag ReminderTag) bool {
	return strings.HasPrefix(tag, constants.TagPrefixToday+"-")
}
