package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidRow        ConflictType = "invalid_row"
	ConflictDuplicateRowID    ConflictType = "duplicate_row_id"
	ConflictUnknownTag        ConflictType = "unknown_tag"
	ConflictItemMismatch      ConflictType = "item_mismatch"
	ConflictRepeatedMarker    ConflictType = "repeated_escalation_marker"
	ConflictAckBeforeCreation ConflictType = "ack_before_creation"

	AdvisoryRemindersDisabled ConflictType = "reminders_disabled"
	AdvisoryNoIntervals       ConflictType = "no_intervals"
	AdvisoryZeroTailInterval  ConflictType = "zero_tail_interval"
	AdvisoryNoQuietHours      ConflictType = "no_quiet_hours"
)

// Conflict represents a detected problem in the ledger or the settings
type Conflict struct {
	Type        ConflictType
	Description string
	Tag         string   // Reminder tag (if applicable)
	RowIDs      []string // Ledger rows involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator validates ledger rows and settings
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateLedger checks ledger rows for states the engine never writes.
func (v *Validator) ValidateLedger(entries []models.ScheduleEntry) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	idCount := make(map[string]int)
	for _, e := range entries {
		if e.ID != "" {
			idCount[e.ID]++
		}
	}
	dupes := make([]string, 0)
	for id, n := range idCount {
		if n > 1 {
			dupes = append(dupes, id)
		}
	}
	sort.Strings(dupes)
	for _, id := range dupes {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateRowID,
			Description: fmt.Sprintf("Duplicate ledger row ID: %s (%d rows)", id, idCount[id]),
			RowIDs:      []string{id},
		})
	}

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidRow,
				Description: fmt.Sprintf("Ledger row %s is invalid: %v", e.ID, err),
				Tag:         e.Tag,
				RowIDs:      []string{e.ID},
			})
			continue
		}

		if !knownTag(e.Tag) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownTag,
				Description: fmt.Sprintf("Ledger row %s has unrecognized tag %q", e.ID, e.Tag),
				Tag:         e.Tag,
				RowIDs:      []string{e.ID},
			})
		} else if e.ItemID != "" && !tagMatchesItem(e.Tag, e.ItemID) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictItemMismatch,
				Description: fmt.Sprintf("Ledger row %s tag %q does not belong to item %s", e.ID, e.Tag, e.ItemID),
				Tag:         e.Tag,
				RowIDs:      []string{e.ID},
			})
		}

		if strings.Count(e.Title, constants.EscalationTitleMarker) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictRepeatedMarker,
				Description: fmt.Sprintf("Ledger row %s title repeats the escalation marker: %q", e.ID, e.Title),
				Tag:         e.Tag,
				RowIDs:      []string{e.ID},
			})
		}

		if e.AcknowledgedAt != nil && !e.CreatedAt.IsZero() && e.AcknowledgedAt.Before(e.CreatedAt) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictAckBeforeCreation,
				Description: fmt.Sprintf("Ledger row %s was acknowledged before it was created", e.ID),
				Tag:         e.Tag,
				RowIDs:      []string{e.ID},
			})
		}
	}

	return result
}

// ValidateSettings reports valid but surprising reminder policies. Invalid
// settings are rejected by Settings.Validate instead.
func (v *Validator) ValidateSettings(s models.Settings) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if !s.Enabled {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        AdvisoryRemindersDisabled,
			Description: "Reminders are disabled; new reviews are not scheduled",
		})
	}

	switch n := len(s.ReminderIntervals); {
	case n == 0:
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        AdvisoryNoIntervals,
			Description: fmt.Sprintf("No reminder intervals configured; escalation re-arms every %d minutes", constants.FallbackIntervalMin),
		})
	case s.AggressiveMode && s.ReminderIntervals[n-1] == 0:
		result.Conflicts = append(result.Conflicts, Conflict{
			Type: AdvisoryZeroTailInterval,
			Description: fmt.Sprintf("Last reminder interval is 0 minutes; up to %d escalations fire back to back",
				constants.MaxEscalationAttempts),
		})
	}

	if s.QuietHoursStart == s.QuietHoursEnd {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        AdvisoryNoQuietHours,
			Description: "Quiet hours start and end at the same hour; reminders may fire at any time",
		})
	}

	return result
}

func knownTag(tag string) bool {
	switch {
	case tag == constants.TagPendingCheck, tag == constants.TagWelcome:
		return true
	case strings.HasPrefix(tag, constants.TagPrefixReview+"-"):
		return true
	case models.IsTodayTag(tag):
		return true
	}
	return false
}

func tagMatchesItem(tag, itemID string) bool {
	switch {
	case models.IsTodayTag(tag):
		return tag == models.TodayTag(itemID)
	case strings.HasPrefix(tag, constants.TagPrefixReview+"-"):
		return strings.HasPrefix(tag, constants.TagPrefixReview+"-"+itemID+"-")
	}
	return true
}
