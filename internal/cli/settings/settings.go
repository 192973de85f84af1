package settings

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/reviewnag/internal/cli"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/utils"
)

var stdout io.Writer = os.Stdout

type SettingsCmd struct {
	List bool `help:"List current settings."`
	Edit bool `help:"Edit settings in an interactive form."`

	Enabled    *bool   `help:"Enable or disable reminders."`
	Aggressive *bool   `help:"Escalate unacknowledged reminders."`
	Intervals  *string `help:"Comma-separated escalation delays in minutes, e.g. 0,15,30,60."`
	QuietStart *int    `help:"Hour (0-23) quiet hours begin."`
	QuietEnd   *int    `help:"Hour (0-23) quiet hours end."`
	Sound      *bool   `help:"Play a sound with notifications."`
	Timezone   *string `help:"IANA timezone name, or Local."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if c.Edit {
		return ctx.RunTUI(true)
	}

	editor := ctx.SettingsEditor()

	if c.List {
		printSettings(stdout, editor.Current())
		return nil
	}

	apply, err := c.changes()
	if err != nil {
		return err
	}
	if apply == nil {
		fmt.Fprintln(stdout, "No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if _, err := editor.Update(apply); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if editor.Remote() {
		fmt.Fprintln(stdout, "Settings updated successfully (applied to running daemon).")
	} else {
		fmt.Fprintln(stdout, "Settings updated successfully.")
	}
	return nil
}

// changes parses the flags into a single update. It returns nil when no flag
// was given.
func (c *SettingsCmd) changes() (func(*models.Settings), error) {
	var intervals []int
	if c.Intervals != nil {
		parsed, err := models.ParseIntervals(*c.Intervals)
		if err != nil {
			return nil, err
		}
		intervals = parsed
	}
	if c.Timezone != nil && !utils.ValidateTimezone(*c.Timezone) {
		return nil, fmt.Errorf("unknown timezone %q", *c.Timezone)
	}

	if c.Enabled == nil && c.Aggressive == nil && c.Intervals == nil &&
		c.QuietStart == nil && c.QuietEnd == nil && c.Sound == nil && c.Timezone == nil {
		return nil, nil
	}

	return func(s *models.Settings) {
		if c.Enabled != nil {
			s.Enabled = *c.Enabled
		}
		if c.Aggressive != nil {
			s.AggressiveMode = *c.Aggressive
		}
		if c.Intervals != nil {
			s.ReminderIntervals = intervals
		}
		if c.QuietStart != nil {
			s.QuietHoursStart = *c.QuietStart
		}
		if c.QuietEnd != nil {
			s.QuietHoursEnd = *c.QuietEnd
		}
		if c.Sound != nil {
			s.SoundEnabled = *c.Sound
		}
		if c.Timezone != nil {
			s.Timezone = *c.Timezone
		}
	}, nil
}

func printSettings(w io.Writer, s models.Settings) {
	fmt.Fprintln(w, "Current Settings:")
	fmt.Fprintf(w, "  Enabled:            %v\n", s.Enabled)
	fmt.Fprintf(w, "  Aggressive Mode:    %v\n", s.AggressiveMode)
	fmt.Fprintf(w, "  Reminder Intervals: %s min\n", models.FormatIntervals(s.ReminderIntervals))
	fmt.Fprintf(w, "  Quiet Hours:        %02d:00 - %02d:00\n", s.QuietHoursStart, s.QuietHoursEnd)
	fmt.Fprintf(w, "  Sound Enabled:      %v\n", s.SoundEnabled)
	fmt.Fprintf(w, "  Timezone:           %s\n", s.Timezone)
}
