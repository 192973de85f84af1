package reminders

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/reviewnag/internal/cli"
	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/models"
)

const offlineNote = "daemon not running; rows are armed when 'reviewnag serve' starts"

// AckCmd acknowledges a reminder, stopping its escalation.
type AckCmd struct {
	Tag string `arg:"" help:"Reminder tag, e.g. review-42-20."`
}

func (c *AckCmd) Run(ctx *cli.Context) error {
	viaDaemon, err := ctx.Acknowledge(context.Background(), c.Tag)
	if err != nil {
		return err
	}
	if viaDaemon {
		fmt.Fprintf(stdout, "✓ Acknowledged %s\n", c.Tag)
	} else {
		fmt.Fprintf(stdout, "✓ Acknowledged %s in the ledger (daemon not running)\n", c.Tag)
	}
	return nil
}

// SnoozeCmd postpones a live reminder.
type SnoozeCmd struct {
	Tag     string `arg:"" help:"Reminder tag."`
	Minutes int    `help:"Minutes to wait before presenting again." default:"${snooze_minutes}"`
}

func (c *SnoozeCmd) Run(ctx *cli.Context) error {
	minutes := c.Minutes
	if minutes <= 0 {
		minutes = constants.DefaultSnoozeMin
	}
	if err := ctx.Snooze(context.Background(), c.Tag, minutes); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "⏰ Snoozed %s for %d minutes\n", c.Tag, minutes)
	return nil
}

// ScheduleCmd opens the forgetting-curve reminders for a newly learned item.
type ScheduleCmd struct {
	ItemID string `arg:"" help:"Item identifier."`
	Topic  string `arg:"" help:"Item topic shown in the reminder title."`
}

func (c *ScheduleCmd) Run(ctx *cli.Context) error {
	item := models.Item{ID: c.ItemID, Topic: c.Topic}
	entries, viaDaemon, err := ctx.Schedule(context.Background(), item)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "Nothing scheduled (reminders disabled or already pending)")
		return nil
	}
	fmt.Fprintf(stdout, "Scheduled %d reminders for %q:\n", len(entries), c.Topic)
	for _, e := range entries {
		fmt.Fprintf(stdout, "  %s at %s\n", e.Tag, e.ScheduledTime.Local().Format(constants.TimeFormat))
	}
	if !viaDaemon {
		fmt.Fprintln(stdout, offlineNote)
	}
	return nil
}

// TodayCmd fires an immediate reminder for each item due today.
type TodayCmd struct {
	Items []string `arg:"" help:"Items as id:topic."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	items, err := ParseItems(c.Items)
	if err != nil {
		return err
	}
	armed, viaDaemon, err := ctx.Today(context.Background(), items)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Armed %d of %d reminders\n", armed, len(items))
	if !viaDaemon && armed > 0 {
		fmt.Fprintln(stdout, offlineNote)
	}
	return nil
}

// ParseItems parses id:topic arguments. The topic may itself contain colons.
func ParseItems(args []string) ([]models.Item, error) {
	items := make([]models.Item, 0, len(args))
	for _, arg := range args {
		id, topic, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("invalid item %q (expected id:topic)", arg)
		}
		item := models.Item{ID: strings.TrimSpace(id), Topic: strings.TrimSpace(topic)}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("invalid item %q: %w", arg, err)
		}
		items = append(items, item)
	}
	return items, nil
}
