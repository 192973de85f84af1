package reminders

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/reviewnag/internal/cli"
	"github.com/julianstephens/reviewnag/internal/models"
)

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// LedgerCmd prints the schedule ledger.
type LedgerCmd struct {
	Format  string `help:"Output format." enum:"table,json,yaml" default:"table" short:"f"`
	Pending bool   `help:"Show only unacknowledged rows."`
	Tag     string `help:"Show only rows for this tag."`
}

func (c *LedgerCmd) Run(ctx *cli.Context) error {
	entries := ctx.Ledger().ListAll()

	filtered := entries[:0]
	for _, e := range entries {
		if c.Pending && e.Acknowledged {
			continue
		}
		if c.Tag != "" && e.Tag != c.Tag {
			continue
		}
		filtered = append(filtered, e)
	}

	return writeEntries(stdout, filtered, c.Format, time.Now())
}

func writeEntries(w io.Writer, entries []models.ScheduleEntry, format string, now time.Time) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(entries)
	case FormatTable, "":
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No reminders found")
			return err
		}
		_, err := fmt.Fprintln(w, ledgerTable(entries, now))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func ledgerTable(entries []models.ScheduleEntry, now time.Time) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TAG", "TITLE", "SCHEDULED", "STATUS", "ACKNOWLEDGED").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, e := range entries {
		acked := "-"
		if e.AcknowledgedAt != nil {
			acked = e.AcknowledgedAt.Local().Format("2006-01-02 15:04")
		}
		t.Row(
			e.Tag,
			e.Title,
			e.ScheduledTime.Local().Format("2006-01-02 15:04"),
			e.FormatStatus(now),
			acked,
		)
	}
	return t.String()
}
