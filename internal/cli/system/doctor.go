package system

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/reviewnag/internal/cli"
	"github.com/julianstephens/reviewnag/internal/config"
	"github.com/julianstephens/reviewnag/internal/keyring"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/notifier"
	"github.com/julianstephens/reviewnag/internal/storage/sqlite"
	"github.com/julianstephens/reviewnag/internal/utils"
	"github.com/julianstephens/reviewnag/internal/validation"
)

// schemaVersioner is implemented by the SQL backends.
type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

// trayAvailable is swapped in tests.
var trayAvailable = notifier.TrayAvailable

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	// warnOnly checks never fail the run.
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var doctorChecks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Settings valid", needsDB: true, run: checkSettings},
	{name: "Ledger integrity", needsDB: true, run: checkLedgerIntegrity},
	{name: "Reminder policy", needsDB: true, warnOnly: true, run: checkPolicy},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Daemon config", run: checkDaemonConfig},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
	{name: "Tray app", warnOnly: true, run: checkTray},
	{name: "Daemon reachable", warnOnly: true, run: checkDaemonReachable},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		// JSON store has no schema
		return nil
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'reviewnag migrate')", current, latest)
	}
	return nil
}

// checkSettings reports persisted settings the settings store would discard
// in favour of the defaults.
func checkSettings(ctx *cli.Context) error {
	data, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	s, err := models.MapToSettings(models.DefaultSettings(), data)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if !utils.ValidateTimezone(s.Timezone) {
		return fmt.Errorf("unknown timezone %q", s.Timezone)
	}
	return nil
}

func checkLedgerIntegrity(ctx *cli.Context) error {
	entries, err := ctx.Store.GetAllEntries()
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	result := validation.New().ValidateLedger(entries)
	if result.HasConflicts() {
		return fmt.Errorf("%d ledger problem(s)\n%s", len(result.Conflicts), strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

// checkPolicy flags settings that are valid but unlikely to be intended.
func checkPolicy(ctx *cli.Context) error {
	result := validation.New().ValidateSettings(ctx.Settings().Current())
	if result.HasConflicts() {
		return errors.New(strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkDaemonConfig(ctx *cli.Context) error {
	_, err := ctx.LoadDaemonConfig()
	return err
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkTray(ctx *cli.Context) error {
	cfg, err := ctx.LoadDaemonConfig()
	if err != nil || !cfg.Has(config.PresenterTray) {
		return nil
	}
	if err := trayAvailable(); err != nil {
		return fmt.Errorf("tray presenter enabled but unavailable: %w", err)
	}
	return nil
}

func checkDaemonReachable(ctx *cli.Context) error {
	client, err := ctx.Daemon()
	if err != nil {
		return err
	}
	probeCtx, cancel := context.WithTimeout(context.Background(), cli.DaemonProbeTimeout)
	defer cancel()

	h, err := client.Health(probeCtx)
	if err != nil {
		return fmt.Errorf("%w (start it with 'reviewnag serve')", err)
	}
	if h.Presentation != "enabled" {
		return fmt.Errorf("daemon is up but presentation is %s", h.Presentation)
	}
	return nil
}
