package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/reviewnag/internal/cli"
	"github.com/julianstephens/reviewnag/internal/storage"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpEntry    *DebugDumpEntryCmd    `cmd:"" help:"Dump the latest ledger row for a tag as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump persisted settings as JSON."`
	DumpConfig   *DebugDumpConfigCmd   `cmd:"" help:"Dump the effective daemon configuration as JSON."`
}

func printJSON(v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpEntryCmd struct {
	Tag string `arg:"" help:"Reminder tag, e.g. review-42-20."`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	entry, err := ctx.Store.GetEntry(cmd.Tag)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no ledger row for tag: %s", cmd.Tag)
		}
		return fmt.Errorf("failed to get ledger row: %w", err)
	}
	return printJSON(entry)
}

// DebugDumpSettingsCmd prints the raw persisted key/value pairs, before
// defaults are merged.
type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}

type DebugDumpConfigCmd struct{}

func (cmd *DebugDumpConfigCmd) Run(ctx *cli.Context) error {
	cfg, err := ctx.LoadDaemonConfig()
	if err != nil {
		return err
	}
	return printJSON(map[string]interface{}{
		"listen":          cfg.Listen,
		"cors":            cfg.CORS,
		"due_source_url":  cfg.DueSourceURL,
		"check_interval":  cfg.CheckInterval.String(),
		"check_schedule":  cfg.CheckSchedule,
		"check_timeout":   cfg.CheckTimeout.String(),
		"recovery_window": cfg.RecoveryWindow.String(),
		"presenters":      cfg.Presenters,
		"metrics":         cfg.Metrics,
	})
}
