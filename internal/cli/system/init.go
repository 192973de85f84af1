package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/reviewnag/internal/cli"
	"github.com/julianstephens/reviewnag/internal/config"
	"github.com/julianstephens/reviewnag/internal/constants"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy settings and ledger rows from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			// Normalize paths to absolute for accurate comparison
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to release the file lock
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.RemoveAll(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized reviewnag storage at: %s\n", ctx.Store.GetConfigPath())

	daemonConf := ctx.DaemonConfig
	if daemonConf == "" {
		daemonConf = constants.DefaultDaemonConf
	}
	if err := config.WriteDefault(daemonConf); err != nil {
		return err
	}

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	sourceStore, err := cli.NewStore(source)
	if err != nil {
		return err
	}
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	fmt.Println("  Migrating settings...")
	settings, err := sourceStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Migrating ledger rows...")
	entries, err := sourceStore.GetAllEntries()
	if err != nil {
		return fmt.Errorf("failed to get ledger rows from source: %w", err)
	}
	for _, entry := range entries {
		if err := ctx.Store.AddEntry(entry); err != nil {
			return fmt.Errorf("failed to add ledger row %s: %w", entry.Tag, err)
		}
	}
	fmt.Printf("    Migrated %d ledger rows\n", len(entries))

	return nil
}
