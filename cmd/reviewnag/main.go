package main

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/reviewnag/internal/cli"
	"github.com/julianstephens/reviewnag/internal/cli/reminders"
	"github.com/julianstephens/reviewnag/internal/cli/settings"
	"github.com/julianstephens/reviewnag/internal/cli/system"
	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/errors"
	"github.com/julianstephens/reviewnag/internal/logger"
	"github.com/julianstephens/reviewnag/internal/utils"
)

var CLI struct {
	Version      kong.VersionFlag
	Config       string `help:"Database path, json://<dir>, 'keyring', or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use environment variables, .pgpass, or the OS keyring instead." type:"string" default:"${config_path}"`
	DaemonConfig string `help:"Daemon configuration file." type:"path" default:"${daemon_config}"`
	Verbose      bool   `name:"debug" help:"Enable debug logging to stderr."`
	LogJSON      bool   `name:"log-json" help:"Write logs as JSON lines."`

	Init     system.InitCmd        `cmd:"" help:"Initialize reviewnag storage and daemon config."`
	Migrate  system.MigrateCmd     `cmd:"" help:"Run database migrations."`
	Serve    system.ServeCmd       `cmd:"" help:"Run the reminder daemon."`
	Doctor   system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd         `cmd:"" help:"Browse reminders interactively." default:"1"`
	Settings settings.SettingsCmd  `cmd:"" help:"View or change reminder settings."`
	Ledger   reminders.LedgerCmd   `cmd:"" help:"Show the reminder ledger."`
	Ack      reminders.AckCmd      `cmd:"" help:"Acknowledge a reminder, stopping its escalation."`
	Snooze   reminders.SnoozeCmd   `cmd:"" help:"Snooze a reminder."`
	Schedule reminders.ScheduleCmd `cmd:"" help:"Schedule forgetting-curve reviews for an item."`
	Today    reminders.TodayCmd    `cmd:"" help:"Remind about overdue items now."`
	Notify   system.NotifyCmd      `cmd:"" help:"Run the pending-reviews check once."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage secrets held in the OS keyring."`
	Debug system.DebugCmd `cmd:"" hidden:"" help:"Debug commands for troubleshooting."`
}

// noStoreLoad lists commands that open storage themselves, or not at all.
var noStoreLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"debug":   true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Aggressive spaced-repetition review reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"config_path":    constants.DefaultConfigPath,
			"daemon_config":  constants.DefaultDaemonConf,
			"snooze_minutes": strconv.Itoa(constants.DefaultSnoozeMin),
		},
	)

	command := strings.Fields(ctx.Command())[0]

	if err := logger.Init(logger.Config{
		Debug:      CLI.Verbose,
		ConfigDir:  filepath.Dir(utils.ExpandPath(constants.DefaultConfigPath)),
		Foreground: command == "serve",
		JSON:       CLI.LogJSON,
	}); err != nil {
		errors.Fatal(err)
	}

	// keyring commands never touch storage, and must run before
	// --config keyring can resolve.
	if command == "keyring" {
		if err := ctx.Run(&cli.Context{DaemonConfig: CLI.DaemonConfig, Debug: CLI.Verbose}); err != nil {
			errors.Fatal(err)
		}
		return
	}

	store, err := cli.NewStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	if !noStoreLoad[command] {
		if err := store.Load(); err != nil {
			errors.Fatal(errors.WithHint(err, "run 'reviewnag init' to create the database"))
		}
	}

	appCtx := &cli.Context{
		Store:        store,
		DaemonConfig: CLI.DaemonConfig,
		Debug:        CLI.Verbose,
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
