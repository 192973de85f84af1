package system

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/reviewnag/internal/cli"
	"github.com/julianstephens/reviewnag/internal/engine"
	"github.com/julianstephens/reviewnag/internal/logger"
	"github.com/julianstephens/reviewnag/internal/notifier"
)

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

// NotifyCmd runs one due-items check, or presents the welcome notification.
// It asks the running daemon first and falls back to presenting from this
// process through the tray.
type NotifyCmd struct {
	DryRun  bool `help:"Print notifications to stdout instead of presenting them."`
	Welcome bool `help:"Present the welcome notification."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	cfg, err := ctx.LoadDaemonConfig()
	if err != nil {
		return err
	}

	var presenter notifier.Presenter = notifier.NewTray()
	if c.DryRun {
		presenter = notifier.NewConsole(stdout)
	}
	bg := context.Background()

	if c.Welcome {
		if !c.DryRun {
			client, err := ctx.Daemon()
			if err == nil {
				if err = client.Welcome(bg); err == nil {
					fmt.Fprintln(stdout, "Welcome notification presented by the daemon.")
					return nil
				}
			}
			logger.Debug("Daemon welcome failed, presenting locally", "error", err)
		}
		if err := presenter.Present(bg, notifier.Welcome()); err != nil {
			return fmt.Errorf("failed to present welcome notification: %w", err)
		}
		return nil
	}

	if !c.DryRun {
		client, err := ctx.Daemon()
		if err == nil {
			res, err := client.Check(bg)
			if err == nil {
				fmt.Fprintf(stdout, "%d reviews pending (presented: %v)\n", res.Count, res.Presented)
				return nil
			}
			logger.Debug("Daemon check failed, checking locally", "error", err)
		}
	}

	source, err := dueSourceFor(cfg)
	if err != nil {
		return err
	}
	e, err := engine.New(engine.Config{
		Settings:  ctx.Settings(),
		Ledger:    ctx.Ledger(),
		Presenter: presenter,
	})
	if err != nil {
		return err
	}

	d := engine.NewDispatcher(e, source, engine.WithCheckTimeout(cfg.CheckTimeout))
	report, presented, err := d.Check(bg)
	if err != nil {
		return fmt.Errorf("due-items check failed: %w", err)
	}
	if !presented && report.Count > 0 {
		fmt.Fprintf(stdout, "%d reviews pending, nothing presented (quiet hours or presenter unavailable)\n", report.Count)
	} else if report.Count == 0 {
		fmt.Fprintln(stdout, "No reviews pending.")
	}
	return nil
}
