package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/julianstephens/reviewnag/internal/engine"
	apperrors "github.com/julianstephens/reviewnag/internal/errors"
	"github.com/julianstephens/reviewnag/internal/logger"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/notifier"
	"github.com/julianstephens/reviewnag/internal/server"
)

// ErrDaemonRequired is returned by actions that only a running daemon can
// carry out.
var ErrDaemonRequired = errors.New("reviewnag daemon is not running")

// daemonAnswered reports whether err came back from a reachable daemon.
func daemonAnswered(err error) bool {
	var se *server.StatusError
	return errors.As(err, &se)
}

// Acknowledge asks the daemon to acknowledge tag, cancelling its live chain.
// When no daemon answers, the ledger row is acknowledged directly; the daemon
// reads the ledger before every presentation.
func (c *Context) Acknowledge(ctx context.Context, tag string) (viaDaemon bool, err error) {
	if client, derr := c.Daemon(); derr == nil {
		err := client.Acknowledge(ctx, tag)
		if err == nil {
			return true, nil
		}
		var se *server.StatusError
		if errors.As(err, &se) {
			if se.Code == http.StatusNotFound {
				return true, fmt.Errorf("no reminder with tag %q", tag)
			}
			return true, err
		}
		logger.Debug("Daemon unreachable, acknowledging in ledger", "error", err)
	}

	if !c.Ledger().Acknowledge(tag) {
		return false, fmt.Errorf("no reminder with tag %q", tag)
	}
	return false, nil
}

// Snooze re-arms tag on the daemon after minutes.
func (c *Context) Snooze(ctx context.Context, tag string, minutes int) error {
	client, err := c.Daemon()
	if err != nil {
		return err
	}
	err = client.Snooze(ctx, tag, minutes)
	if err != nil && !daemonAnswered(err) {
		return apperrors.WithHint(fmt.Errorf("%w: %v", ErrDaemonRequired, err), "start it with 'reviewnag serve'")
	}
	return err
}

// offlineEngine is an engine that is never run. Rows it appends are armed by
// the daemon's restart recovery.
func (c *Context) offlineEngine() (*engine.Engine, error) {
	return engine.New(engine.Config{
		Settings:  c.Settings(),
		Ledger:    c.Ledger(),
		Presenter: notifier.Multi{},
	})
}

// Schedule opens the forgetting-curve occurrences for item.
func (c *Context) Schedule(ctx context.Context, item models.Item) (entries []models.ScheduleEntry, viaDaemon bool, err error) {
	if err := item.Validate(); err != nil {
		return nil, false, err
	}
	if client, derr := c.Daemon(); derr == nil {
		entries, err := client.Schedule(ctx, item)
		if err == nil || daemonAnswered(err) {
			return entries, true, err
		}
		logger.Debug("Daemon unreachable, scheduling in ledger", "error", err)
	}

	e, err := c.offlineEngine()
	if err != nil {
		return nil, false, err
	}
	return e.ScheduleReviewNotifications(item), false, nil
}

// Today fires an immediate occurrence for each overdue item.
func (c *Context) Today(ctx context.Context, items []models.Item) (armed int, viaDaemon bool, err error) {
	if client, derr := c.Daemon(); derr == nil {
		armed, err := client.Today(ctx, items)
		if err == nil || daemonAnswered(err) {
			return armed, true, err
		}
		logger.Debug("Daemon unreachable, scheduling in ledger", "error", err)
	}

	e, err := c.offlineEngine()
	if err != nil {
		return 0, false, err
	}
	d := engine.NewDispatcher(e, engine.DueSourceFunc(func(context.Context) (models.DueReport, error) {
		return models.DueReport{}, ErrDaemonRequired
	}))
	return d.ScheduleAllTodayReviews(items), false, nil
}
