package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/logger"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/notifier"
	"github.com/julianstephens/reviewnag/internal/utils"
)

const (
	todayBody        = "Today is the scheduled review day!"
	pendingCheckBody = "Review them now before you forget!"
)

// Dispatcher fans due items out into reminder occurrences and runs the
// periodic due-items check on the engine's queue.
type Dispatcher struct {
	engine  *Engine
	source  DueSource
	timeout time.Duration
}

type DispatcherOption func(*Dispatcher)

// WithCheckTimeout bounds each due-items query.
func WithCheckTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

func NewDispatcher(e *Engine, source DueSource, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		engine:  e,
		source:  source,
		timeout: constants.DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ScheduleAllTodayReviews fires an immediate occurrence for every overdue
// item. An item already acknowledged today is skipped. It returns the number
// of occurrences armed.
func (d *Dispatcher) ScheduleAllTodayReviews(items []models.Item) int {
	e := d.engine
	s := e.settings.Current()
	if !s.Enabled {
		logger.Debug("Reminders disabled, not scheduling today's reviews", "items", len(items))
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	armed := 0
	for _, item := range items {
		if err := item.Validate(); err != nil {
			logger.Warn("Skipping invalid due item", "item", item.ID, "error", err)
			continue
		}

		entry := models.ScheduleEntry{
			Tag:           models.TodayTag(item.ID),
			Title:         fmt.Sprintf("📖 Time to review %q", item.Topic),
			Body:          todayBody,
			ItemID:        item.ID,
			ScheduledTime: now,
		}

		var prev *models.ScheduleEntry
		appended, ok := e.ledger.AppendIf(entry, func(p *models.ScheduleEntry) bool {
			prev = p
			if p == nil {
				return true
			}
			if !p.Acknowledged {
				return false
			}
			return p.AcknowledgedAt == nil || !utils.SameLocalDay(*p.AcknowledgedAt, now, s.Timezone)
		})

		switch {
		case ok:
			e.armLocked(now, fireJob(appended))
		case prev != nil && !prev.Acknowledged:
			if e.liveLocked(prev.Tag) {
				// Already nagging about this item
				continue
			}
			e.armLocked(now, fireJob(*prev))
		default:
			logger.Debug("Already reviewed today", "tag", entry.Tag)
			continue
		}
		armed++
	}

	logger.Info("Scheduled today's reviews", "items", len(items), "armed", armed)
	return armed
}

// StartPeriodicCheck runs a due-items check now and then every interval.
// A non-positive interval uses the default.
func (d *Dispatcher) StartPeriodicCheck(interval time.Duration) {
	if interval <= 0 {
		interval = constants.DefaultCheckIntervalMin * time.Minute
	}
	e := d.engine
	e.setPoller(e.clock.Now(), func(ctx context.Context) (time.Time, bool) {
		d.runCheck(ctx)
		return e.clock.Now().Add(interval), true
	})
	logger.Info("Periodic due-items check started", "interval", interval)
}

// StartScheduledCheck runs a due-items check now and then on every
// activation of a standard five-field cron expression.
func (d *Dispatcher) StartScheduledCheck(spec string) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid check schedule %q: %w", spec, err)
	}
	e := d.engine
	e.setPoller(e.clock.Now(), func(ctx context.Context) (time.Time, bool) {
		d.runCheck(ctx)
		next := schedule.Next(e.clock.Now())
		return next, !next.IsZero()
	})
	logger.Info("Scheduled due-items check started", "schedule", spec)
	return nil
}

// Stop cancels the periodic check. Reminder occurrences are unaffected.
func (d *Dispatcher) Stop() {
	d.engine.clearPoller()
	logger.Info("Periodic due-items check stopped")
}

func (d *Dispatcher) runCheck(ctx context.Context) {
	if _, _, err := d.Check(ctx); err != nil {
		logger.Warn("Due-items check failed", "error", err)
	}
}

// Check queries the due-items source once and presents a single aggregate
// reminder when items are waiting outside quiet hours. It reports whether a
// reminder was presented.
func (d *Dispatcher) Check(ctx context.Context) (models.DueReport, bool, error) {
	e := d.engine
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	report, err := d.source.Pending(ctx)
	if err != nil {
		e.metrics.IncPollCheck("error")
		return models.DueReport{}, false, err
	}

	if report.Count <= 0 {
		e.metrics.IncPollCheck("empty")
		logger.Debug("No reviews pending")
		return report, false, nil
	}

	s := e.settings.Current()
	now := e.clock.Now()
	if utils.IsQuietHours(now, s) {
		e.metrics.IncPollCheck("quiet")
		logger.Debug("Reviews pending during quiet hours", "count", report.Count)
		return report, false, nil
	}

	n := notifier.Notification{
		Title:              fmt.Sprintf("🔔 %d reviews pending", report.Count),
		Body:               pendingCheckBody,
		Tag:                constants.TagPendingCheck,
		RequireInteraction: true,
		Renotify:           true,
		Silent:             !s.SoundEnabled,
		Vibrate:            VibrationPattern(0),
		Actions:            notifier.ReminderActions(),
	}
	if err := e.presenter.Present(ctx, n); err != nil {
		e.metrics.IncPresentFailure(failureReason(err))
		e.metrics.IncPollCheck("present_failed")
		logger.Warn("Failed to present pending-check reminder", "error", err)
		return report, false, nil
	}

	e.metrics.IncPresented(JobPoll.String())
	e.metrics.IncPollCheck("notified")
	logger.Info("Pending reviews reminder presented", "count", report.Count)
	return report, true, nil
}
