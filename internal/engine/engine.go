package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/ledger"
	"github.com/julianstephens/reviewnag/internal/logger"
	"github.com/julianstephens/reviewnag/internal/metrics"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/notifier"
	"github.com/julianstephens/reviewnag/internal/scheduler"
	"github.com/julianstephens/reviewnag/internal/settings"
	"github.com/julianstephens/reviewnag/internal/utils"
)

var (
	ErrUnknownTag   = errors.New("no reminder with this tag")
	ErrAcknowledged = errors.New("reminder already acknowledged")
)

const escalatedBody = "Still not reviewed! Check it now."

// reviewTimings is the forgetting-curve table used by ScheduleReviewNotifications.
var reviewTimings = []struct {
	DelayMin int
	Message  string
}{
	{20, "20 minutes in: first review window!"},
	{60, "1 hour in: review before memory fades."},
	{240, "4 hours in: last chance before forgetting."},
	{480, "8 hours in: reviewing before sleep is most effective."},
}

type Config struct {
	Settings  *settings.Store
	Ledger    *ledger.Ledger
	Presenter notifier.Presenter
	// Queue and Clock default to a fresh queue and the wall clock.
	Queue   *scheduler.Queue[Job]
	Clock   scheduler.Clock
	Metrics *metrics.Metrics
	// PresentTimeout bounds one presentation; it runs under the engine lock.
	// Zero means constants.DefaultPresentTimeout.
	PresentTimeout time.Duration
}

// chain tracks the live wake of one tag and the job it carries.
type chain struct {
	wake scheduler.WakeID
	job  Job
}

type Engine struct {
	settings  *settings.Store
	ledger    *ledger.Ledger
	presenter notifier.Presenter
	queue     *scheduler.Queue[Job]
	clock     scheduler.Clock
	metrics   *metrics.Metrics

	presentTimeout time.Duration

	mu     sync.Mutex
	chains map[string]*chain
	poller func(ctx context.Context) (time.Time, bool)
	poll   scheduler.WakeID
}

func New(cfg Config) (*Engine, error) {
	if cfg.Settings == nil {
		return nil, fmt.Errorf("engine requires a settings store")
	}
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("engine requires a ledger")
	}
	if cfg.Presenter == nil {
		return nil, fmt.Errorf("engine requires a presenter")
	}
	if cfg.Queue == nil {
		cfg.Queue = scheduler.NewQueue[Job]()
	}
	if cfg.Clock == nil {
		cfg.Clock = scheduler.RealClock{}
	}
	if cfg.PresentTimeout <= 0 {
		cfg.PresentTimeout = constants.DefaultPresentTimeout
	}
	return &Engine{
		settings:  cfg.Settings,
		ledger:    cfg.Ledger,
		presenter: cfg.Presenter,
		queue:     cfg.Queue,
		clock:     cfg.Clock,
		metrics:   cfg.Metrics,
		chains:    make(map[string]*chain),

		presentTimeout: cfg.PresentTimeout,
	}, nil
}

func (e *Engine) Queue() *scheduler.Queue[Job] { return e.queue }

func (e *Engine) Clock() scheduler.Clock { return e.clock }

func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

func (e *Engine) Settings() *settings.Store { return e.settings }

// ScheduleReviewNotifications opens one occurrence per forgetting-curve
// timing for item and returns the rows it appended. A timing whose tag
// still has an unacknowledged row is left alone.
func (e *Engine) ScheduleReviewNotifications(item models.Item) []models.ScheduleEntry {
	if !e.settings.Current().Enabled {
		logger.Debug("Reminders disabled, not scheduling", "item", item.ID)
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	title := fmt.Sprintf("📚 %s review", item.Topic)
	scheduled := make([]models.ScheduleEntry, 0, len(reviewTimings))
	for _, timing := range reviewTimings {
		entry := models.ScheduleEntry{
			Tag:           models.ReviewTag(item.ID, timing.DelayMin),
			Title:         title,
			Body:          timing.Message,
			ItemID:        item.ID,
			ScheduledTime: now.Add(time.Duration(timing.DelayMin) * time.Minute),
		}

		var prev *models.ScheduleEntry
		appended, ok := e.ledger.AppendIf(entry, func(p *models.ScheduleEntry) bool {
			prev = p
			return p == nil || p.Acknowledged
		})
		if !ok {
			if !e.liveLocked(entry.Tag) {
				e.armLocked(prev.ScheduledTime, fireJob(*prev))
			}
			continue
		}

		e.armLocked(appended.ScheduledTime, fireJob(appended))
		scheduled = append(scheduled, appended)
	}

	logger.Info("Scheduled review reminders", "item", item.ID, "count", len(scheduled))
	return scheduled
}

// Acknowledge marks tag as handled. Pending wakes for tag become no-ops; the
// engine also drops them early when it can.
func (e *Engine) Acknowledge(tag string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ledger.Acknowledge(tag) {
		logger.Debug("Nothing to acknowledge", "tag", tag)
		return false
	}
	if c, ok := e.chains[tag]; ok {
		if c.wake != 0 {
			e.queue.Cancel(c.wake)
		}
		delete(e.chains, tag)
	}
	e.metrics.IncAcknowledged()
	e.metrics.SetPendingWakes(e.queue.Len())
	logger.Info("Reminder acknowledged", "tag", tag)
	return true
}

// Snooze replaces the pending wake of tag with a single fire after minutes,
// keeping the current attempt. Non-positive minutes use the default delay.
func (e *Engine) Snooze(tag string, minutes int) error {
	if minutes <= 0 {
		minutes = constants.DefaultSnoozeMin
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.ledger.FindByTag(tag)
	if !ok {
		return fmt.Errorf("snooze %q: %w", tag, ErrUnknownTag)
	}
	if entry.Acknowledged {
		return fmt.Errorf("snooze %q: %w", tag, ErrAcknowledged)
	}

	job := fireJob(entry)
	if c, ok := e.chains[tag]; ok {
		job = c.job
		job.Kind = JobFire
	}
	at := e.clock.Now().Add(time.Duration(minutes) * time.Minute)
	e.armLocked(at, job)
	logger.Info("Reminder snoozed", "tag", tag, "until", at.Format(time.RFC3339), "attempt", job.Attempt)
	return nil
}

// Recover re-arms unacknowledged occurrences after a restart. Future rows
// fire at their scheduled time, rows overdue by at most window fire now, and
// older rows stay expired. It returns the number of occurrences re-armed.
func (e *Engine) Recover(window time.Duration) int {
	latest := make(map[string]models.ScheduleEntry)
	order := []string{}
	for _, entry := range e.ledger.ListAll() {
		if entry.Tag == constants.TagPendingCheck {
			continue
		}
		if _, seen := latest[entry.Tag]; !seen {
			order = append(order, entry.Tag)
		}
		latest[entry.Tag] = entry
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	recovered := 0
	for _, tag := range order {
		entry := latest[tag]
		if entry.Acknowledged || e.liveLocked(tag) {
			continue
		}
		switch {
		case entry.ScheduledTime.After(now):
			e.armLocked(entry.ScheduledTime, fireJob(entry))
		case now.Sub(entry.ScheduledTime) <= window:
			e.armLocked(now, fireJob(entry))
		default:
			logger.Debug("Leaving stale reminder expired", "tag", tag, "scheduled", entry.ScheduledTime)
			continue
		}
		recovered++
	}

	if recovered > 0 {
		logger.Info("Recovered pending reminders", "count", recovered)
	}
	return recovered
}

// Pending returns the live wake of every tag, earliest first.
func (e *Engine) Pending() []scheduler.Wake[Job] {
	return e.queue.Pending()
}

// Run dispatches wakes until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	logger.Info("Escalation engine started", "pending", e.queue.Len())
	err := scheduler.Run(ctx, e.queue, e.clock, e.Handle)
	if errors.Is(err, context.Canceled) {
		logger.Info("Escalation engine stopped")
		return nil
	}
	return err
}

// Handle processes one due wake. It is the scheduler.Handler of the engine.
func (e *Engine) Handle(ctx context.Context, wake scheduler.Wake[Job]) {
	if wake.Payload.Kind == JobPoll {
		e.handlePoll(ctx, wake)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tag := wake.Payload.Tag
	if c, ok := e.chains[tag]; ok {
		if c.wake != wake.ID && c.wake != 0 {
			// Popped just before a snooze replaced it
			logger.Debug("Dropping superseded wake", "tag", tag, "wake", wake.ID)
			return
		}
		c.wake = 0
	}

	tr := e.Step(ctx, wake.Payload)
	logger.Debug("Reminder transition",
		"tag", tag,
		"kind", wake.Payload.Kind,
		"attempt", wake.Payload.Attempt,
		"state", tr.State,
	)

	switch tr.State {
	case StateAcknowledged:
		delete(e.chains, tag)
	case StateExpired:
		delete(e.chains, tag)
		e.metrics.IncExpired()
		logger.Info("Reminder expired unacknowledged", "tag", tag, "attempt", wake.Payload.Attempt)
	case StateDeferred:
		e.metrics.IncDeferral()
		logger.Info("Quiet hours, deferring reminder", "tag", tag, "until", tr.At.Format(time.RFC3339))
	case StateEscalating:
		e.metrics.IncEscalation()
	}

	if tr.Next != nil {
		e.armLocked(tr.At, *tr.Next)
	}
	e.metrics.SetPendingWakes(e.queue.Len())
}

// Step evaluates job against the current settings, ledger and clock and
// returns what happened and what to arm next. It presents at most one
// notification and never touches the queue.
func (e *Engine) Step(ctx context.Context, job Job) Transition {
	now := e.clock.Now()
	s := e.settings.Current()

	if job.Kind == JobEscalate {
		if e.ledger.IsAcknowledged(job.Tag) {
			return Transition{State: StateAcknowledged}
		}
		job.Kind = JobFire
	}

	if utils.IsQuietHours(now, s) {
		next := job
		return Transition{
			State: StateDeferred,
			Next:  &next,
			At:    now.Add(utils.TimeUntilQuietHoursEnd(now, s)),
		}
	}

	if e.ledger.IsAcknowledged(job.Tag) {
		return Transition{State: StateAcknowledged}
	}

	n := e.notificationFor(job, s)
	presentCtx, cancel := context.WithTimeout(ctx, e.presentTimeout)
	err := e.presenter.Present(presentCtx, n)
	cancel()
	if err != nil {
		e.metrics.IncPresentFailure(failureReason(err))
		logger.Warn("Failed to present reminder", "tag", job.Tag, "error", err)
	} else {
		e.metrics.IncPresented(job.Kind.String())
	}
	tr := Transition{State: StateFired, Presented: &n}

	if !s.AggressiveMode || job.Attempt >= constants.MaxEscalationAttempts {
		tr.State = StateExpired
		return tr
	}

	tr.State = StateEscalating
	tr.Next = &Job{
		Kind:    JobEscalate,
		Tag:     job.Tag,
		ItemID:  job.ItemID,
		Title:   escalateTitle(job.Title),
		Body:    escalatedBody,
		Attempt: job.Attempt + 1,
	}
	tr.At = now.Add(time.Duration(s.NextIntervalMin(job.Attempt)) * time.Minute)
	return tr
}

func (e *Engine) notificationFor(job Job, s models.Settings) notifier.Notification {
	body := job.Body
	if job.Attempt > 0 {
		body = fmt.Sprintf("%s (attempt %d)", body, job.Attempt+1)
	}
	return notifier.Notification{
		Title:              job.Title,
		Body:               body,
		Tag:                job.Tag,
		RequireInteraction: true,
		Renotify:           true,
		Silent:             !s.SoundEnabled,
		Vibrate:            VibrationPattern(job.Attempt),
		Actions:            notifier.ReminderActions(),
		Data:               notifier.Data{ItemID: job.ItemID, Attempt: job.Attempt},
	}
}

// armLocked makes job the only live wake of its tag; e.mu must be held.
func (e *Engine) armLocked(at time.Time, job Job) {
	if c, ok := e.chains[job.Tag]; ok && c.wake != 0 {
		e.queue.Cancel(c.wake)
	}
	id := e.queue.Push(at, job)
	e.chains[job.Tag] = &chain{wake: id, job: job}
	e.metrics.SetPendingWakes(e.queue.Len())
}

// liveLocked reports whether tag has a queued wake; e.mu must be held.
func (e *Engine) liveLocked(tag string) bool {
	c, ok := e.chains[tag]
	return ok && c.wake != 0
}

func fireJob(entry models.ScheduleEntry) Job {
	return Job{
		Kind:   JobFire,
		Tag:    entry.Tag,
		ItemID: entry.ItemID,
		Title:  entry.Title,
		Body:   entry.Body,
	}
}

func escalateTitle(title string) string {
	if strings.HasSuffix(title, constants.EscalationTitleMarker) {
		return title
	}
	return title + constants.EscalationTitleMarker
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, notifier.ErrUnsupported):
		return "unsupported"
	case errors.Is(err, notifier.ErrPermissionDenied):
		return "permission"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}

// setPoller installs fn as the periodic check and arms its first run at
// first. fn returns the time of the next run, or false to stop.
func (e *Engine) setPoller(first time.Time, fn func(ctx context.Context) (time.Time, bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.poll != 0 {
		e.queue.Cancel(e.poll)
	}
	e.poller = fn
	e.poll = e.queue.Push(first, Job{Kind: JobPoll, Tag: constants.TagPendingCheck})
}

func (e *Engine) clearPoller() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.poll != 0 {
		e.queue.Cancel(e.poll)
	}
	e.poller = nil
	e.poll = 0
}

// handlePoll runs the periodic check without holding e.mu, so a slow
// due-items source never blocks acknowledgements.
func (e *Engine) handlePoll(ctx context.Context, wake scheduler.Wake[Job]) {
	e.mu.Lock()
	if wake.ID != e.poll || e.poller == nil {
		e.mu.Unlock()
		return
	}
	e.poll = 0
	fn := e.poller
	e.mu.Unlock()

	next, ok := fn(ctx)
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.poller != nil && e.poll == 0 {
		e.poll = e.queue.Push(next, Job{Kind: JobPoll, Tag: constants.TagPendingCheck})
	}
}
