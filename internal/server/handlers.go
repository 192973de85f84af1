package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/reviewnag/internal/engine"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/notifier"
)

// Health is the body of GET /api/health.
type Health struct {
	Status       string `json:"status"`
	Pending      int    `json:"pending"`
	Presentation string `json:"presentation"`
	Subscribers  int    `json:"subscribers"`
}

// PendingWake describes one queued wake.
type PendingWake struct {
	Tag     string `json:"tag"`
	Kind    string `json:"kind"`
	Attempt int    `json:"attempt"`
	At      string `json:"at"`
}

type SnoozeRequest struct {
	Minutes int `json:"minutes"`
}

// CheckResult is the body of POST /api/check.
type CheckResult struct {
	Count     int  `json:"count"`
	Presented bool `json:"presented"`
}

type TodayResult struct {
	Armed int `json:"armed"`
}

func (s *Server) health(c *gin.Context) {
	h := Health{
		Status:       "ok",
		Pending:      s.opts.Engine.Queue().Len(),
		Presentation: "enabled",
	}
	if s.opts.Guard != nil && s.opts.Guard.Disabled() != nil {
		h.Presentation = "disabled"
	}
	if s.opts.Hub != nil {
		h.Subscribers = s.opts.Hub.Clients()
	}
	ok(c, http.StatusOK, h)
}

func (s *Server) getSettings(c *gin.Context) {
	ok(c, http.StatusOK, s.opts.Engine.Settings().Current())
}

// putSettings applies a partial update: fields absent from the body keep
// their current values.
func (s *Server) putSettings(c *gin.Context) {
	next := s.opts.Engine.Settings().Current()
	if err := c.ShouldBindJSON(&next); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid settings: %w", err))
		return
	}

	saved, err := s.opts.Engine.Settings().Update(func(cur *models.Settings) { *cur = next })
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	ok(c, http.StatusOK, saved)
}

func (s *Server) listReminders(c *gin.Context) {
	ok(c, http.StatusOK, s.opts.Engine.Ledger().ListAll())
}

func (s *Server) listPending(c *gin.Context) {
	wakes := s.opts.Engine.Pending()
	out := make([]PendingWake, 0, len(wakes))
	for _, w := range wakes {
		out = append(out, PendingWake{
			Tag:     w.Payload.Tag,
			Kind:    w.Payload.Kind.String(),
			Attempt: w.Payload.Attempt,
			At:      w.At.Format(timeLayout),
		})
	}
	ok(c, http.StatusOK, out)
}

func (s *Server) acknowledge(c *gin.Context) {
	tag := c.Param("tag")
	if !s.opts.Engine.Acknowledge(tag) {
		fail(c, http.StatusNotFound, fmt.Errorf("no reminder with tag %q", tag))
		return
	}
	ok(c, http.StatusOK, gin.H{"tag": tag, "acknowledged": true})
}

func (s *Server) snooze(c *gin.Context) {
	tag := c.Param("tag")
	var req SnoozeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, fmt.Errorf("invalid snooze request: %w", err))
			return
		}
	}

	err := s.opts.Engine.Snooze(tag, req.Minutes)
	switch {
	case errors.Is(err, engine.ErrUnknownTag):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, engine.ErrAcknowledged):
		fail(c, http.StatusConflict, err)
	case err != nil:
		fail(c, http.StatusInternalServerError, err)
	default:
		ok(c, http.StatusOK, gin.H{"tag": tag, "snoozed": true})
	}
}

func (s *Server) scheduleItem(c *gin.Context) {
	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid item: %w", err))
		return
	}
	if err := item.Validate(); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	entries := s.opts.Engine.ScheduleReviewNotifications(item)
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	ok(c, http.StatusCreated, entries)
}

func (s *Server) scheduleToday(c *gin.Context) {
	var items []models.Item
	if err := c.ShouldBindJSON(&items); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid items: %w", err))
		return
	}
	if s.opts.Dispatcher == nil {
		fail(c, http.StatusServiceUnavailable, errors.New("dispatcher not running"))
		return
	}
	ok(c, http.StatusOK, TodayResult{Armed: s.opts.Dispatcher.ScheduleAllTodayReviews(items)})
}

func (s *Server) check(c *gin.Context) {
	if s.opts.Dispatcher == nil {
		fail(c, http.StatusServiceUnavailable, errors.New("dispatcher not running"))
		return
	}
	report, presented, err := s.opts.Dispatcher.Check(c.Request.Context())
	if err != nil {
		fail(c, http.StatusBadGateway, err)
		return
	}
	ok(c, http.StatusOK, CheckResult{Count: report.Count, Presented: presented})
}

// welcome re-enables presentation and shows the welcome notification.
func (s *Server) welcome(c *gin.Context) {
	if s.opts.Guard != nil {
		s.opts.Guard.Reset()
	}
	presenter := s.opts.Presenter
	if presenter == nil {
		fail(c, http.StatusServiceUnavailable, notifier.ErrUnsupported)
		return
	}
	if err := presenter.Present(c.Request.Context(), notifier.Welcome()); err != nil {
		fail(c, http.StatusServiceUnavailable, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"presented": true})
}
