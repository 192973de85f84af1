// Package server exposes the running engine over HTTP: the user-action
// channel, the settings surface, the websocket presenter stream and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/engine"
	"github.com/julianstephens/reviewnag/internal/logger"
	"github.com/julianstephens/reviewnag/internal/notifier"
)

const (
	shutdownTimeout = 5 * time.Second
	timeLayout      = time.RFC3339
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type Options struct {
	Engine     *engine.Engine
	Dispatcher *engine.Dispatcher
	// Hub serves /api/stream when set.
	Hub *notifier.Hub
	// Guard is reset by the welcome endpoint when set.
	Guard     *notifier.Guard
	Presenter notifier.Presenter
	// Gatherer serves /metrics when set.
	Gatherer     prometheus.Gatherer
	AllowOrigins []string
	Debug        bool
}

type Server struct {
	opts   Options
	router *gin.Engine
}

func New(opts Options) *Server {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = constants.DefaultAllowedOrigins
	}
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = origins
	corsConfig.AllowWildcard = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.AllowWebSockets = true
	router.Use(cors.New(corsConfig))

	s := &Server{opts: opts, router: router}
	s.routes()

	if opts.Hub != nil {
		opts.Hub.OnAction(s.handleClientAction)
	}
	return s
}

func (s *Server) routes() {
	api := s.router.Group("/api")
	api.GET("/health", s.health)

	api.GET("/settings", s.getSettings)
	api.PUT("/settings", s.putSettings)

	api.GET("/reminders", s.listReminders)
	api.GET("/reminders/pending", s.listPending)
	api.POST("/reminders/:tag/ack", s.acknowledge)
	api.POST("/reminders/:tag/snooze", s.snooze)

	api.POST("/items/schedule", s.scheduleItem)
	api.POST("/items/today", s.scheduleToday)
	api.POST("/check", s.check)

	api.POST("/presentation/welcome", s.welcome)

	if s.opts.Hub != nil {
		api.GET("/stream", gin.WrapH(s.opts.Hub))
	}
	if s.opts.Gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if s.opts.Hub != nil {
		s.opts.Hub.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}

// handleClientAction routes a button press from a websocket subscriber.
func (s *Server) handleClientAction(a notifier.ClientAction) {
	switch a.Action {
	case constants.ActionReview, "ack":
		s.opts.Engine.Acknowledge(a.Tag)
	case constants.ActionSnooze:
		if err := s.opts.Engine.Snooze(a.Tag, a.Minutes); err != nil {
			logger.Warn("Snooze from subscriber failed", "tag", a.Tag, "error", err)
		}
	default:
		logger.Debug("Ignoring unknown subscriber action", "action", a.Action, "tag", a.Tag)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, APIResponse{Success: false, Error: err.Error()})
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, APIResponse{Success: true, Data: data})
}
