package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/reviewnag/internal/cli"
	"github.com/julianstephens/reviewnag/internal/config"
	"github.com/julianstephens/reviewnag/internal/engine"
	"github.com/julianstephens/reviewnag/internal/ledger"
	"github.com/julianstephens/reviewnag/internal/logger"
	"github.com/julianstephens/reviewnag/internal/metrics"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/notifier"
	"github.com/julianstephens/reviewnag/internal/server"
)

// ServeCmd runs the reminder daemon: the escalation engine, the HTTP server
// and the periodic due-items check.
type ServeCmd struct {
	Listen string `help:"Listen address, overriding the daemon config."`
}

// daemon is the wired object graph of one serve run.
type daemon struct {
	cfg        config.Config
	engine     *engine.Engine
	dispatcher *engine.Dispatcher
	server     *server.Server
	polling    bool
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	d, err := c.build(ctx)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return d.run(sigCtx)
}

func (c *ServeCmd) build(ctx *cli.Context) (*daemon, error) {
	cfg, err := ctx.LoadDaemonConfig()
	if err != nil {
		return nil, err
	}
	if c.Listen != "" {
		cfg.Listen = c.Listen
	}

	var (
		m        *metrics.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.MustNew(reg)
		gatherer = reg
	}

	var hub *notifier.Hub
	if cfg.Has(config.PresenterWebsocket) {
		hub = notifier.NewHub(cfg.CORS...)
	}
	guard := notifier.NewGuard(presenterFor(cfg, hub, os.Stdout))

	e, err := engine.New(engine.Config{
		Settings:  ctx.Settings(),
		Ledger:    ctx.Ledger(ledger.WithMetrics(m)),
		Presenter: guard,
		Metrics:   m,
	})
	if err != nil {
		return nil, err
	}

	var source engine.DueSource
	polling := true
	if src, err := dueSourceFor(cfg); err == nil {
		source = src
	} else {
		polling = false
		source = engine.DueSourceFunc(func(context.Context) (models.DueReport, error) {
			return models.DueReport{}, err
		})
	}
	disp := engine.NewDispatcher(e, source, engine.WithCheckTimeout(cfg.CheckTimeout))

	srv := server.New(server.Options{
		Engine:       e,
		Dispatcher:   disp,
		Hub:          hub,
		Guard:        guard,
		Presenter:    guard,
		Gatherer:     gatherer,
		AllowOrigins: cfg.CORS,
		Debug:        ctx.Debug,
	})

	return &daemon{
		cfg:        cfg,
		engine:     e,
		dispatcher: disp,
		server:     srv,
		polling:    polling,
	}, nil
}

func (d *daemon) run(ctx context.Context) error {
	if n := d.engine.Recover(d.cfg.RecoveryWindow); n > 0 {
		logger.Info("Recovered unacknowledged reminders", "count", n)
	}

	if d.polling {
		if d.cfg.CheckSchedule != "" {
			if err := d.dispatcher.StartScheduledCheck(d.cfg.CheckSchedule); err != nil {
				return err
			}
		} else {
			d.dispatcher.StartPeriodicCheck(d.cfg.CheckInterval)
		}
	} else {
		logger.Info("No due-items source configured, periodic check disabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.engine.Run(gctx)
	})
	g.Go(func() error {
		return d.server.ListenAndServe(gctx, d.cfg.Listen)
	})
	g.Go(func() error {
		<-gctx.Done()
		if d.polling {
			d.dispatcher.Stop()
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("daemon stopped: %w", err)
	}
	return nil
}
