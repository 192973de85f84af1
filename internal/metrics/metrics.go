// Package metrics exposes Prometheus collectors for reminder activity. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "reviewnag"

type Metrics struct {
	presented       *prometheus.CounterVec
	presentFailures *prometheus.CounterVec
	deferrals       prometheus.Counter
	escalations     prometheus.Counter
	acknowledged    prometheus.Counter
	expired         prometheus.Counter
	pollChecks      *prometheus.CounterVec
	ledgerFailures  *prometheus.CounterVec
	pendingWakes    prometheus.Gauge
}

// MustNew constructs the collectors and registers them with reg. It panics
// on registration errors, mirroring promauto.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		presented: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "notifications_presented_total",
			Help:      "Notifications handed to the presenter, by reminder kind.",
		}, []string{"kind"}),
		presentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "presentation_failures_total",
			Help:      "Presentation attempts that returned an error, by reason.",
		}, []string{"reason"}),
		deferrals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "deferrals_total",
			Help:      "Fires deferred because quiet hours were active.",
		}),
		escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "escalations_total",
			Help:      "Escalation wakes armed after an unacknowledged fire.",
		}),
		acknowledged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "acknowledgements_total",
			Help:      "Reminder occurrences acknowledged by the user.",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "expirations_total",
			Help:      "Reminder chains that stopped without acknowledgement.",
		}),
		pollChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "poll_checks_total",
			Help:      "Periodic due-items checks, by result.",
		}, []string{"result"}),
		ledgerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "storage_failures_total",
			Help:      "Ledger storage operations that failed, by operation.",
		}, []string{"op"}),
		pendingWakes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "pending_wakes",
			Help:      "Wakes currently queued.",
		}),
	}

	reg.MustRegister(
		m.presented, m.presentFailures, m.deferrals, m.escalations,
		m.acknowledged, m.expired, m.pollChecks, m.ledgerFailures, m.pendingWakes,
	)
	return m
}

func (m *Metrics) IncPresented(kind string) {
	if m == nil {
		return
	}
	m.presented.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncPresentFailure(reason string) {
	if m == nil {
		return
	}
	m.presentFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncDeferral() {
	if m == nil {
		return
	}
	m.deferrals.Inc()
}

func (m *Metrics) IncEscalation() {
	if m == nil {
		return
	}
	m.escalations.Inc()
}

func (m *Metrics) IncAcknowledged() {
	if m == nil {
		return
	}
	m.acknowledged.Inc()
}

func (m *Metrics) IncExpired() {
	if m == nil {
		return
	}
	m.expired.Inc()
}

// IncPollCheck records one periodic check. result is one of "notified",
// "empty", "quiet" or "error".
func (m *Metrics) IncPollCheck(result string) {
	if m == nil {
		return
	}
	m.pollChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) IncLedgerFailure(op string) {
	if m == nil {
		return
	}
	m.ledgerFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) SetPendingWakes(n int) {
	if m == nil {
		return
	}
	m.pendingWakes.Set(float64(n))
}
