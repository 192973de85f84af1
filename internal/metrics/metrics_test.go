package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := MustNew(prometheus.NewRegistry())

	m.IncPresented("review")
	m.IncPresented("review")
	m.IncPollCheck("empty")
	m.IncLedgerFailure("append")
	m.SetPendingWakes(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.presented.WithLabelValues("review")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pollChecks.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerFailures.WithLabelValues("append")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.pendingWakes))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncPresented("review")
		m.IncPresentFailure("unsupported")
		m.IncDeferral()
		m.IncEscalation()
		m.IncAcknowledged()
		m.IncExpired()
		m.IncPollCheck("error")
		m.IncLedgerFailure("acknowledge")
		m.SetPendingWakes(1)
	})
}

func TestMustNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNew(reg)
	assert.Panics(t, func() { MustNew(reg) })
}
