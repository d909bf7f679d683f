package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveMessage("local", "greeting")
	m.ObserveMessage("local", "greeting")
	m.ObserveFallback("timeout")
	m.ObserveEmail("webhook", true)
	m.ObserveEmail("webhook", false)
	m.ObserveRelay("ok")
	m.SetActiveSessions(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.messagesTotal.WithLabelValues("local", "greeting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbackTotal.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emailTotal.WithLabelValues("webhook", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emailTotal.WithLabelValues("webhook", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relayTotal.WithLabelValues("ok")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.activeSessions))
}

func TestInitMessages(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.InitMessages("local", []string{"greeting", "pricing", "unknown"})

	assert.Equal(t, 3, testutil.CollectAndCount(m.messagesTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.messagesTotal.WithLabelValues("local", "pricing")))
}

func TestLatencyHistogram(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveWebhookLatency("chat", 0.2)
	assert.Equal(t, 1, testutil.CollectAndCount(m.webhookLatency))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveMessage("remote", "unknown")
		m.InitMessages("local", []string{"greeting"})
		m.ObserveFallback("status")
		m.ObserveEmail("journal", true)
		m.ObserveRelay("error")
		m.ObserveWebhookLatency("email", 1)
		m.SetActiveSessions(1)
	})
}
