// Package metrics exposes Prometheus counters for the chat service. A nil
// *Metrics is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	messagesTotal  *prometheus.CounterVec
	fallbackTotal  *prometheus.CounterVec
	emailTotal     *prometheus.CounterVec
	relayTotal     *prometheus.CounterVec
	webhookLatency *prometheus.HistogramVec
	activeSessions prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "birdie",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Visitor messages answered, by strategy and intent",
		}, []string{"strategy", "intent"}),
		fallbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "birdie",
			Subsystem: "chat",
			Name:      "fallback_total",
			Help:      "Replies replaced by the apology fallback, by failure type",
		}, []string{"reason"}),
		emailTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "birdie",
			Subsystem: "chat",
			Name:      "email_captures_total",
			Help:      "Email submissions, by sink and outcome",
		}, []string{"sink", "status"}),
		relayTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "birdie",
			Subsystem: "relay",
			Name:      "requests_total",
			Help:      "Relay forwards, by outcome",
		}, []string{"status"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "birdie",
			Subsystem: "webhook",
			Name:      "latency_seconds",
			Help:      "Round-trip latency of outbound webhook calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "birdie",
			Subsystem: "chat",
			Name:      "active_sessions",
			Help:      "Conversations currently held in memory",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.fallbackTotal, m.emailTotal, m.relayTotal, m.webhookLatency, m.activeSessions)
	return m
}

func (m *Metrics) ObserveMessage(strategy, intent string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(strategy, intent).Inc()
}

// InitMessages creates the message series for every known intent at zero,
// so rate queries see intents that have not been asked about yet.
func (m *Metrics) InitMessages(strategy string, intents []string) {
	if m == nil {
		return
	}
	for _, intent := range intents {
		m.messagesTotal.WithLabelValues(strategy, intent)
	}
}

func (m *Metrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbackTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveEmail(sink string, ok bool) {
	if m == nil {
		return
	}
	status := "failed"
	if ok {
		status = "accepted"
	}
	m.emailTotal.WithLabelValues(sink, status).Inc()
}

func (m *Metrics) ObserveRelay(status string) {
	if m == nil {
		return
	}
	m.relayTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveWebhookLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
