package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bookerd/bookerd/pkg/metrics"
)

// sessionMetrics is the Prometheus implementation of metrics.SessionMetrics.
type sessionMetrics struct {
	connectionsAccepted    *prometheus.CounterVec
	connectionsRejected    *prometheus.CounterVec
	connectionsClosed      *prometheus.CounterVec
	connectionsForceClosed *prometheus.CounterVec
	activeSessions         prometheus.Gauge
	commandDuration        *prometheus.HistogramVec
	protocolErrors         *prometheus.CounterVec
}

var (
	sessionOnce      sync.Once
	sessionSingleton *sessionMetrics
)

// NewSessionMetrics returns the Prometheus-backed SessionMetrics instance.
// The metric vectors register exactly once on the shared registry; every
// caller after the first gets the same instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewSessionMetrics() metrics.SessionMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	sessionOnce.Do(func() {
		sessionSingleton = newSessionMetrics(metrics.GetRegistry())
	})
	return sessionSingleton
}

func newSessionMetrics(reg *prometheus.Registry) *sessionMetrics {
	return &sessionMetrics{
		connectionsAccepted: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookerd_connections_accepted_total",
				Help: "Total number of accepted client connections by listener",
			},
			[]string{"listener"},
		),
		connectionsRejected: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookerd_connections_rejected_total",
				Help: "Total number of connections rejected at the admission limit",
			},
			[]string{"listener"},
		),
		connectionsClosed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookerd_connections_closed_total",
				Help: "Total number of closed client connections by listener",
			},
			[]string{"listener"},
		),
		connectionsForceClosed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookerd_connections_force_closed_total",
				Help: "Total number of sessions torn down during shutdown",
			},
			[]string{"listener"},
		),
		activeSessions: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "bookerd_active_sessions",
				Help: "Current number of live client sessions",
			},
		),
		commandDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "bookerd_command_duration_milliseconds",
				Help: "Duration of shell command handlers in milliseconds",
				Buckets: []float64{
					0.01, // 10us - in-memory lookups
					0.05, // 50us
					0.1,  // 100us
					0.5,  // 500us
					1,    // 1ms
					5,    // 5ms
					10,   // 10ms - full status dump under contention
					50,   // 50ms
				},
			},
			[]string{"command"},
		),
		protocolErrors: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookerd_protocol_errors_total",
				Help: "Total number of sessions dropped for wire protocol violations",
			},
			[]string{"listener"},
		),
	}
}

func (m *sessionMetrics) RecordConnectionAccepted(listener string) {
	if m == nil {
		return
	}
	m.connectionsAccepted.WithLabelValues(listener).Inc()
}

func (m *sessionMetrics) RecordConnectionRejected(listener string) {
	if m == nil {
		return
	}
	m.connectionsRejected.WithLabelValues(listener).Inc()
}

func (m *sessionMetrics) RecordConnectionClosed(listener string) {
	if m == nil {
		return
	}
	m.connectionsClosed.WithLabelValues(listener).Inc()
}

func (m *sessionMetrics) RecordConnectionForceClosed(listener string) {
	if m == nil {
		return
	}
	m.connectionsForceClosed.WithLabelValues(listener).Inc()
}

func (m *sessionMetrics) SetActiveSessions(count int32) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(count))
}

func (m *sessionMetrics) RecordCommand(command string, duration time.Duration) {
	if m == nil {
		return
	}
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds() * 1000)
}

func (m *sessionMetrics) RecordProtocolError(listener string) {
	if m == nil {
		return
	}
	m.protocolErrors.WithLabelValues(listener).Inc()
}
