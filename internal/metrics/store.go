package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recovery kinds reported by RecordRecovery
const (
	RecoveryCorruptRecord      = "corrupt_record"
	RecoveryStorageUnavailable = "storage_unavailable"
	RecoveryCatalogUnavailable = "catalog_unavailable"
)

// StoreMetrics records user state store activity.
// A nil *StoreMetrics is valid and records nothing.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	recoveries *prometheus.CounterVec
	origins    prometheus.Gauge
	sessions   prometheus.Gauge
}

// NewStoreMetrics registers the store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "psconsole",
		Name:      "store_operations_total",
		Help:      "User state store operations by result.",
	}, []string{"op", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "psconsole",
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of user state store operations including persistence.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
	recoveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "psconsole",
		Name:      "recoveries_total",
		Help:      "Recoverable failures that fell back to defaults.",
	}, []string{"kind"})
	origins := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "psconsole",
		Name:      "active_origins",
		Help:      "Origins with a loaded user state store.",
	})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "psconsole",
		Name:      "active_play_sessions",
		Help:      "Play sessions currently open.",
	})
	reg.MustRegister(operations, duration, recoveries, origins, sessions)
	return &StoreMetrics{
		operations: operations,
		duration:   duration,
		recoveries: recoveries,
		origins:    origins,
		sessions:   sessions,
	}
}

// ObserveOperation records the outcome and duration of a store operation
func (m *StoreMetrics) ObserveOperation(op string, err error, duration time.Duration) {
	if m == nil || m.operations == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	op = normalizeLabel(op)
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordRecovery increments the recovery counter for the given kind
func (m *StoreMetrics) RecordRecovery(kind string) {
	if m == nil || m.recoveries == nil {
		return
	}
	m.recoveries.WithLabelValues(normalizeLabel(kind)).Inc()
}

// SetActiveOrigins sets the number of loaded origins
func (m *StoreMetrics) SetActiveOrigins(n int) {
	if m == nil || m.origins == nil {
		return
	}
	m.origins.Set(float64(n))
}

// SetActiveSessions sets the number of open play sessions
func (m *StoreMetrics) SetActiveSessions(n int) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.Set(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
