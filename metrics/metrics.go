package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// IntakeTotal counts crash reports accepted for processing, by normalized severity.
	IntakeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "telematics",
		Subsystem: "crash_events",
		Name:      "intake_total",
		Help:      "Total number of crash reports processed, labeled by normalized severity.",
	}, []string{"severity"})

	// ActionsSimulatedTotal counts simulated emergency actions by type.
	ActionsSimulatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "telematics",
		Subsystem: "crash_events",
		Name:      "actions_simulated_total",
		Help:      "Total number of simulated emergency actions, labeled by action type.",
	}, []string{"action_type"})

	// StoreErrorsTotal counts failed event log operations.
	StoreErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "telematics",
		Subsystem: "crash_events",
		Name:      "store_errors_total",
		Help:      "Total number of failed event log operations, labeled by operation.",
	}, []string{"op"})

	// DecodeAnomaliesTotal counts stored rows skipped because their JSON could not be decoded.
	DecodeAnomaliesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "telematics",
		Subsystem: "crash_events",
		Name:      "decode_anomalies_total",
		Help:      "Total number of stored events skipped on read because their JSON was not decodable.",
	})

	// PublishErrorsTotal counts crash-event notifications that could not be published.
	PublishErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "telematics",
		Subsystem: "crash_events",
		Name:      "publish_errors_total",
		Help:      "Total number of crash event notifications that failed to publish.",
	})

	// RequestDurationSeconds is handler latency by route and status code.
	RequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "telematics",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, labeled by route, method and status code.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"route", "method", "code"})
)

// Register registers the service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			IntakeTotal,
			ActionsSimulatedTotal,
			StoreErrorsTotal,
			DecodeAnomaliesTotal,
			PublishErrorsTotal,
			RequestDurationSeconds,
		)
	})
}
