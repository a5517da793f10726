// Package middleware provides cross-cutting concerns for the scoring
// engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/compscore/compscore/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of score submissions,
// ranking computations, and operation latency for the scoring engine.
type PrometheusMetrics struct {
	scoreSubmissions *prometheus.CounterVec
	rankingsComputed *prometheus.CounterVec
	operationCounter *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
	engineGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and
// registers all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		scoreSubmissions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "score_submissions_total",
				Help: "Total number of score submissions, by acceptance status.",
			},
			[]string{"status"},
		),
		rankingsComputed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankings_computed_total",
				Help: "Total number of ranking computations, by competition type.",
			},
			[]string{"competition_type"},
		),
		operationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_engine_operations_total",
				Help: "Total number of operations performed by the scoring engine.",
			},
			[]string{"operation", "status"},
		),
		operationLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scoring_engine_operation_duration_seconds",
				Help:    "Execution time of scoring engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		engineGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "scoring_engine_state",
				Help: "Current state values for the scoring engine.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	_ map[string]string,
) {
	pm.operationLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters. Engine-specific metrics route to their dedicated
// vectors; everything else lands on the general operation counter.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "score_submissions":
		status, ok := labels["status"]
		if !ok {
			status = "unknown"
		}
		pm.scoreSubmissions.WithLabelValues(status).Add(value)
	case "rankings_computed":
		compType, ok := labels["competition_type"]
		if !ok {
			compType = "unknown"
		}
		pm.rankingsComputed.WithLabelValues(compType).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, "success").Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, _ map[string]string,
) {
	pm.engineGauges.WithLabelValues(metric).Set(value)
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
