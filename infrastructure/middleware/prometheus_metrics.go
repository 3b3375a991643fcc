// Package middleware provides cross-cutting concerns for the pipeline,
// currently the Prometheus metrics collector.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajmercer/go-dealscout/internal/ports"
)

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It tracks pipeline throughput (listings in, clusters out,
// match decisions), stage latency, and composite score distribution.
type PrometheusMetrics struct {
	stageLatency   *prometheus.HistogramVec
	eventCounter   *prometheus.CounterVec
	stateGauges    *prometheus.GaugeVec
	scoreHistogram *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and registers
// its metrics with the given registerer. Passing nil registers with the
// global Prometheus registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		stageLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealscout_stage_duration_seconds",
				Help:    "Execution time of pipeline stages.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		eventCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealscout_events_total",
				Help: "Pipeline events: listings in, clusters out, address and geo matches.",
			},
			[]string{"event"},
		),
		stateGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dealscout_state",
				Help: "Current pipeline state values.",
			},
			[]string{"metric"},
		),
		scoreHistogram: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealscout_score_distribution",
				Help:    "Distribution of recorded values, principally composite scores.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// stage latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string, duration time.Duration, _ map[string]string,
) {
	pm.stageLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// the event counter.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, _ map[string]string,
) {
	pm.eventCounter.WithLabelValues(metric).Add(value)
}

// RecordGauge implements the MetricsCollector interface by setting a
// Prometheus gauge.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, _ map[string]string,
) {
	pm.stateGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// the value in the score distribution histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, _ map[string]string,
) {
	pm.scoreHistogram.WithLabelValues(metric).Observe(value)
}
