// Package middleware provides cross-cutting concerns for the interview
// engine, currently the Prometheus-backed metrics collector.
package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hireloop/interview-engine/internal/ports"
)

// Compile-time verification that PrometheusMetrics implements
// MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements ports.MetricsCollector using Prometheus.
// It exposes interview throughput, termination outcomes, evaluation
// health, and LLM request metrics.
type PrometheusMetrics struct {
	turns          *prometheus.CounterVec
	completions    *prometheus.CounterVec
	evalFailures   prometheus.Counter
	llmRequests    *prometheus.CounterVec
	llmLatency     *prometheus.HistogramVec
	evalDuration   prometheus.Histogram
	finalScore     prometheus.Histogram
	systemGauges   *prometheus.GaugeVec
	genericCounter *prometheus.CounterVec
}

// NewPrometheusMetrics creates a collector and registers its metrics with
// the given registerer. Passing nil uses the default global registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		turns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_turns_total",
				Help: "Total candidate turns processed by the engine.",
			},
			[]string{"degraded"},
		),
		completions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_completed_total",
				Help: "Total interviews completed, labeled by end reason.",
			},
			[]string{"reason"},
		),
		evalFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "evaluation_failures_total",
				Help: "Total evaluator failures replaced by the neutral default.",
			},
		),
		llmRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total LLM requests by provider, model, and outcome.",
			},
			[]string{"provider", "model", "status"},
		),
		llmLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_latency_seconds",
				Help:    "LLM request latency by provider, model, and outcome.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "model", "status"},
		),
		evalDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "evaluation_duration_seconds",
				Help:    "Time spent evaluating one candidate response.",
				Buckets: prometheus.DefBuckets,
			},
		),
		finalScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "interview_final_score",
				Help:    "Distribution of final interview scores.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "interview_engine_state",
				Help: "Current engine state values by metric name.",
			},
			[]string{"metric"},
		),
		genericCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_engine_operations_total",
				Help: "Engine operations not covered by a dedicated metric.",
			},
			[]string{"operation"},
		),
	}
}

// RecordCounter routes counter increments to the matching Prometheus
// metric.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case "interview_turns_total":
		pm.turns.WithLabelValues(labelOr(labels, "degraded", "false")).Add(value)
	case "interview_completed_total":
		pm.completions.WithLabelValues(labelOr(labels, "reason", "")).Add(value)
	case "evaluation_failures_total":
		pm.evalFailures.Add(value)
	case "llm_requests_total":
		pm.llmRequests.WithLabelValues(
			labelOr(labels, "provider", "unknown"),
			labelOr(labels, "model", "unknown"),
			labelOr(labels, "status", "unknown"),
		).Add(value)
	default:
		pm.genericCounter.WithLabelValues(metric).Add(value)
	}
}

// RecordHistogram routes observations to the matching histogram.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	switch metric {
	case "llm_latency_seconds":
		pm.llmLatency.WithLabelValues(
			labelOr(labels, "provider", "unknown"),
			labelOr(labels, "model", "unknown"),
			labelOr(labels, "status", "unknown"),
		).Observe(value)
	case "evaluation_duration_seconds":
		pm.evalDuration.Observe(value)
	case "interview_final_score":
		pm.finalScore.Observe(value)
	default:
		pm.systemGauges.WithLabelValues(metric).Set(value)
	}
}

// RecordGauge sets a named gauge value.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

func labelOr(labels map[string]string, key, fallback string) string {
	if v, ok := labels[key]; ok && v != "" {
		return v
	}
	return fallback
}
