// Package metrics exposes the pipeline's Prometheus metrics: per-outcome
// counters, per-error-code counters, and reasoning-service call metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hithonix/hireflow/internal/domain"
)

const namespace = "hireflow"

// Collector implements the batch pipeline's MetricsRecorder and the LLM
// client's Metrics on a Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	outcomes    *prometheus.CounterVec
	batchErrors *prometheus.CounterVec

	llmCounters   *prometheus.CounterVec
	llmHistograms *prometheus.HistogramVec
}

// NewCollector creates a collector on its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_outcomes_total",
			Help:      "Candidate outcomes by stage and outcome.",
		}, []string{"stage", "outcome"}),
		batchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_errors_total",
			Help:      "Per-candidate processing errors by code.",
		}, []string{"code"}),
		llmCounters: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reasoning_counter",
			Help:      "Reasoning-service counters by metric name and model.",
		}, []string{"name", "model"}),
		llmHistograms: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reasoning_observation",
			Help:      "Reasoning-service observations (latency seconds, token counts) by metric name and model.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 4, 10),
		}, []string{"name", "model"}),
	}
}

// RecordOutcome implements the batch MetricsRecorder.
func (c *Collector) RecordOutcome(stage domain.Stage, outcome domain.Outcome) {
	c.outcomes.WithLabelValues(string(stage), string(outcome)).Inc()
}

// RecordBatchError implements the batch MetricsRecorder.
func (c *Collector) RecordBatchError(code string) {
	c.batchErrors.WithLabelValues(code).Inc()
}

// IncrementCounter implements the LLM client Metrics.
func (c *Collector) IncrementCounter(name string, tags map[string]string, value float64) {
	c.llmCounters.WithLabelValues(name, tags["model"]).Add(value)
}

// RecordHistogram implements the LLM client Metrics.
func (c *Collector) RecordHistogram(name string, tags map[string]string, value float64) {
	c.llmHistograms.WithLabelValues(name, tags["model"]).Observe(value)
}

// Handler serves the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
