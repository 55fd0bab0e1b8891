// Package metrics records validation and submission activity with Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/userform/framework/http/validation"
)

// Collector owns the form metrics. A nil *Collector records nothing, so
// callers do not need to check whether metrics are enabled.
//
// Label cardinality is bounded by the schema: field labels only ever carry
// declared field names.
type Collector struct {
	registry *prometheus.Registry

	passes        *prometheus.CounterVec
	fieldFailures *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewCollector creates and registers the metrics under namespace.
// If registry is nil a fresh one is created.
//
//	collector := metrics.NewCollector("userform", nil)
//	router.Get("/metrics", collector.Handler().ServeHTTP)
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "userform"
	}

	c := &Collector{
		registry: registry,
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_passes_total",
			Help:      "Validation passes by form and outcome (valid, invalid).",
		}, []string{"form", "outcome"}),
		fieldFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_field_failures_total",
			Help:      "Fields reported as failing, by form and field.",
		}, []string{"form", "field"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submission attempts by form and status (accepted, rejected, error).",
		}, []string{"form", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time spent in a single validation pass.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}, []string{"form"}),
	}

	registry.MustRegister(c.passes, c.fieldFailures, c.submissions, c.duration)
	return c
}

// ObservePass records the outcome of one validation pass.
func (c *Collector) ObservePass(form string, res validation.Result, elapsed time.Duration) {
	if c == nil {
		return
	}
	outcome := "valid"
	if !res.Valid() {
		outcome = "invalid"
		for _, field := range res.Fields() {
			c.fieldFailures.WithLabelValues(form, field).Inc()
		}
	}
	c.passes.WithLabelValues(form, outcome).Inc()
	c.duration.WithLabelValues(form).Observe(elapsed.Seconds())
}

// ObserveSubmission records a submission attempt.
func (c *Collector) ObserveSubmission(form, status string) {
	if c == nil {
		return
	}
	c.submissions.WithLabelValues(form, status).Inc()
}

// Handler exposes the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
