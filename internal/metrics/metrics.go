// Package metrics exposes training metrics through Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tektwister/ai_engineering/micrograd/internal/domain"
)

var _ domain.MetricsRecorder = (*Recorder)(nil)

// Recorder implements domain.MetricsRecorder on its own registry, so several
// trainers (and tests) never collide on the global default registry.
type Recorder struct {
	registry *prometheus.Registry

	steps      prometheus.Counter
	loss       prometheus.Gauge
	graphNodes prometheus.Gauge
	duration   prometheus.Histogram
	errors     *prometheus.CounterVec
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		steps: factory.NewCounter(prometheus.CounterOpts{
			Name: "micrograd_train_steps_total",
			Help: "Total gradient-descent steps taken",
		}),
		loss: factory.NewGauge(prometheus.GaugeOpts{
			Name: "micrograd_train_loss",
			Help: "Loss of the most recent step",
		}),
		graphNodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "micrograd_graph_nodes",
			Help: "Nodes in the most recent loss graph",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "micrograd_step_duration_seconds",
			Help:    "Step duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "micrograd_train_errors_total",
			Help: "Training failures by reason",
		}, []string{"reason"}),
	}
}

// RecordStep records the loss, graph size and duration of one step.
func (r *Recorder) RecordStep(loss float64, graphNodes int, duration float64) {
	r.steps.Inc()
	r.loss.Set(loss)
	r.graphNodes.Set(float64(graphNodes))
	r.duration.Observe(duration)
}

// RecordError records a training failure.
func (r *Recorder) RecordError(reason string) {
	r.errors.WithLabelValues(reason).Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns an HTTP handler serving the recorder's metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
