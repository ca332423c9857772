// Package metrics exposes Prometheus collectors for invocation outcomes and
// resolution results.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "abilityctl"

// Recorder owns a private registry so several instances can coexist in one
// process. A nil *Recorder records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	invocations     *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	resolutionEmpty *prometheus.CounterVec
}

// New creates a recorder with Go runtime and process collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Provider invocations by family and outcome.",
		}, []string{"family", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Provider invocation latency.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 180, 600},
		}, []string{"family"}),
		resolutionEmpty: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolution_empty_total",
			Help:      "Resolutions that left no eligible executor.",
		}, []string{"provider"}),
	}
	r.registry.MustRegister(
		r.invocations,
		r.duration,
		r.resolutionEmpty,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveInvocation records one finished invocation.
func (r *Recorder) ObserveInvocation(family, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.invocations.WithLabelValues(family, outcome).Inc()
	r.duration.WithLabelValues(family).Observe(d.Seconds())
}

// ResolutionEmpty counts a resolution without candidates.
func (r *Recorder) ResolutionEmpty(provider string) {
	if r == nil {
		return
	}
	r.resolutionEmpty.WithLabelValues(provider).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
