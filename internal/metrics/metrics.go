// Package metrics exports engine and store activity to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so tests and embedded servers never
// collide on the global one.
type Recorder struct {
	registry   *prometheus.Registry
	fetches    *prometheus.CounterVec
	fetchErrs  *prometheus.CounterVec
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stowage_store_fetch_total",
			Help: "Batched store fetches issued by the location engine.",
		}, []string{"op", "kind"}),
		fetchErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stowage_store_fetch_errors_total",
			Help: "Batched store fetches that failed.",
		}, []string{"op"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stowage_operations_total",
			Help: "Engine operations by outcome.",
		}, []string{"op", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stowage_resolution_seconds",
			Help:    "Time spent resolving locations, contents and moves.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"op"}),
	}
	r.registry.MustRegister(r.fetches, r.fetchErrs, r.operations, r.durations)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Observe records the outcome of one engine operation.
func (r *Recorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.operations.WithLabelValues(operation, status).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (r *Recorder) fetched(op, kind string, err error) {
	r.fetches.WithLabelValues(op, kind).Inc()
	if err != nil {
		r.fetchErrs.WithLabelValues(op).Inc()
	}
}
