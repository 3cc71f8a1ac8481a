// Package metrics holds the Prometheus collectors for the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	registry *prometheus.Registry

	Forecasts         *prometheus.CounterVec
	ForecastFallbacks *prometheus.CounterVec
	UpstreamCalls     *prometheus.CounterVec
	UpstreamLatency   *prometheus.HistogramVec
	CacheHits         *prometheus.CounterVec
	CacheMisses       *prometheus.CounterVec
}

// New builds a registry with its own Prometheus registerer so that several
// instances can coexist in one process.
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Forecasts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpulse_forecasts_total",
				Help: "Forecasts served by algorithm and outcome",
			},
			[]string{"algorithm", "outcome"},
		),
		ForecastFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpulse_forecast_fallbacks_total",
				Help: "Forecasts that repeated the last observation because the fit failed",
			},
			[]string{"algorithm"},
		),
		UpstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpulse_upstream_calls_total",
				Help: "Generative API calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		UpstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "labelpulse_upstream_latency_seconds",
				Help:    "Generative API call latency",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
			},
			[]string{"operation"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpulse_cache_hits_total",
				Help: "Narrative cache hits by tier",
			},
			[]string{"tier"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelpulse_cache_misses_total",
				Help: "Narrative cache misses",
			},
			[]string{"tier"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.Forecasts,
		r.ForecastFallbacks,
		r.UpstreamCalls,
		r.UpstreamLatency,
		r.CacheHits,
		r.CacheMisses,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
