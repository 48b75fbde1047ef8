package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// newMetrics registers the server metrics, together with the Go runtime and
// process collectors, on reg.
func newMetrics(reg prometheus.Registerer, hub *Hub) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "excerpt_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "excerpt_generate_duration_seconds",
			Help:    "Time spent generating previews, quotes and texts.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"kind"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "excerpt_cache_hits_total",
			Help: "Generation results served from the cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "excerpt_cache_misses_total",
			Help: "Generation results computed because the cache had none.",
		}),
	}
	reg.MustRegister(
		m.requests,
		m.duration,
		m.cacheHits,
		m.cacheMisses,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "excerpt_websocket_clients",
			Help: "Connected websocket clients.",
		}, func() float64 { return float64(hub.ClientCount()) }),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
