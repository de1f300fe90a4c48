// Package metrics exposes the commit engine's operational counters as
// Prometheus metrics, in the same shape as the broker example's exporter
// package: plain counters incremented by the caller, optionally served
// over HTTP by StartExporter.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts the events an Engine reports over its lifetime. A
// freshly constructed Collector is safe to increment whether or not it
// has ever been registered with a Prometheus registry.
type Collector struct {
	Commits     prometheus.Counter
	Resets      prometheus.Counter
	PingPongs   prometheus.Counter
	Corruptions prometheus.Counter
	registry    *prometheus.Registry
}

// NewCollector builds a Collector backed by its own registry, so
// importing this package and constructing an Engine with default options
// never touches the global Prometheus registry.
func NewCollector() *Collector {
	c := &Collector{
		Commits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txflash_commits_total",
			Help: "Number of records successfully committed.",
		}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txflash_resets_total",
			Help: "Number of times the engine fell back to the default payload.",
		}),
		PingPongs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txflash_ping_pongs_total",
			Help: "Number of times a write migrated to the other bank.",
		}),
		Corruptions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txflash_corruptions_total",
			Help: "Number of boot-time recovery scans that found the log unreadable.",
		}),
		registry: prometheus.NewRegistry(),
	}
	c.registry.MustRegister(c.Commits, c.Resets, c.PingPongs, c.Corruptions)
	return c
}

// StartExporter serves the collector's registry over /metrics on addr.
// It runs in its own goroutine and does not block; callers that want a
// graceful shutdown should wrap the returned *http.Server themselves.
func (c *Collector) StartExporter(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("txflash metrics exporter stopped: %v\n", err)
		}
	}()

	return srv
}
