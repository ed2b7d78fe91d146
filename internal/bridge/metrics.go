package bridge

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exports engine and bridge health to Prometheus. It owns a
// private registry so multiple bridges (and tests) can coexist in one
// process.
type Collector struct {
	registry *prometheus.Registry

	tickDuration   prometheus.Histogram
	bodyCount      prometheus.Gauge
	commandsTotal  *prometheus.CounterVec
	snapshotsTotal prometheus.Counter
	clients        prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gravsim_tick_duration_seconds",
			Help:    "Wall time spent integrating one tick",
			Buckets: prometheus.ExponentialBuckets(1e-5, 2, 12),
		}),
		bodyCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gravsim_bodies",
			Help: "Bodies currently simulated",
		}),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gravsim_commands_total",
				Help: "Commands received from hosts",
			},
			[]string{"type"},
		),
		snapshotsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gravsim_snapshots_total",
			Help: "Snapshots broadcast to hosts",
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gravsim_clients",
			Help: "Connected websocket hosts",
		}),
	}

	c.registry.MustRegister(c.tickDuration, c.bodyCount, c.commandsTotal, c.snapshotsTotal, c.clients)
	return c
}

// ObserveTick is wired into engine.Config.TickObserver.
func (c *Collector) ObserveTick(elapsed time.Duration, bodies int) {
	c.tickDuration.Observe(elapsed.Seconds())
	c.bodyCount.Set(float64(bodies))
}

func (c *Collector) RecordCommand(cmdType string) {
	c.commandsTotal.WithLabelValues(cmdType).Inc()
}

// Handler serves the collector's registry in Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
