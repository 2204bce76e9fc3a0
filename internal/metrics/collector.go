// Package metrics exposes Prometheus metrics about a running report.
//
// The metrics server is optional; when enabled it lets an operator
// watch long multi-repetition reports from the outside, for example
// while usereport loops on a misbehaving host.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/usereport/usereport/internal/command"
)

// Collector owns the metrics usereport publishes while a report runs.
type Collector struct {
	info            *prometheus.GaugeVec
	batchesTotal    prometheus.Counter
	commandsTotal   *prometheus.CounterVec
	commandDuration prometheus.Histogram
}

// CollectorConfig holds the static labels of the run.
type CollectorConfig struct {
	Version string
	Profile string
}

// NewCollector creates a collector on the default registry.
func NewCollector(cfg CollectorConfig) *Collector {
	return NewCollectorWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector with a custom registry.
// Useful for testing.
func NewCollectorWithRegistry(cfg CollectorConfig, registry prometheus.Registerer) *Collector {
	c := &Collector{
		info: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "usereport_info",
				Help: "Information about the running report (value always 1)",
			},
			[]string{"version", "profile"},
		),
		batchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "usereport_batches_total",
				Help: "Completed command batches (hostinfo plus one per repetition)",
			},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usereport_commands_total",
				Help: "Completed command executions by status",
			},
			[]string{"status"},
		),
		commandDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "usereport_command_duration_seconds",
				Help:    "Run time of completed commands, error results excluded",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
	}

	registry.MustRegister(
		c.info,
		c.batchesTotal,
		c.commandsTotal,
		c.commandDuration,
	)

	c.info.WithLabelValues(cfg.Version, cfg.Profile).Set(1)

	// Materialize all four status series so a scrape taken before the
	// first result already shows them at zero.
	for _, status := range []command.Status{
		command.StatusSuccess,
		command.StatusFailed,
		command.StatusTimeout,
		command.StatusError,
	} {
		c.commandsTotal.WithLabelValues(string(status))
	}

	return c
}

// RecordBatch records the outcome of one completed batch. Error
// results carry no meaningful run time and are excluded from the
// duration histogram.
func (c *Collector) RecordBatch(results []command.Result) {
	c.batchesTotal.Inc()
	for _, res := range results {
		c.commandsTotal.WithLabelValues(string(res.Status)).Inc()
		if res.Status == command.StatusError {
			continue
		}
		c.commandDuration.Observe(float64(res.RunTimeMs) / 1000)
	}
}
