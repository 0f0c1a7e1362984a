package convert

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts conversion work. Written in textfile collector format after each run.
type Metrics struct {
	registry *prometheus.Registry

	Files    *prometheus.CounterVec
	Ticks    prometheus.Counter
	Bars     prometheus.Counter
	Duration prometheus.Histogram
	LastRun  prometheus.Gauge
}

// NewMetrics registers the conversion metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tickbars",
			Name:      "files_total",
			Help:      "Tick files processed, by result.",
		}, []string{"result"}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tickbars",
			Name:      "ticks_total",
			Help:      "Tick records decoded.",
		}),
		Bars: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tickbars",
			Name:      "bars_total",
			Help:      "Bars produced.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tickbars",
			Name:      "file_duration_seconds",
			Help:      "Time spent converting one tick file.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tickbars",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
	m.registry.MustRegister(m.Files, m.Ticks, m.Bars, m.Duration, m.LastRun)
	return m
}

// WriteTextfile writes all metrics to path (node_exporter textfile format).
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
