// Package metrics holds the Prometheus collectors for a check run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voyagen/streamcheck/internal/models"
)

// Metrics groups the collectors of one run. Use New with a fresh registry in tests.
type Metrics struct {
	Registry *prometheus.Registry

	FilesScanned  prometheus.Counter
	FilesSkipped  prometheus.Counter
	EntriesParsed prometheus.Counter
	Duplicates    prometheus.Counter
	Probes        *prometheus.CounterVec
	ProbeDuration prometheus.Histogram
	InFlight      prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Registry: reg,
		FilesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streamcheck_files_scanned_total",
			Help: "Playlist files parsed.",
		}),
		FilesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streamcheck_files_skipped_total",
			Help: "Playlist files that could not be read.",
		}),
		EntriesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streamcheck_entries_parsed_total",
			Help: "Distinct entries found across all playlists.",
		}),
		Duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streamcheck_entries_duplicate_total",
			Help: "Entries dropped because their URL was already seen.",
		}),
		Probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "streamcheck_probes_total",
			Help: "Probes by outcome reason.",
		}, []string{"reason"}),
		ProbeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "streamcheck_probe_duration_seconds",
			Help:    "Probe latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "streamcheck_probes_in_flight",
			Help: "Probes currently waiting on the network.",
		}),
	}
	reg.MustRegister(
		m.FilesScanned,
		m.FilesSkipped,
		m.EntriesParsed,
		m.Duplicates,
		m.Probes,
		m.ProbeDuration,
		m.InFlight,
	)
	return m
}

// ObserveResult records one finished probe.
func (m *Metrics) ObserveResult(r models.Result) {
	m.Probes.WithLabelValues(r.Reason).Inc()
	m.ProbeDuration.Observe(r.Duration.Seconds())
}

// ProbeStarted marks a probe in flight and returns the function that clears it.
func (m *Metrics) ProbeStarted() func() {
	m.InFlight.Inc()
	return m.InFlight.Dec
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
