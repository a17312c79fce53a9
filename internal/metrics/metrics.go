// Package metrics counts what a unify run did and exports the counters in
// the Prometheus text format.
package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "unifier"

// Metrics holds the counters of one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prom.Registry

	files    prom.Counter
	read     prom.Counter
	emitted  *prom.CounterVec
	rejected *prom.CounterVec
	duration prom.Gauge
}

// New creates the counters on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prom.NewRegistry(),
		files: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Input files read to the end.",
		}),
		read: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "records_read_total",
			Help:      "Raw records read from input files.",
		}),
		emitted: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "records_emitted_total",
			Help:      "Canonical records written, by provider.",
		}, []string{"provider"}),
		rejected: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Records that failed normalization, by error kind.",
		}, []string{"kind"}),
		duration: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}

	m.registry.MustRegister(m.files, m.read, m.emitted, m.rejected, m.duration)

	return m
}

// Registry returns the registry the counters live on.
func (m *Metrics) Registry() *prom.Registry {
	if m == nil {
		return nil
	}

	return m.registry
}

func (m *Metrics) FileProcessed() {
	if m != nil {
		m.files.Inc()
	}
}

func (m *Metrics) RecordRead() {
	if m != nil {
		m.read.Inc()
	}
}

func (m *Metrics) RecordEmitted(provider string) {
	if m != nil {
		m.emitted.WithLabelValues(provider).Inc()
	}
}

func (m *Metrics) RecordRejected(kind string) {
	if m != nil {
		m.rejected.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) ObserveRun(d time.Duration) {
	if m != nil {
		m.duration.Set(d.Seconds())
	}
}

// WriteTextfile writes all counters to path in the node_exporter textfile
// format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}

	if err := prom.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}

	return nil
}
