package commands

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/tart-cli/tart/archive"
	"gitlab.com/tart-cli/tart/common"
)

// operationMetrics describes a single run for the node exporter textfile
// collector.
type operationMetrics struct {
	registry *prometheus.Registry

	inputs   *prometheus.CounterVec
	entries  prometheus.Counter
	bytes    prometheus.Counter
	failures prometheus.Counter
	duration prometheus.Gauge
}

func newOperationMetrics(op Operation) *operationMetrics {
	labels := prometheus.Labels{"operation": op.String()}

	m := &operationMetrics{
		registry: prometheus.NewRegistry(),
		inputs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "tart_inputs_total",
				Help:        "Number of requested inputs by outcome.",
				ConstLabels: labels,
			},
			[]string{"outcome"},
		),
		entries: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "tart_entries_total",
			Help:        "Number of archive entries written or extracted.",
			ConstLabels: labels,
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "tart_bytes_total",
			Help:        "Uncompressed size of the entries written or extracted.",
			ConstLabels: labels,
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "tart_failures_total",
			Help:        "Number of failed operations.",
			ConstLabels: labels,
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "tart_operation_duration_seconds",
			Help:        "Wall time of the operation.",
			ConstLabels: labels,
		}),
	}

	m.registry.MustRegister(
		common.AppVersion.NewMetricsCollector(),
		m.inputs,
		m.entries,
		m.bytes,
		m.failures,
		m.duration,
	)

	return m
}

func (m *operationMetrics) observe(result archive.Result, elapsed time.Duration, err error) {
	m.inputs.WithLabelValues("written").Add(float64(result.Written))
	m.inputs.WithLabelValues("skipped").Add(float64(len(result.Skipped)))
	m.entries.Add(float64(result.Entries))
	m.bytes.Add(float64(result.Bytes))
	m.duration.Set(elapsed.Seconds())

	if err != nil {
		m.failures.Inc()
	}
}

func (m *operationMetrics) writeTo(filename string) error {
	return prometheus.WriteToTextfile(filename, m.registry)
}
