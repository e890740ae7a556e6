// Package metrics expone las métricas Prometheus del asignador.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-allocator/internal/application/ports"
)

var _ ports.AllocationMetrics = (*AllocationMetrics)(nil)

const namespace = "stock_allocator"

// AllocationMetrics colectores de ejecución del asignador, en un registro propio.
type AllocationMetrics struct {
	registry *prometheus.Registry

	runs           prometheus.Counter
	records        prometheus.Counter
	allocatedUnits prometheus.Counter
	missingUnits   prometheus.Gauge
	duration       prometheus.Histogram
}

// NewAllocationMetrics registra los colectores (más los de proceso y runtime de Go).
func NewAllocationMetrics() *AllocationMetrics {
	reg := prometheus.NewRegistry()
	m := &AllocationMetrics{
		registry: reg,
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Ejecuciones completadas del asignador.",
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocation_records_total",
			Help:      "Registros de asignación generados.",
		}),
		allocatedUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocated_units_total",
			Help:      "Unidades asignadas de almacén a tienda.",
		}),
		missingUnits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_missing_units",
			Help:      "Demanda no cubierta en la última ejecución.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duración de la asignación.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	reg.MustRegister(
		m.runs, m.records, m.allocatedUnits, m.missingUnits, m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRun registra una ejecución.
func (m *AllocationMetrics) ObserveRun(duration time.Duration, records int, allocatedUnits, missingUnits float64) {
	m.runs.Inc()
	m.records.Add(float64(records))
	if allocatedUnits > 0 {
		m.allocatedUnits.Add(allocatedUnits)
	}
	m.missingUnits.Set(missingUnits)
	m.duration.Observe(duration.Seconds())
}

// Handler endpoint HTTP para /metrics.
func (m *AllocationMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry registro subyacente (tests, colectores adicionales).
func (m *AllocationMetrics) Registry() *prometheus.Registry {
	return m.registry
}
