// Package metrics holds the Prometheus collectors csvsql records query runs
// with. Each Metrics owns its registry so tests and embedded runners do not
// share state.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcome labels
const (
	StatusOK          = "ok"
	StatusParseError  = "parse_error"
	StatusLoadError   = "load_error"
	StatusOutputError = "output_error"
)

// Pipeline stage labels
const (
	StageParse   = "parse"
	StageLoad    = "load"
	StageExecute = "execute"
	StageWrite   = "write"
)

// Metrics records query runs.
type Metrics struct {
	registry *prometheus.Registry

	// QueriesTotal counts runs by outcome.
	QueriesTotal *prometheus.CounterVec
	// RowsLoaded counts rows read from sources.
	RowsLoaded prometheus.Counter
	// RowsReturned counts result rows written.
	RowsReturned prometheus.Counter
	// StageDuration is the latency of each pipeline stage.
	StageDuration *prometheus.HistogramVec
}

// New creates collectors registered on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csvsql_queries_total",
				Help: "Total number of queries run",
			},
			[]string{"status"},
		),
		RowsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "csvsql_rows_loaded_total",
			Help: "Total number of rows loaded from sources",
		}),
		RowsReturned: factory.NewCounter(prometheus.CounterOpts{
			Name: "csvsql_rows_returned_total",
			Help: "Total number of result rows returned",
		}),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "csvsql_stage_duration_seconds",
				Help:    "Query pipeline stage latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// Registry returns the registry the collectors are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStage records how long one pipeline stage took
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveQuery records the outcome of a run and its row counts
func (m *Metrics) ObserveQuery(status string, rowsLoaded, rowsReturned int) {
	m.QueriesTotal.WithLabelValues(status).Inc()
	m.RowsLoaded.Add(float64(rowsLoaded))
	m.RowsReturned.Add(float64(rowsReturned))
}

// WriteTextfile writes every metric to path in the format read by the node
// exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
