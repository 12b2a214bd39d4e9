package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ingest"

var (
	// Cycles counts completed worker runs by terminal status
	// ("ok" or "error").
	Cycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cycles_total",
		Help:      "Completed worker cycles by status.",
	}, []string{"worker", "status"})

	// RowsWritten counts rows accepted by a worker's sink.
	RowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_written_total",
		Help:      "Rows accepted by the sink per worker.",
	}, []string{"worker"})

	// FetchErrors counts failed source fetches, including those a worker
	// in isolating mode absorbed without failing the cycle.
	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_errors_total",
		Help:      "Source fetch failures per worker and source.",
	}, []string{"worker", "source"})

	// CycleDuration observes wall time of a full fetch-aggregate-write
	// cycle, retries excluded.
	CycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a single worker cycle.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"worker"})
)
