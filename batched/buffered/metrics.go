package buffered

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// queries by outcome
	queryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buffered_queries_total",
		Help: "Total processed queries by outcome",
	}, []string{"outcome"})

	queryAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "buffered_query_attempts",
		Help:    "Subgraph extraction attempts per query",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12},
	})

	queryRadius = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "buffered_query_radius",
		Help:    "Final subgraph radius per query",
		Buckets: prometheus.ExponentialBuckets(1000, 2, 12),
	})

	tableSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "buffered_table_vertices",
		Help: "Vertices in the distance table",
	})
)

func _ObserveResult(result QueryResult) {
	queryTotal.WithLabelValues(result.Outcome.String()).Inc()
	if result.Outcome == SKIPPED {
		return
	}
	queryAttempts.Observe(float64(result.Attempts))
	queryRadius.Observe(result.Radius)
}

func _SetTableSize(size int) {
	tableSize.Set(float64(size))
}
