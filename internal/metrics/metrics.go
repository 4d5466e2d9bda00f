// Package metrics provides Prometheus metrics for the routing engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the router. Each TransitModel
// construction creates its own Metrics registered against a private
// registry, so two models in the same process never collide.
type Metrics struct {
	Registry *prometheus.Registry

	// QueriesTotal counts completed query operations, labeled by kind
	// (route, journey, matrix, one_to_many, isochrone, time_range) and
	// outcome (ok, unreachable).
	QueriesTotal *prometheus.CounterVec

	// QueryDuration tracks wall-clock latency per query kind.
	QueryDuration *prometheus.HistogramVec

	// RaptorRounds is a histogram for how many rounds a RAPTOR sweep ran
	// before marking no more stops. It is registered, but no query function
	// in this module observes into it.
	RaptorRounds prometheus.Histogram

	// MatrixCellsTotal counts travel_time_matrix cells computed.
	MatrixCellsTotal prometheus.Counter
}

// New creates and registers all router metrics with a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	queriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_queries_total",
			Help: "Total number of routing queries served",
		},
		[]string{"kind", "outcome"},
	)

	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "router_query_duration_seconds",
			Help:    "Routing query latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	raptorRounds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "router_raptor_rounds",
		Help:    "Number of RAPTOR rounds executed per sweep before termination",
		Buckets: prometheus.LinearBuckets(0, 1, 10),
	})

	matrixCellsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "router_matrix_cells_total",
		Help: "Total number of travel_time_matrix cells computed",
	})

	registry.MustRegister(queriesTotal, queryDuration, raptorRounds, matrixCellsTotal)

	return &Metrics{
		Registry:         registry,
		QueriesTotal:     queriesTotal,
		QueryDuration:    queryDuration,
		RaptorRounds:     raptorRounds,
		MatrixCellsTotal: matrixCellsTotal,
	}
}

// ObserveQuery records the outcome and duration of a single query operation.
func (m *Metrics) ObserveQuery(kind string, reachable bool, start time.Time) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !reachable {
		outcome = "unreachable"
	}
	m.QueriesTotal.WithLabelValues(kind, outcome).Inc()
	m.QueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
