package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Store and search Prometheus metrics.
var (
	StoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_requests_total",
			Help:      "Total number of document store requests",
		},
		[]string{"index", "op", "status"},
	)

	StoreRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_request_duration_seconds",
			Help:      "Document store request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"index", "op"},
	)

	SearchHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_hits",
			Help:      "Documents returned per request after category capping",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"endpoint"},
	)

	SearchRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_rejected_total",
			Help:      "Search requests refused before reaching the store",
		},
		[]string{"reason"}, // "forbidden" / "keyword" / "period"
	)

	PopularityWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "popularity_write_failures_total",
			Help:      "Searched-term log writes that failed",
		},
	)
)

// Store request outcomes.
const (
	StatusOK          = "ok"
	StatusRejected    = "rejected"
	StatusUnavailable = "unavailable"
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers store and search metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(StoreRequestsTotal)
		prometheus.MustRegister(StoreRequestDuration)
		prometheus.MustRegister(SearchHits)
		prometheus.MustRegister(SearchRejectedTotal)
		prometheus.MustRegister(PopularityWriteFailuresTotal)
	})
}
