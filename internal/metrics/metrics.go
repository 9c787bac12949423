package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Seed collects seeding pipeline metrics.
type Seed struct {
	RowsInserted  *prometheus.CounterVec
	TableDuration *prometheus.HistogramVec
	Runs          *prometheus.CounterVec
}

// HTTP collects route layer metrics.
type HTTP struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type Metrics struct {
	Seed *Seed
	HTTP *HTTP
}

// New registers every collector on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not panic.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Seed: &Seed{
			RowsInserted: factory.NewCounterVec(
				prometheus.CounterOpts{
					Name: "storefront_seed_rows_inserted_total",
					Help: "Rows inserted by the seeding pipeline",
				},
				[]string{"table"},
			),
			TableDuration: factory.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "storefront_seed_table_duration_seconds",
					Help:    "Time spent seeding one table",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"table"},
			),
			Runs: factory.NewCounterVec(
				prometheus.CounterOpts{
					Name: "storefront_seed_runs_total",
					Help: "Seed runs by result",
				},
				[]string{"result"},
			),
		},
		HTTP: &HTTP{
			Requests: factory.NewCounterVec(
				prometheus.CounterOpts{
					Name: "storefront_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			RequestDuration: factory.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "storefront_http_request_duration_seconds",
					Help:    "Duration of HTTP requests in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "path"},
			),
		},
	}
}
