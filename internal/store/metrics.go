package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus collectors for statement execution.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	queries          *prometheus.CounterVec
	queryDuration    *prometheus.HistogramVec
	featuresReturned prometheus.Counter
}

// NewMetrics creates the store collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer for the process-wide registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		queries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "featureql_store_queries_total",
				Help: "Total number of statements executed",
			},
			[]string{"operation", "result"},
		),

		queryDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "featureql_store_query_duration_seconds",
				Help:    "Duration of statement execution in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
			},
			[]string{"operation"},
		),

		featuresReturned: f.NewCounter(
			prometheus.CounterOpts{
				Name: "featureql_store_features_returned_total",
				Help: "Total number of features decoded from listing statements",
			},
		),
	}
}

// RecordQuery records one statement execution.
func (m *Metrics) RecordQuery(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.queries.WithLabelValues(operation, result).Inc()
	m.queryDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordFeatures records the number of features in one page.
func (m *Metrics) RecordFeatures(n int) {
	if m == nil {
		return
	}
	m.featuresReturned.Add(float64(n))
}
