// Package metrics holds the prometheus instrumentation for the engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics.
type Metrics struct {
	SearchesTotal    *prometheus.CounterVec
	SearchDuration   prometheus.Histogram
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	ProviderFailures *prometheus.CounterVec
	DroppedRecords   prometheus.Counter
}

// New creates the engine metrics, registered on reg. A nil reg registers on
// the default registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of search requests by outcome",
		}, []string{"outcome"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall time of search requests including cache lookups",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "The total number of result cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "The total number of result cache misses",
		}),
		ProviderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_failures_total",
			Help:      "The total number of provider query failures",
		}, []string{"provider"}),
		DroppedRecords: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_records_total",
			Help:      "The total number of raw records rejected during normalization",
		}),
	}
}

// Nop returns metrics registered on a throwaway registry, for tests.
func Nop() *Metrics {
	return New("test", prometheus.NewRegistry())
}
