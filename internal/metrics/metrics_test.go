package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("decision_engine", reg)

	m.SearchesTotal.WithLabelValues("success").Inc()
	m.SearchDuration.Observe(0.042)
	m.CacheHits.Inc()
	m.CacheMisses.Inc()
	m.ProviderFailures.WithLabelValues("kiwi").Inc()
	m.DroppedRecords.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"decision_engine_searches_total",
		"decision_engine_search_duration_seconds",
		"decision_engine_cache_hits_total",
		"decision_engine_cache_misses_total",
		"decision_engine_provider_failures_total",
		"decision_engine_dropped_records_total",
	}, names)
}

func TestCountersAccumulate(t *testing.T) {
	m := New("engine", prometheus.NewRegistry())

	m.CacheHits.Inc()
	m.CacheHits.Inc()
	m.ProviderFailures.WithLabelValues("amadeus").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFailures.WithLabelValues("amadeus")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ProviderFailures.WithLabelValues("kiwi")))
}

func TestNopIsUsable(t *testing.T) {
	m := Nop()

	assert.NotPanics(t, func() {
		m.SearchesTotal.WithLabelValues("error").Inc()
		m.SearchDuration.Observe(0.001)
		m.DroppedRecords.Inc()
	})
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New("engine", reg)

	// promauto panics on duplicate registration in the same registry.
	assert.Panics(t, func() {
		New("engine", reg)
	})
}
