package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.RankingRequestsTotal.WithLabelValues("ranked").Inc()
	m.RankingRequestsTotal.WithLabelValues("ranked").Inc()
	m.RankingRequestsTotal.WithLabelValues("unranked").Inc()
	m.CacheHitsTotal.Inc()

	assert.Equal(t, 3.0, counterValue(t, reg, "ranking_requests_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "cache_hits_total"))
	assert.Zero(t, counterValue(t, reg, "cache_misses_total"))
}

func TestNewWithRegistry_TwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWithRegistry(reg)
	assert.Panics(t, func() { NewWithRegistry(reg) })
}
