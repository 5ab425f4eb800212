package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWith(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)

	m.Lookups.WithLabelValues("success").Inc()
	m.SessionsActive.Set(2)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "weatherfinder_lookups_total")
	assert.Contains(t, names, "weatherfinder_sessions_active")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("success")))

	assert.Panics(t, func() { NewMetricsWith(reg) }, "registering twice must fail")
}
