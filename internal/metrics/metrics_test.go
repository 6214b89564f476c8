package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewDispatch_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := NewDispatch(reg)
	require.NoError(t, err)

	m.Outcomes.WithLabelValues(OutcomeTaxiOffice).Inc()
	m.Attempts.WithLabelValues("timeout").Add(2)
	require.Equal(t, float64(1), testutil.ToFloat64(m.Outcomes.WithLabelValues(OutcomeTaxiOffice)))
	require.Equal(t, float64(2), testutil.ToFloat64(m.Attempts.WithLabelValues("timeout")))

	_, err = NewDispatch(reg)
	require.Error(t, err)
}

func TestNewNopDispatch_Usable(t *testing.T) {
	m := NewNopDispatch()
	m.NotificationsFailed.Inc()
	m.CascadeDuration.Observe(3)
	require.Equal(t, float64(1), testutil.ToFloat64(m.NotificationsFailed))
}

func TestNewHTTP_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := NewHTTP(reg)
	require.NoError(t, err)
	m.Requests.WithLabelValues("GET", "/ping", "200").Inc()

	n, err := testutil.GatherAndCount(reg, "http_requests_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
