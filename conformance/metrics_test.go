package conformance

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	ps, srv := newPetServer(t)
	ps.override("DELETE /pets/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	c := newChecker(t, srv.URL, WithMetrics(m))

	_, err = c.Run(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 4, testutil.ToFloat64(m.cases.WithLabelValues(string(OutcomePass))), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.cases.WithLabelValues(string(OutcomeStatusMismatch))), 0)

	expected := `
# HELP oasconform_conformance_cases_total Total conformance cases run, by outcome
# TYPE oasconform_conformance_cases_total counter
oasconform_conformance_cases_total{outcome="pass"} 4
oasconform_conformance_cases_total{outcome="status_mismatch"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "oasconform_conformance_cases_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.observe(Entry{Outcome: OutcomePass}) })

	unregistered, err := NewMetrics(nil)
	require.NoError(t, err)
	unregistered.observe(Entry{Outcome: OutcomeSkipped})
	assert.InDelta(t, 1, testutil.ToFloat64(unregistered.cases.WithLabelValues(string(OutcomeSkipped))), 0)
}
