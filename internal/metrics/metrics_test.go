package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	m := New()
	require.NotNil(t, m.Registry)

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestObserveQueryRecordsOutcome(t *testing.T) {
	m := New()

	m.ObserveQuery("route", true, time.Now().Add(-10*time.Millisecond))
	m.ObserveQuery("route", false, time.Now())

	ok := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("route", "ok"))
	unreachable := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("route", "unreachable"))

	assert.Equal(t, float64(1), ok)
	assert.Equal(t, float64(1), unreachable)
}

func TestObserveQueryNilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveQuery("route", true, time.Now())
	})
}

func TestMatrixCellsTotalIncrements(t *testing.T) {
	m := New()
	m.MatrixCellsTotal.Add(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.MatrixCellsTotal))
}
