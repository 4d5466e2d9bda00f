package isochrone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitmesh/router/internal/raptor"
	"github.com/transitmesh/router/internal/street"
	"github.com/transitmesh/router/internal/timetable"
)

func smallSquarePolygon() string {
	return "POLYGON((0 0, 0 0.01, 0.01 0.01, 0.01 0, 0 0))"
}

func fixtureGraphAndTimetable(t *testing.T) (*street.Graph, *timetable.Timetable) {
	t.Helper()
	g, err := street.NewGraph(
		[]street.Node{
			{ID: 0, Lat: 0, Lon: 0},
			{ID: 1, Lat: 0.005, Lon: 0.005},
		},
		[]street.Edge{{From: 0, To: 1, Weight: 100}, {From: 1, To: 0, Weight: 100}},
	)
	require.NoError(t, err)

	tt, err := timetable.NewSynthetic(
		[]timetable.Stop{{ID: 0, Lat: 0, Lon: 0, StreetNode: 0, HasStreetNode: true}},
		nil, nil,
	)
	require.NoError(t, err)
	return g, tt
}

func TestNewIndexCoversPolygon(t *testing.T) {
	g, _ := fixtureGraphAndTimetable(t)
	idx, err := NewIndex(g, smallSquarePolygon(), 9)
	require.NoError(t, err)
	assert.NotEmpty(t, idx.Cells)
	assert.Len(t, idx.CellNodes, len(idx.Cells))
}

func TestCalculateMarksNearbyCellsReachable(t *testing.T) {
	g, tt := fixtureGraphAndTimetable(t)
	idx, err := NewIndex(g, smallSquarePolygon(), 9)
	require.NoError(t, err)

	result, err := Calculate(tt, g, []raptor.AccessStop{{Stop: 0, Duration: 0}}, 0, 0, 150, idx)
	require.NoError(t, err)
	require.Len(t, result.Reachable, len(idx.Cells))

	anyReachable := false
	for _, r := range result.Reachable {
		if r {
			anyReachable = true
		}
	}
	assert.True(t, anyReachable, "at least the origin's own cell should be reachable")
}

func TestCalculateRejectsNonPositiveTmax(t *testing.T) {
	g, tt := fixtureGraphAndTimetable(t)
	idx, err := NewIndex(g, smallSquarePolygon(), 9)
	require.NoError(t, err)

	_, err = Calculate(tt, g, []raptor.AccessStop{{Stop: 0, Duration: 0}}, 0, 0, 0, idx)
	assert.Error(t, err)
}

func TestCalculateRejectsNilIndex(t *testing.T) {
	_, tt := fixtureGraphAndTimetable(t)
	g, _ := fixtureGraphAndTimetable(t)
	_, err := Calculate(tt, g, []raptor.AccessStop{{Stop: 0, Duration: 0}}, 0, 0, 100, nil)
	assert.Error(t, err)
}
