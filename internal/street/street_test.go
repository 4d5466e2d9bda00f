package street

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line graph: 0 -- 10s --> 1 -- 10s --> 2, both directions.
func lineGraph(t *testing.T) *Graph {
	t.Helper()
	nodes := []Node{
		{ID: 0, Lat: 0, Lon: 0},
		{ID: 1, Lat: 0, Lon: 0.001},
		{ID: 2, Lat: 0, Lon: 0.002},
	}
	edges := []Edge{
		{From: 0, To: 1, Weight: 10},
		{From: 1, To: 0, Weight: 10},
		{From: 1, To: 2, Weight: 10},
		{From: 2, To: 1, Weight: 10},
	}
	g, err := NewGraph(nodes, edges)
	require.NoError(t, err)
	return g
}

func TestNewGraphRejectsNonPositiveWeight(t *testing.T) {
	nodes := []Node{{ID: 0}, {ID: 1}}
	_, err := NewGraph(nodes, []Edge{{From: 0, To: 1, Weight: 0}})
	assert.Error(t, err)
}

func TestNewGraphRejectsDanglingEdge(t *testing.T) {
	nodes := []Node{{ID: 0}, {ID: 1}}
	_, err := NewGraph(nodes, []Edge{{From: 0, To: 5, Weight: 1}})
	assert.Error(t, err)
}

func TestSingleSourceDistances(t *testing.T) {
	g := lineGraph(t)
	result := g.SingleSource(0, Unreachable)

	assert.Equal(t, Seconds(0), result.Dist[0])
	assert.Equal(t, Seconds(10), result.Dist[1])
	assert.Equal(t, Seconds(20), result.Dist[2])
}

func TestSingleSourceCutoffExcludesFarNodes(t *testing.T) {
	g := lineGraph(t)
	result := g.SingleSource(0, 10)

	assert.Equal(t, Seconds(10), result.Dist[1])
	assert.Equal(t, Unreachable, result.Dist[2])
}

func TestOneToOnePathReconstruction(t *testing.T) {
	g := lineGraph(t)
	result := g.OneToOne(0, 2)

	assert.Equal(t, Seconds(20), result.Dist[2])
	assert.Equal(t, []NodeID{0, 1, 2}, result.Path(2))
}

func TestUnreachableNodeYieldsNilPath(t *testing.T) {
	nodes := []Node{{ID: 0}, {ID: 1}}
	g, err := NewGraph(nodes, nil)
	require.NoError(t, err)

	result := g.OneToOne(0, 1)
	assert.Equal(t, Unreachable, result.Dist[1])
	assert.Nil(t, result.Path(1))
}

func TestOneToManySettlesAllTargets(t *testing.T) {
	g := lineGraph(t)
	result := g.OneToMany(0, []NodeID{1, 2})

	assert.Equal(t, Seconds(10), result.Dist[1])
	assert.Equal(t, Seconds(20), result.Dist[2])
}

func TestMatrixIsSymmetricOnUndirectedLine(t *testing.T) {
	g := lineGraph(t)
	m := g.Matrix([]NodeID{0, 1, 2})

	require.Len(t, m, 3)
	assert.Equal(t, Seconds(0), m[0][0])
	assert.Equal(t, m[0][2], m[2][0])
	assert.Equal(t, Seconds(20), m[0][2])
}

func TestNearestNodeBreaksTiesBySmallestID(t *testing.T) {
	nodes := []Node{
		{ID: 0, Lat: 0, Lon: 0},
		{ID: 1, Lat: 0, Lon: 0},
	}
	g, err := NewGraph(nodes, nil)
	require.NoError(t, err)

	id, dist, ok := g.NearestNode(0, 0)
	require.True(t, ok)
	assert.Equal(t, NodeID(0), id)
	assert.InDelta(t, 0, dist, 0.001)
}

func TestNearestNodeFindsClosest(t *testing.T) {
	nodes := []Node{
		{ID: 0, Lat: 10, Lon: 10},
		{ID: 1, Lat: 0, Lon: 0},
		{ID: 2, Lat: 0.0001, Lon: 0.0001},
	}
	g, err := NewGraph(nodes, nil)
	require.NoError(t, err)

	id, _, ok := g.NearestNode(0, 0)
	require.True(t, ok)
	assert.Equal(t, NodeID(1), id)
}

func TestNearestNodeEmptyGraph(t *testing.T) {
	g, err := NewGraph(nil, nil)
	require.NoError(t, err)
	_, _, ok := g.NearestNode(0, 0)
	assert.False(t, ok)
}
