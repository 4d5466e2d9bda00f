// Package street implements the pedestrian street graph: a weighted
// directed graph of walkable edges with an R-tree index over node
// coordinates for nearest-node snapping, and the Dijkstra variants used for
// first/last-mile access, transfers, and the standalone travel-time matrix.
package street

import (
	"fmt"
	"sort"

	"github.com/tidwall/rtree"
	"github.com/transitmesh/router/internal/geo"
	"github.com/transitmesh/router/routererr"
)

// NodeID is a dense index into Graph's node slice.
type NodeID int32

// Seconds is a non-negative duration, or an elapsed/arrival time depending
// on context; see package timetable for the "seconds since reference
// midnight" convention used by query times.
type Seconds int32

// Unreachable is the sentinel duration/distance returned for node pairs
// with no connecting path. It is a value, not an error: see routererr.
const Unreachable Seconds = -1

// Node is a street graph vertex: an intersection or a snap target, with
// stable coordinates in WGS-84 decimal degrees.
type Node struct {
	ID  NodeID
	Lat float64
	Lon float64
}

// Edge is one directed, positively-weighted walkable connection.
type Edge struct {
	From   NodeID
	To     NodeID
	Weight Seconds // walking duration in seconds, > 0
}

// halfEdge is the CSR-adjacency representation of an Edge, keyed implicitly
// by its source via Graph.edgeStart.
type halfEdge struct {
	to     NodeID
	weight Seconds
}

// Graph is an immutable, shared-read-only street network. Once built it is
// never mutated; queries allocate their own scratch state.
type Graph struct {
	nodes     []Node
	edgeStart []int32 // len(nodes)+1, CSR row offsets
	edges     []halfEdge
	tree      rtree.RTree
}

// NewGraph validates and builds a Graph from raw nodes and edges. Node ids
// must be dense, 0-based indices matching their position in nodes.
func NewGraph(nodes []Node, edges []Edge) (*Graph, error) {
	n := len(nodes)
	for i, node := range nodes {
		if int(node.ID) != i {
			return nil, fmt.Errorf("street node ids must be dense 0-based indices, node %d has id %d: %w", i, node.ID, routererr.ErrInput)
		}
	}

	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	for _, e := range sorted {
		if e.Weight <= 0 {
			return nil, fmt.Errorf("street edge %d->%d has non-positive weight %d: %w", e.From, e.To, e.Weight, routererr.ErrInput)
		}
		if int(e.From) >= n || int(e.To) >= n || e.From < 0 || e.To < 0 {
			return nil, fmt.Errorf("street edge %d->%d references a node outside [0,%d): %w", e.From, e.To, n, routererr.ErrInput)
		}
	}

	edgeStart := make([]int32, n+1)
	flat := make([]halfEdge, len(sorted))
	cursor := 0
	for from := 0; from < n; from++ {
		edgeStart[from] = int32(cursor)
		for cursor < len(sorted) && int(sorted[cursor].From) == from {
			flat[cursor] = halfEdge{to: sorted[cursor].To, weight: sorted[cursor].Weight}
			cursor++
		}
	}
	edgeStart[n] = int32(cursor)

	tree := rtree.RTree{}
	for _, node := range nodes {
		tree.Insert([2]float64{node.Lat, node.Lon}, [2]float64{node.Lat, node.Lon}, node.ID)
	}

	return &Graph{nodes: nodes, edgeStart: edgeStart, edges: flat, tree: tree}, nil
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// Node returns node n's coordinates. Panics on an out-of-range id; that is
// always a programming error since ids are dense and validated at build
// time.
func (g *Graph) Node(n NodeID) Node {
	if int(n) < 0 || int(n) >= len(g.nodes) {
		routererr.Bugf("street node id %d out of range [0,%d)", n, len(g.nodes))
	}
	return g.nodes[n]
}

func (g *Graph) neighbors(n NodeID) []halfEdge {
	return g.edges[g.edgeStart[n]:g.edgeStart[n+1]]
}

// NearestNode finds the closest street node to (lat, lon) by an expanding
// ring search over the R-tree, breaking ties by the smallest node id. It
// returns false if the graph has no nodes.
func (g *Graph) NearestNode(lat, lon float64) (NodeID, float64, bool) {
	if len(g.nodes) == 0 {
		return 0, 0, false
	}

	// Expand the search radius until at least one candidate is found, then
	// re-search at double that radius to guard against a closer point
	// just outside the first box (the classic R-tree nearest-neighbor
	// correction step).
	radiusMeters := 200.0
	const maxRadius = 1 << 20 // ~1000km, effectively unbounded

	var bestID NodeID
	var bestDist = -1.0
	found := false

	search := func(r float64) {
		bounds := geo.CalculateBounds(lat, lon, r)
		g.tree.Search(
			[2]float64{bounds.MinLat, bounds.MinLon},
			[2]float64{bounds.MaxLat, bounds.MaxLon},
			func(_, _ [2]float64, data interface{}) bool {
				id := data.(NodeID)
				node := g.nodes[id]
				d := geo.Distance(lat, lon, node.Lat, node.Lon)
				if !found || d < bestDist || (d == bestDist && id < bestID) {
					bestID, bestDist, found = id, d, true
				}
				return true
			},
		)
	}

	for radiusMeters < maxRadius {
		search(radiusMeters)
		if found {
			search(radiusMeters * 2) // confirm no closer point just outside
			return bestID, bestDist, true
		}
		radiusMeters *= 4
	}
	return 0, 0, false
}
