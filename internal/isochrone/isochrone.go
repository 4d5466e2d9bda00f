// Package isochrone computes reachable-area polygons: given a RAPTOR sweep
// from an origin, it propagates per-stop arrival times across the street
// graph in a single multi-source Dijkstra pass, then classifies each cell
// of a pre-built spatial index as reachable or not within a time budget.
package isochrone

import (
	"fmt"

	"github.com/transitmesh/router/internal/geo"
	"github.com/transitmesh/router/internal/raptor"
	"github.com/transitmesh/router/internal/street"
	"github.com/transitmesh/router/internal/timetable"
	"github.com/transitmesh/router/routererr"
)

// Index is a pre-built spatial index over a target polygon: one street node
// per cell (the nearest street node to the cell's center), computed once
// and reused across every isochrone query against that polygon.
type Index struct {
	Cells     []geo.HexCell
	CellNodes []street.NodeID
	HasNode   []bool
}

// NewIndex covers polygonWKT with cells at hexRes and snaps each cell's
// center to the nearest street node.
func NewIndex(streetGraph *street.Graph, polygonWKT string, hexRes int) (*Index, error) {
	poly, err := geo.ParsePolygonWKT(polygonWKT)
	if err != nil {
		return nil, err
	}
	cells, err := geo.CoverPolygon(poly, hexRes)
	if err != nil {
		return nil, err
	}

	idx := &Index{Cells: cells, CellNodes: make([]street.NodeID, len(cells)), HasNode: make([]bool, len(cells))}
	for i, cell := range cells {
		center := cell.Center()
		node, _, ok := streetGraph.NearestNode(center.Lat, center.Lon)
		idx.CellNodes[i] = node
		idx.HasNode[i] = ok
	}
	return idx, nil
}

// Result is the outcome of one isochrone query: which cells of an Index are
// reachable within the query's time budget, and the elapsed time to the
// cell's representative node for the ones that are.
type Result struct {
	Reachable    []bool
	ElapsedSec   []timetable.Seconds // Unreachable where Reachable[i] is false
}

// Calculate runs RAPTOR from the origin's access stops, propagates the
// resulting per-stop arrival times across the street graph, and classifies
// every cell of idx against tmax (elapsed seconds from depart).
func Calculate(
	tt *timetable.Timetable,
	streetGraph *street.Graph,
	origin []raptor.AccessStop,
	depart timetable.Seconds,
	maxRounds int,
	tmax timetable.Seconds,
	idx *Index,
) (*Result, error) {
	if idx == nil {
		return nil, fmt.Errorf("nil isochrone index: %w", routererr.ErrConfig)
	}
	if tmax <= 0 {
		return nil, fmt.Errorf("tmax must be positive: %w", routererr.ErrConfig)
	}

	state := raptor.Sweep(tt, origin, maxRounds, nil)

	sources := make(map[street.NodeID]street.Seconds)
	for i := range tt.Stops {
		stop := tt.Stops[i]
		if !stop.HasStreetNode {
			continue
		}
		arrival := state.TauStar[i]
		if arrival == timetable.Unreachable {
			continue
		}
		elapsed := arrival - depart
		if elapsed < 0 || elapsed > tmax {
			continue
		}
		if existing, ok := sources[stop.StreetNode]; !ok || street.Seconds(elapsed) < existing {
			sources[stop.StreetNode] = street.Seconds(elapsed)
		}
	}

	// The origin itself is reachable at elapsed 0, regardless of whether
	// any stop beat it there on foot.
	if originNode, _, ok := originStreetNode(streetGraph, origin, tt); ok {
		if existing, has := sources[originNode]; !has || 0 < existing {
			sources[originNode] = 0
		}
	}

	result := &Result{
		Reachable:  make([]bool, len(idx.Cells)),
		ElapsedSec: make([]timetable.Seconds, len(idx.Cells)),
	}
	for i := range result.ElapsedSec {
		result.ElapsedSec[i] = timetable.Unreachable
	}

	if len(sources) == 0 {
		return result, nil
	}

	field := streetGraph.MultiSource(sources, street.Seconds(tmax))
	for i, hasNode := range idx.HasNode {
		if !hasNode {
			continue
		}
		d := field.Dist[idx.CellNodes[i]]
		if d == street.Unreachable || street.Seconds(d) > street.Seconds(tmax) {
			continue
		}
		result.Reachable[i] = true
		result.ElapsedSec[i] = timetable.Seconds(d)
	}

	return result, nil
}

// originStreetNode finds the street node the RAPTOR sweep's own access
// walk started from, so the origin's immediate neighborhood is classified
// reachable even when no stop happens to beat a direct walk there.
func originStreetNode(streetGraph *street.Graph, origin []raptor.AccessStop, tt *timetable.Timetable) (street.NodeID, timetable.Seconds, bool) {
	var best street.NodeID
	var bestDur timetable.Seconds = timetable.Unreachable
	found := false
	for _, a := range origin {
		stop := tt.Stops[a.Stop]
		if !stop.HasStreetNode {
			continue
		}
		if !found || a.Duration < bestDur {
			best, bestDur, found = stop.StreetNode, a.Duration, true
		}
	}
	return best, bestDur, found
}
