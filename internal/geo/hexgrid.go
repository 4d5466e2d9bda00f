package geo

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// HexCell identifies one cell of the hierarchical spatial index backing an
// isochrone. No hexagonal-tiling library (e.g. Uber H3) appears anywhere in
// the retrieved example corpus, so the index is built on S2's hierarchical
// equal-area cell covering instead — the nearest hierarchical spatial index
// available among the corpus's dependencies (see DESIGN.md). Cells are not
// geometrically hexagonal, but the role they play (a rasterization
// primitive mapping grid cells to nearest street nodes) is identical.
type HexCell struct {
	ID s2.CellID
}

// Center returns the cell's centroid in decimal degrees.
func (c HexCell) Center() LatLon {
	ll := c.ID.LatLng()
	return LatLon{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
}

// resolutionToLevel maps a caller-supplied hex resolution (expected in the
// 0-15 range typical of H3) onto an S2 cell level by doubling it, clamped
// to 1-30.
func resolutionToLevel(hexRes int) int {
	level := hexRes * 2
	if level < 1 {
		level = 1
	}
	if level > 30 {
		level = 30
	}
	return level
}

// CoverPolygon enumerates every hex cell intersecting the polygon, at the
// granularity implied by hexRes.
func CoverPolygon(poly Polygon, hexRes int) ([]HexCell, error) {
	if hexRes <= 0 {
		return nil, fmt.Errorf("hex resolution must be positive, got %d", hexRes)
	}
	if len(poly) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices to cover")
	}

	points := make([]s2.Point, len(poly))
	for i, v := range poly {
		points[i] = s2.PointFromLatLng(s2.LatLngFromDegrees(v.Lat, v.Lon))
	}
	loop := s2.LoopFromPoints(points)
	// LoopFromPoints assumes CCW winding for the "inside" region; if the
	// caller supplied a CW ring, the loop represents everything but the
	// intended area (i.e. more than one hemisphere). Invert in that case.
	if loop.Area() > 2*3.141592653589793 {
		loop.Invert()
	}

	level := resolutionToLevel(hexRes)
	coverer := &s2.RegionCoverer{MinLevel: level, MaxLevel: level, MaxCells: 1 << 20}
	covering := coverer.Covering(loop)

	if len(covering) == 0 {
		return nil, fmt.Errorf("polygon produced zero cells at resolution %d", hexRes)
	}

	cells := make([]HexCell, len(covering))
	for i, id := range covering {
		cells[i] = HexCell{ID: id}
	}
	return cells, nil
}
