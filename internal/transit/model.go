// Package transit ties a built Timetable to its street graph and provides
// the access/egress precomputation shared by every query entry point:
// snapping an arbitrary (lat, lon) query point to nearby stops via a
// bounded Dijkstra search from its nearest street node.
package transit

import (
	"fmt"
	"sort"

	"github.com/transitmesh/router/internal/street"
	"github.com/transitmesh/router/internal/timetable"
	"github.com/transitmesh/router/routererr"
)

// Model is the frozen combination of a transit timetable and the street
// graph used for first/last-mile walking and transfers. It is shared
// read-only across every concurrent query.
type Model struct {
	Timetable *timetable.Timetable
	Street    *street.Graph
}

// New validates and wraps a timetable and street graph into a Model.
func New(tt *timetable.Timetable, streetGraph *street.Graph) (*Model, error) {
	if tt == nil {
		return nil, fmt.Errorf("nil timetable: %w", routererr.ErrConfig)
	}
	if streetGraph == nil {
		return nil, fmt.Errorf("nil street graph: %w", routererr.ErrConfig)
	}
	return &Model{Timetable: tt, Street: streetGraph}, nil
}

// StopAccess is one stop reachable on foot from a query point, along with
// the walking duration to reach it.
type StopAccess struct {
	Stop     timetable.StopID
	Duration timetable.Seconds
}

// Access is the precomputed set of nearby stops for an ad-hoc query point,
// built once when the point is created and reused across every query that
// references it.
type Access struct {
	Lat, Lon   float64
	Node       street.NodeID
	HasNode    bool
	StopTimes  []StopAccess // sorted by Duration ascending, truncated to maxStops
}

// BuildAccess snaps (lat, lon) to the nearest street node and finds the
// maxStops closest transit stops within maxWalk, by a single bounded
// Dijkstra search. Pedestrian street graphs are treated as effectively
// undirected, so the same search serves both access (point -> stops) and
// egress (stops -> point) use.
func (m *Model) BuildAccess(lat, lon float64, maxWalk timetable.Seconds, maxStops int) (*Access, error) {
	access := &Access{Lat: lat, Lon: lon}

	node, _, ok := m.Street.NearestNode(lat, lon)
	access.Node = node
	access.HasNode = ok
	if !ok {
		return access, nil // isolated point with no street coverage; no stops reachable
	}

	cutoff := street.Unreachable
	if maxWalk > 0 {
		cutoff = street.Seconds(maxWalk)
	}
	result := m.Street.SingleSource(node, cutoff)

	var candidates []StopAccess
	for i := range m.Timetable.Stops {
		stop := m.Timetable.Stops[i]
		if !stop.HasStreetNode {
			continue
		}
		d := result.Dist[stop.StreetNode]
		if d == street.Unreachable {
			continue
		}
		if maxWalk > 0 && timetable.Seconds(d) > maxWalk {
			continue
		}
		candidates = append(candidates, StopAccess{Stop: stop.ID, Duration: timetable.Seconds(d)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Duration != candidates[j].Duration {
			return candidates[i].Duration < candidates[j].Duration
		}
		return candidates[i].Stop < candidates[j].Stop
	})

	if maxStops > 0 && len(candidates) > maxStops {
		candidates = candidates[:maxStops]
	}
	access.StopTimes = candidates
	return access, nil
}
