package timetable

import "sort"

// RouteSpec describes one route for NewSynthetic: its ordered stop pattern
// and one StopTime slice per trip, each aligned with Stops.
type RouteSpec struct {
	GTFSRouteID string
	Stops       []StopID
	Trips       [][]StopTime
}

// NewSynthetic builds a Timetable directly from in-memory stops, routes,
// and transfers, bypassing GTFS parsing entirely. It exists for tests and
// for callers embedding a hand-built network (synthetic benchmarks, worked
// examples) without needing fixture files.
func NewSynthetic(stops []Stop, routes []RouteSpec, transfers map[StopID][]Transfer) (*Timetable, error) {
	tt := &Timetable{Stops: append([]Stop(nil), stops...)}

	for _, spec := range routes {
		bucket := make([]tripCandidate, len(spec.Trips))
		for i, st := range spec.Trips {
			bucket[i] = tripCandidate{stopIDs: spec.Stops, stopTimes: st}
		}
		if err := appendRoute(tt, spec.GTFSRouteID, bucket); err != nil {
			return nil, err
		}
	}
	assembleStopRoutes(tt)

	for i := range tt.Stops {
		stop := StopID(i)
		list := append([]Transfer(nil), transfers[stop]...)
		hasSelf := false
		for _, tr := range list {
			if tr.To == stop {
				hasSelf = true
				break
			}
		}
		if !hasSelf {
			list = append(list, Transfer{To: stop, Duration: 0})
		}
		sort.Slice(list, func(a, b int) bool { return list[a].To < list[b].To })

		start := int32(len(tt.Transfers))
		tt.Transfers = append(tt.Transfers, list...)
		tt.Stops[i].transfersStart = start
		tt.Stops[i].transfersLen = int32(len(list))
	}

	return tt, nil
}
