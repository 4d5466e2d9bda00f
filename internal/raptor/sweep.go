package raptor

import (
	"sort"

	"github.com/transitmesh/router/internal/timetable"
)

// Sweep runs a round-based search from sources, bounded to maxRounds trips.
// targets, when non-empty, names stops whose walking duration to the true
// destination is known in advance, enabling target pruning: a candidate
// arrival that cannot possibly beat the best destination arrival found so
// far is discarded immediately rather than marked for further expansion.
// Pass a nil or empty targets map for one-to-many/matrix/isochrone queries
// that have no single destination to prune against.
func Sweep(tt *timetable.Timetable, sources []AccessStop, maxRounds int, targets map[timetable.StopID]timetable.Seconds) *State {
	state := newState(len(tt.Stops), maxRounds)
	return sweepInto(state, tt, sources, maxRounds, targets)
}

// sweepInto runs the same round-based search as Sweep but into a
// caller-supplied, freshly-reset state, letting NewPooledRunner reuse one
// State's backing arrays across many queries instead of allocating per call.
func sweepInto(state *State, tt *timetable.Timetable, sources []AccessStop, maxRounds int, targets map[timetable.StopID]timetable.Seconds) *State {
	marked := make([]bool, len(tt.Stops))

	bestDestArrival := timetable.Unreachable
	pruning := len(targets) > 0
	updateBound := func(stop timetable.StopID, arrival timetable.Seconds) {
		if !pruning {
			return
		}
		egress, isTarget := targets[stop]
		if !isTarget {
			return
		}
		total := arrival + egress
		if bestDestArrival == timetable.Unreachable || total < bestDestArrival {
			bestDestArrival = total
		}
	}

	for _, src := range sources {
		if state.Tau[0][src.Stop] == timetable.Unreachable || src.Duration < state.Tau[0][src.Stop] {
			state.Tau[0][src.Stop] = src.Duration
			state.TauStar[src.Stop] = src.Duration
			state.Backlink[0][src.Stop] = Label{Kind: LabelInitialWalk, Duration: src.Duration}
			marked[src.Stop] = true
			updateBound(src.Stop, src.Duration)
		}
	}

	for round := 1; round <= maxRounds; round++ {
		copy(state.Tau[round], state.Tau[round-1])

		routeScans := collectRoutes(tt, marked)
		if len(routeScans) == 0 {
			break
		}
		for i := range marked {
			marked[i] = false
		}

		anyMarked := false
		for _, rs := range routeScans {
			if scanRoute(tt, state, rs.route, rs.minPos, round, marked, bestDestArrival, pruning, updateBound) {
				anyMarked = true
			}
		}

		if relaxTransfers(tt, state, round, marked, bestDestArrival, pruning, updateBound) {
			anyMarked = true
		}

		state.RoundsRun = round
		if !anyMarked {
			break
		}
	}

	return state
}

// routeScan is one route to scan this round, starting from its earliest
// marked stop position.
type routeScan struct {
	route  timetable.RouteID
	minPos int
}

// collectRoutes finds every route serving a marked stop and the earliest
// (smallest) stop-sequence position among those marked stops, so scanRoute
// need not rescan a route's already-passed stops. Routes are returned
// sorted by ascending RouteID so a round's scan order — and therefore which
// of two tied arrivals wins a dominance check — never depends on Go's
// randomized map iteration order.
func collectRoutes(tt *timetable.Timetable, marked []bool) []routeScan {
	routeMinPos := make(map[timetable.RouteID]int)
	for i, isMarked := range marked {
		if !isMarked {
			continue
		}
		stop := timetable.StopID(i)
		routes := tt.RoutesServing(stop)
		positions := tt.RoutePositionsServing(stop)
		for j, route := range routes {
			pos := int(positions[j])
			if existing, ok := routeMinPos[route]; !ok || pos < existing {
				routeMinPos[route] = pos
			}
		}
	}

	scans := make([]routeScan, 0, len(routeMinPos))
	for route, minPos := range routeMinPos {
		scans = append(scans, routeScan{route: route, minPos: minPos})
	}
	sort.Slice(scans, func(i, j int) bool { return scans[i].route < scans[j].route })
	return scans
}

func scanRoute(
	tt *timetable.Timetable,
	state *State,
	route timetable.RouteID,
	minPos int,
	round int,
	marked []bool,
	bestDestArrival timetable.Seconds,
	pruning bool,
	updateBound func(timetable.StopID, timetable.Seconds),
) bool {
	stops := tt.RouteStopsOf(route)
	improved := false

	tripIdx := -1
	var boardedAt timetable.StopID

	for i := minPos; i < len(stops); i++ {
		stop := stops[i]

		if tripIdx != -1 {
			st := tt.TripStopTimes(route, tripIdx)[i]
			bound := state.TauStar[stop]
			if pruning && bestDestArrival != timetable.Unreachable && bestDestArrival < bound {
				bound = bestDestArrival
			}
			if bound == timetable.Unreachable || st.Arrival < bound {
				arrival := st.Arrival
				state.Tau[round][stop] = arrival
				state.TauStar[stop] = arrival
				state.Backlink[round][stop] = Label{Kind: LabelBoardTrip, Route: route, TripIndex: tripIdx, FromStop: boardedAt}
				marked[stop] = true
				improved = true
				updateBound(stop, arrival)
			}
		}

		prevArrival := state.Tau[round-1][stop]
		if prevArrival == timetable.Unreachable {
			continue
		}
		if candidate, ok := tt.FindEarliestTrip(route, i, prevArrival); ok {
			if tripIdx == -1 || candidate < tripIdx {
				tripIdx = candidate
				boardedAt = stop
			}
		}
	}
	return improved
}

func relaxTransfers(
	tt *timetable.Timetable,
	state *State,
	round int,
	marked []bool,
	bestDestArrival timetable.Seconds,
	pruning bool,
	updateBound func(timetable.StopID, timetable.Seconds),
) bool {
	improved := false
	// Snapshot which stops were marked by route-riding before relaxing
	// transfers from them, so a transfer chain doesn't cascade within the
	// same round beyond one hop (matching RAPTOR's single transfer-per-round
	// semantics: a second hop is a later round's work).
	fromStops := make([]timetable.StopID, 0, len(marked))
	for i, isMarked := range marked {
		if isMarked {
			fromStops = append(fromStops, timetable.StopID(i))
		}
	}

	for _, from := range fromStops {
		base := state.Tau[round][from]
		if base == timetable.Unreachable {
			continue
		}
		for _, tr := range tt.StopTransfers(from) {
			if tr.To == from {
				continue
			}
			candidate := base + tr.Duration
			bound := state.TauStar[tr.To]
			if pruning && bestDestArrival != timetable.Unreachable && bestDestArrival < bound {
				bound = bestDestArrival
			}
			if bound != timetable.Unreachable && candidate >= bound {
				continue
			}
			state.Tau[round][tr.To] = candidate
			state.TauStar[tr.To] = candidate
			state.Backlink[round][tr.To] = Label{Kind: LabelTransfer, FromStop: from, Duration: tr.Duration}
			marked[tr.To] = true
			improved = true
			updateBound(tr.To, candidate)
		}
	}
	return improved
}
