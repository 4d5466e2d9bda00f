package router

import (
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/transitmesh/router/internal/raptor"
	"github.com/transitmesh/router/internal/timetable"
	"github.com/transitmesh/router/internal/workerpool"
)

// TimeRange returns every Pareto-optimal (depart, arrive) pair for
// journeys from origin to dest with a departure inside window, at most
// maxTransfers transfers. A pair is Pareto-optimal if no other reachable
// pair departs at least as late and arrives at least as early — an earlier
// departure that doesn't also arrive strictly earlier is pruned as useless.
//
// Candidate departures are every trip departure at one of origin's access
// stops within the window, plus the window's own endpoints; each is
// evaluated with an independent sweep dispatched across a worker pool,
// which is simpler than incremental rRAPTOR state-carrying and produces an
// identical Pareto front for the window sizes this engine targets.
func TimeRange(model *TransitModel, origin, dest *TransitPoint, window [2]Seconds, maxTransfers int) ([]DepartureArrival, error) {
	start := time.Now()
	tt := model.transit.Timetable

	candidates := candidateDepartures(tt, origin, window)
	targets := egressTargets(dest)

	type evaluated struct {
		depart Seconds
		arrive Seconds
		transfers int
		ok     bool
	}
	results := make([]evaluated, len(candidates))

	p := pool.New().WithMaxGoroutines(workerpool.Default())
	for i, depart := range candidates {
		i, depart := i, depart
		p.Go(func() {
			sources := accessToRaptorSources(origin, depart)
			state := raptor.Sweep(tt, sources, maxTransfers+1, targets)
			stop, arrival, ok := bestTarget(state, targets)
			if !ok {
				return
			}
			transfers := 0
			if round, ok := state.BestRoundFor(stop); ok && round > 0 {
				transfers = round - 1
			}
			results[i] = evaluated{depart: depart, arrive: arrival, transfers: transfers, ok: true}
		})
	}
	p.Wait()

	reachable := make([]DepartureArrival, 0, len(results))
	for _, r := range results {
		if r.ok {
			reachable = append(reachable, DepartureArrival{DepartureSec: r.depart, ArrivalSec: r.arrive, Transfers: r.transfers})
		}
	}

	model.metrics.ObserveQuery("time_range", len(reachable) > 0, start)
	return paretoFront(reachable), nil
}

// candidateDepartures lists every departure time worth trying: the
// window's own bounds, plus every trip departure at one of origin's access
// stops that falls inside the window.
func candidateDepartures(tt *timetable.Timetable, origin *TransitPoint, window [2]Seconds) []Seconds {
	seen := map[Seconds]bool{window[0]: true, window[1]: true}
	for _, sa := range origin.access.StopTimes {
		routes := tt.RoutesServing(sa.Stop)
		positions := tt.RoutePositionsServing(sa.Stop)
		for i, route := range routes {
			pos := int(positions[i])
			for trip := 0; trip < tt.NumTrips(route); trip++ {
				dep := tt.TripStopTimes(route, trip)[pos].Departure - sa.Duration
				if dep >= window[0] && dep <= window[1] {
					seen[dep] = true
				}
			}
		}
	}

	out := make([]Seconds, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

func paretoFront(all []DepartureArrival) []DepartureArrival {
	sort.Slice(all, func(i, j int) bool { return all[i].DepartureSec > all[j].DepartureSec })

	var front []DepartureArrival
	bestArrival := timetable.Unreachable
	for _, da := range all {
		if bestArrival == timetable.Unreachable || da.ArrivalSec < bestArrival {
			front = append(front, da)
			bestArrival = da.ArrivalSec
		}
	}
	sort.Slice(front, func(i, j int) bool { return front[i].DepartureSec < front[j].DepartureSec })
	return front
}
