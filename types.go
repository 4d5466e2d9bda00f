package router

import (
	"sort"

	"github.com/transitmesh/router/internal/raptor"
	"github.com/transitmesh/router/internal/timetable"
)

// RouteResult is a cheap earliest-arrival answer: enough to say when you'd
// arrive and how many transfers it took, without the full leg-by-leg
// itinerary DetailedJourney builds.
type RouteResult struct {
	ArrivalSec  Seconds
	TravelTimeS Seconds
	Transfers   int
}

// LegKind classifies one leg of a Journey.
type LegKind int

const (
	LegWalk LegKind = iota
	LegTransit
)

// Leg is one segment of a detailed itinerary, in travel order.
type Leg struct {
	Kind LegKind

	DepartureSec Seconds
	ArrivalSec   Seconds

	FromLat, FromLon float64
	ToLat, ToLon     float64

	// Route/TripIndex are set for LegTransit only.
	Route     timetable.RouteID
	TripIndex int

	// Polyline is the leg's path encoded as a Google polyline string.
	Polyline string
}

// Journey is a complete door-to-door itinerary.
type Journey struct {
	DepartureSec Seconds
	ArrivalSec   Seconds
	TravelTimeS  Seconds
	Transfers    int
	Legs         []Leg
}

// DepartureArrival is one entry of a TimeRange result: a Pareto-optimal
// (depart, arrive) pair, meaning no other reachable pair departs at least
// as late and arrives at least as early.
type DepartureArrival struct {
	DepartureSec Seconds
	ArrivalSec   Seconds
	Transfers    int
}

func accessToRaptorSources(pt *TransitPoint, depart Seconds) []raptor.AccessStop {
	sources := make([]raptor.AccessStop, len(pt.access.StopTimes))
	for i, sa := range pt.access.StopTimes {
		sources[i] = raptor.AccessStop{Stop: sa.Stop, Duration: depart + sa.Duration}
	}
	return sources
}

func egressTargets(pt *TransitPoint) map[timetable.StopID]timetable.Seconds {
	m := make(map[timetable.StopID]timetable.Seconds, len(pt.access.StopTimes))
	for _, sa := range pt.access.StopTimes {
		m[sa.Stop] = sa.Duration
	}
	return m
}

// bestTarget scans a sweep's tau_star against a set of egress stops and
// returns the earliest total arrival at the true destination. Candidate
// stops are visited in ascending id order (never Go's randomized map
// iteration order) so that a tie on total arrival always resolves to the
// same stop across repeated, otherwise-identical queries.
func bestTarget(state *raptor.State, targets map[timetable.StopID]timetable.Seconds) (stop timetable.StopID, arrival Seconds, ok bool) {
	stops := make([]timetable.StopID, 0, len(targets))
	for s := range targets {
		stops = append(stops, s)
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i] < stops[j] })

	best := timetable.Unreachable
	var bestStop timetable.StopID
	for _, s := range stops {
		a := state.TauStar[s]
		if a == timetable.Unreachable {
			continue
		}
		total := a + targets[s]
		if best == timetable.Unreachable || total < best {
			best, bestStop = total, s
		}
	}
	if best == timetable.Unreachable {
		return 0, timetable.Unreachable, false
	}
	return bestStop, best, true
}
