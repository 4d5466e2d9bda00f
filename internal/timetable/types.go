// Package timetable holds the immutable, dense-indexed transit schedule
// built from one or more parsed GTFS feeds: stops, routes grouped by stop
// pattern, their trips, and the stop-to-stop transfer graph. Every
// cross-reference is a flat array slice (CSR layout), never a pointer or a
// map, so a RAPTOR sweep never allocates beyond its own per-round state.
package timetable

import "github.com/transitmesh/router/internal/street"

// StopID is a dense index into Timetable.Stops.
type StopID int32

// RouteID is a dense index into Timetable.Routes.
type RouteID int32

// TripID is a dense index into Timetable.Trips.
type TripID int32

// Seconds is seconds past a service day's reference midnight. It does not
// wrap at 86400: a trip that departs at 25:30 on the service day is
// represented as 91800, matching the GTFS convention and letting every
// RAPTOR comparison stay a plain integer compare.
type Seconds int32

// Unreachable marks "no trip found" / "no arrival computed". It is a
// sentinel value, not a Go error.
const Unreachable Seconds = -1

// Stop is one transit stop, plus its pre-indexed relationships: the routes
// serving it, its position within each of those routes, and its
// street-network access points.
type Stop struct {
	ID  StopID
	Lat float64
	Lon float64

	// StreetNode is the nearest street-graph node, for transfers and
	// first/last-mile walking. HasStreetNode is false if the stop could not
	// be snapped (isolated stop with no street data nearby).
	StreetNode    street.NodeID
	HasStreetNode bool

	routesStart    int32
	routesLen      int32
	transfersStart int32
	transfersLen   int32
}

// Route groups trips that share an identical ordered stop pattern. A single
// GTFS route whose trips serve stops in more than one order, or whose trips
// violate FIFO ordering against each other, is split into several Routes.
type Route struct {
	ID RouteID

	// GTFSRouteID is the originating routes.txt id, kept for display; it is
	// not unique across Routes since one GTFS route can split into several.
	GTFSRouteID string

	stopsStart int32
	numStops   int32

	tripsStart int32 // offset into Timetable.Trips
	numTrips   int32

	// stopTimesStart indexes into Timetable.StopTimes. Trip i's (0-based
	// within the route) stop times occupy
	// [stopTimesStart+i*numStops, stopTimesStart+(i+1)*numStops).
	stopTimesStart int32
}

// Trip is one scheduled run of a Route. Trips within a route are sorted by
// departure time at the route's first stop, ascending, which is what makes
// FindEarliestTrip a binary search.
type Trip struct {
	ID          TripID
	Route       RouteID
	IndexInRoute int32
	GTFSTripID  string
}

// StopTime is one (arrival, departure) pair for a trip at one stop-sequence
// position.
type StopTime struct {
	Arrival   Seconds
	Departure Seconds
}

// Transfer is a precomputed walking connection from one stop to another,
// including transfers from a stop to itself representing the minimum
// reboarding/alighting buffer.
type Transfer struct {
	To       StopID
	Duration Seconds
}

// Timetable is the complete, immutable schedule. Build it once with
// BuildFromFeeds; every field below is read-only after construction.
type Timetable struct {
	Stops  []Stop
	Routes []Route
	Trips  []Trip

	RouteStops []StopID   // flat, route.stopsStart:+numStops
	StopTimes  []StopTime // flat, see Route.stopTimesStart
	StopRoutes []RouteID  // flat, stop.routesStart:+routesLen

	// StopRoutePositions[i] is the stop's position within the route named
	// by StopRoutes[i] — the same index space as StopRoutes.
	StopRoutePositions []int32

	Transfers []Transfer // flat, stop.transfersStart:+transfersLen
}

// RouteStopsOf returns the ordered stop sequence for a route.
func (tt *Timetable) RouteStopsOf(r RouteID) []StopID {
	route := tt.Routes[r]
	return tt.RouteStops[route.stopsStart : route.stopsStart+route.numStops]
}

// NumTrips returns how many trips serve a route.
func (tt *Timetable) NumTrips(r RouteID) int {
	return int(tt.Routes[r].numTrips)
}

// TripStopTimes returns trip tripIdx's (0-based within the route) stop
// times, aligned with RouteStopsOf(r).
func (tt *Timetable) TripStopTimes(r RouteID, tripIdx int) []StopTime {
	route := tt.Routes[r]
	start := route.stopTimesStart + int32(tripIdx)*route.numStops
	return tt.StopTimes[start : start+route.numStops]
}

// RoutesServing returns every route calling at a stop.
func (tt *Timetable) RoutesServing(s StopID) []RouteID {
	stop := tt.Stops[s]
	return tt.StopRoutes[stop.routesStart : stop.routesStart+stop.routesLen]
}

// RoutePositionsServing returns, parallel to RoutesServing(s), the stop's
// position within each of those routes.
func (tt *Timetable) RoutePositionsServing(s StopID) []int32 {
	stop := tt.Stops[s]
	return tt.StopRoutePositions[stop.routesStart : stop.routesStart+stop.routesLen]
}

// StopTransfers returns the precomputed transfers out of a stop.
func (tt *Timetable) StopTransfers(s StopID) []Transfer {
	stop := tt.Stops[s]
	return tt.Transfers[stop.transfersStart : stop.transfersStart+stop.transfersLen]
}

// FindEarliestTrip returns the index (within the route, 0-based) of the
// earliest trip departing stopPos at or after earliestDeparture, using
// binary search over trips sorted by departure time. ok is false if no such
// trip exists.
func (tt *Timetable) FindEarliestTrip(r RouteID, stopPos int, earliestDeparture Seconds) (tripIdx int, ok bool) {
	n := tt.NumTrips(r)
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		dep := tt.TripStopTimes(r, mid)[stopPos].Departure
		if dep < earliestDeparture {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == n {
		return 0, false
	}
	return lo, true
}
