package timetable

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"sort"
	"strconv"
	"time"

	gtfs "github.com/OneBusAway/go-gtfs"
	"github.com/transitmesh/router/internal/gtfsraw"
	"github.com/transitmesh/router/routererr"
)

// BuildFromGTFS adapts one or more parsed go-gtfs static feeds to this
// package's neutral contract and builds a Timetable from them. This is the
// entry point model construction calls; BuildFromFeeds is the part grounded
// directly in the router's own domain types, usable independently in tests.
func BuildFromGTFS(feeds []*gtfs.Static, serviceDate time.Time) (*Timetable, error) {
	converted := make([]*gtfsraw.Feed, len(feeds))
	for i, f := range feeds {
		feed, err := gtfsraw.FromStatic(f)
		if err != nil {
			return nil, err
		}
		converted[i] = feed
	}
	return BuildFromFeeds(converted, serviceDate)
}

// tripCandidate is one fully-resolved trip instance (real or
// frequency-expanded) awaiting grouping into a Route.
type tripCandidate struct {
	gtfsTripID string
	stopIDs    []StopID
	stopTimes  []StopTime
}

// groupKey identifies a set of trips that share an originating GTFS route
// and an identical ordered stop pattern, and therefore belong on the same
// Route before any FIFO-violation split.
type groupKey struct {
	feedIdx     int
	gtfsRouteID string
	patternHash uint64
}

// BuildFromFeeds constructs an immutable Timetable from one or more parsed
// GTFS feeds, keeping only trips active on serviceDate. Stop ids are
// namespaced per feed, so the same physical stop appearing in two feeds
// produces two Stops; cross-feed interchange happens through ordinary
// walking transfers, computed separately by ComputeTransfers.
func BuildFromFeeds(feeds []*gtfsraw.Feed, serviceDate time.Time) (*Timetable, error) {
	if len(feeds) == 0 {
		return nil, fmt.Errorf("no GTFS feeds supplied: %w", routererr.ErrConfig)
	}

	logger := slog.Default().With(slog.String("component", "timetable_builder"))

	tt := &Timetable{}
	stopIndex := make(map[string]StopID)

	for feedIdx, feed := range feeds {
		for _, s := range feed.Stops {
			id := StopID(len(tt.Stops))
			tt.Stops = append(tt.Stops, Stop{ID: id, Lat: s.Lat, Lon: s.Lon})
			stopIndex[stopKey(feedIdx, s.ID)] = id
		}
	}

	groups := make(map[groupKey][]tripCandidate)
	var inactiveDropped, shortDropped int

	for feedIdx, feed := range feeds {
		services := make(map[string]*gtfsraw.Service, len(feed.Services))
		for i := range feed.Services {
			services[feed.Services[i].ID] = &feed.Services[i]
		}

		for _, trip := range feed.Trips {
			svc, ok := services[trip.ServiceID]
			if !ok || !svc.ActiveOn(serviceDate) {
				inactiveDropped++
				continue
			}
			if len(trip.StopTimes) < 2 {
				shortDropped++ // a trip needs at least an origin and a destination
				continue
			}

			sorted := make([]gtfsraw.StopTime, len(trip.StopTimes))
			copy(sorted, trip.StopTimes)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].StopSequence < sorted[j].StopSequence })

			stopIDs := make([]StopID, len(sorted))
			for i, st := range sorted {
				id, ok := stopIndex[stopKey(feedIdx, st.StopID)]
				if !ok {
					return nil, fmt.Errorf("trip %s references unknown stop %s: %w", trip.ID, st.StopID, routererr.ErrInput)
				}
				stopIDs[i] = id
			}

			candidates := expandFrequencies(trip, sorted)

			for _, c := range candidates {
				c.gtfsTripID = trip.ID
				c.stopIDs = stopIDs
				key := groupKey{
					feedIdx:     feedIdx,
					gtfsRouteID: trip.RouteID,
					patternHash: hashStopPattern(stopIDs),
				}
				groups[key] = append(groups[key], c)
			}
		}
	}

	if inactiveDropped > 0 || shortDropped > 0 {
		logger.Warn("dropped trips during timetable construction",
			slog.Time("service_date", serviceDate),
			slog.Int("inactive_service", inactiveDropped),
			slog.Int("fewer_than_two_stop_times", shortDropped))
	}

	if err := assembleRoutes(tt, groups, logger); err != nil {
		return nil, err
	}
	assembleStopRoutes(tt)

	return tt, nil
}

func stopKey(feedIdx int, gtfsStopID string) string {
	return strconv.Itoa(feedIdx) + ":" + gtfsStopID
}

func hashStopPattern(stops []StopID) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, 8)
	for _, s := range stops {
		buf = strconv.AppendInt(buf[:0], int64(s), 10)
		h.Write(buf)
		h.Write([]byte{'|'})
	}
	return h.Sum64()
}

// expandFrequencies returns the explicit trip instances a trip represents:
// itself unchanged if it carries no frequencies.txt rows, or one instance
// per headway departure otherwise, each shifted by the delta between the
// generated start time and the template's first-stop departure.
func expandFrequencies(trip gtfsraw.Trip, sorted []gtfsraw.StopTime) []tripCandidate {
	base := make([]StopTime, len(sorted))
	for i, st := range sorted {
		base[i] = StopTime{Arrival: Seconds(st.ArrivalSec), Departure: Seconds(st.DepartureSec)}
	}

	if len(trip.Frequencies) == 0 {
		return []tripCandidate{{stopTimes: base}}
	}

	templateStart := base[0].Departure
	var out []tripCandidate
	for _, freq := range trip.Frequencies {
		if freq.HeadwaySec <= 0 {
			continue
		}
		for start := freq.StartSec; start < freq.EndSec; start += freq.HeadwaySec {
			delta := Seconds(start) - templateStart
			shifted := make([]StopTime, len(base))
			for i, st := range base {
				shifted[i] = StopTime{Arrival: st.Arrival + delta, Departure: st.Departure + delta}
			}
			out = append(out, tripCandidate{stopTimes: shifted})
		}
	}
	return out
}

// assembleRoutes groups trips within each groupKey by FIFO compliance,
// splitting a group into multiple Routes wherever a later-departing trip
// would otherwise overtake an earlier one somewhere along the pattern, then
// flattens everything into the Timetable's dense arrays.
func assembleRoutes(tt *Timetable, groups map[groupKey][]tripCandidate, logger *slog.Logger) error {
	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].feedIdx != keys[j].feedIdx {
			return keys[i].feedIdx < keys[j].feedIdx
		}
		if keys[i].gtfsRouteID != keys[j].gtfsRouteID {
			return keys[i].gtfsRouteID < keys[j].gtfsRouteID
		}
		return keys[i].patternHash < keys[j].patternHash
	})

	for _, key := range keys {
		trips := groups[key]
		sort.SliceStable(trips, func(i, j int) bool {
			if trips[i].stopTimes[0].Departure != trips[j].stopTimes[0].Departure {
				return trips[i].stopTimes[0].Departure < trips[j].stopTimes[0].Departure
			}
			return trips[i].gtfsTripID < trips[j].gtfsTripID
		})

		buckets := splitFIFO(trips)
		if len(buckets) > 1 {
			logger.Warn("route split on FIFO violation",
				slog.String("gtfs_route_id", key.gtfsRouteID),
				slog.Int("feed_index", key.feedIdx),
				slog.Int("split_into", len(buckets)))
		}
		for _, bucket := range buckets {
			if err := appendRoute(tt, key.gtfsRouteID, bucket); err != nil {
				return err
			}
		}
	}
	return nil
}

func splitFIFO(trips []tripCandidate) [][]tripCandidate {
	var buckets [][]tripCandidate
	var current []tripCandidate

	for _, trip := range trips {
		if len(current) > 0 && !fifoCompatible(current[len(current)-1], trip) {
			buckets = append(buckets, current)
			current = nil
		}
		current = append(current, trip)
	}
	if len(current) > 0 {
		buckets = append(buckets, current)
	}
	return buckets
}

func fifoCompatible(prev, next tripCandidate) bool {
	for i := range prev.stopTimes {
		if next.stopTimes[i].Arrival < prev.stopTimes[i].Arrival {
			return false
		}
		if next.stopTimes[i].Departure < prev.stopTimes[i].Departure {
			return false
		}
	}
	return true
}

func appendRoute(tt *Timetable, gtfsRouteID string, bucket []tripCandidate) error {
	routeID := RouteID(len(tt.Routes))
	numStops := int32(len(bucket[0].stopIDs))

	stopsStart := int32(len(tt.RouteStops))
	tt.RouteStops = append(tt.RouteStops, bucket[0].stopIDs...)

	stopTimesStart := int32(len(tt.StopTimes))
	tripsStart := int32(len(tt.Trips))

	for i, trip := range bucket {
		if int32(len(trip.stopTimes)) != numStops {
			return fmt.Errorf("trip %s has %d stop times, route pattern expects %d: %w",
				trip.gtfsTripID, len(trip.stopTimes), numStops, routererr.ErrInput)
		}
		tt.StopTimes = append(tt.StopTimes, trip.stopTimes...)
		tt.Trips = append(tt.Trips, Trip{
			ID:           TripID(len(tt.Trips)),
			Route:        routeID,
			IndexInRoute: int32(i),
			GTFSTripID:   trip.gtfsTripID,
		})
	}

	tt.Routes = append(tt.Routes, Route{
		ID:             routeID,
		GTFSRouteID:    gtfsRouteID,
		stopsStart:     stopsStart,
		numStops:       numStops,
		tripsStart:     tripsStart,
		numTrips:       int32(len(bucket)),
		stopTimesStart: stopTimesStart,
	})
	return nil
}

// assembleStopRoutes builds the stop -> serving-routes CSR index after all
// routes exist, sorted by RouteID so RoutesServing is deterministic.
func assembleStopRoutes(tt *Timetable) {
	type entry struct {
		route RouteID
		pos   int32
	}
	byStop := make(map[StopID][]entry)

	for _, route := range tt.Routes {
		stops := tt.RouteStopsOf(route.ID)
		for pos, stop := range stops {
			byStop[stop] = append(byStop[stop], entry{route: route.ID, pos: int32(pos)})
		}
	}

	for i := range tt.Stops {
		s := StopID(i)
		entries := byStop[s]
		sort.Slice(entries, func(a, b int) bool { return entries[a].route < entries[b].route })

		start := int32(len(tt.StopRoutes))
		for _, e := range entries {
			tt.StopRoutes = append(tt.StopRoutes, e.route)
			tt.StopRoutePositions = append(tt.StopRoutePositions, e.pos)
		}
		tt.Stops[i].routesStart = start
		tt.Stops[i].routesLen = int32(len(entries))
	}
}
