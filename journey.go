package router

import (
	"github.com/transitmesh/router/internal/raptor"
	"github.com/transitmesh/router/internal/timetable"
	"github.com/twpayne/go-polyline"
)

func encodePolyline(coords [][]float64) string {
	return string(polyline.EncodeCoords(coords))
}

func encodeWalkPolyline(fromLat, fromLon, toLat, toLon float64) string {
	return encodePolyline([][]float64{{fromLat, fromLon}, {toLat, toLon}})
}

func intermediateCoords(tt *timetable.Timetable, route timetable.RouteID, fromPos, toPos int) [][]float64 {
	stops := tt.RouteStopsOf(route)
	coords := make([][]float64, 0, toPos-fromPos+1)
	for i := fromPos; i <= toPos; i++ {
		s := tt.Stops[stops[i]]
		coords = append(coords, []float64{s.Lat, s.Lon})
	}
	return coords
}

// buildLegs turns a RAPTOR backlink reconstruction into the presentation
// leg list: the first walk leg is reinterpreted as origin-point-to-stop
// (the sweep only knows about the stop it reached), every transit leg gets
// its full stop-to-stop geometry, and a final egress leg from the last
// stop to the destination point is appended.
func buildLegs(tt *timetable.Timetable, origin, dest *TransitPoint, raptorLegs []raptor.Leg, egressDuration Seconds) []Leg {
	legs := make([]Leg, 0, len(raptorLegs)+1)

	for i, rl := range raptorLegs {
		switch rl.Kind {
		case raptor.LegWalk:
			var fromLat, fromLon float64
			if i == 0 {
				fromLat, fromLon = origin.access.Lat, origin.access.Lon
			} else {
				from := tt.Stops[rl.From]
				fromLat, fromLon = from.Lat, from.Lon
			}
			to := tt.Stops[rl.To]
			legs = append(legs, Leg{
				Kind:         LegWalk,
				DepartureSec: rl.DepartureSec,
				ArrivalSec:   rl.ArrivalSec,
				FromLat:      fromLat,
				FromLon:      fromLon,
				ToLat:        to.Lat,
				ToLon:        to.Lon,
				Polyline:     encodeWalkPolyline(fromLat, fromLon, to.Lat, to.Lon),
			})

		case raptor.LegTransit:
			from := tt.Stops[rl.From]
			to := tt.Stops[rl.To]
			coords := intermediateCoords(tt, rl.Route, rl.FromStopPosition, rl.ToStopPosition)
			legs = append(legs, Leg{
				Kind:         LegTransit,
				DepartureSec: rl.DepartureSec,
				ArrivalSec:   rl.ArrivalSec,
				FromLat:      from.Lat,
				FromLon:      from.Lon,
				ToLat:        to.Lat,
				ToLon:        to.Lon,
				Route:        rl.Route,
				TripIndex:    rl.TripIndex,
				Polyline:     encodePolyline(coords),
			})
		}
	}

	if len(legs) == 0 {
		return legs
	}

	lastStop := tt.Stops[raptorLegs[len(raptorLegs)-1].To]
	lastArrival := legs[len(legs)-1].ArrivalSec
	legs = append(legs, Leg{
		Kind:         LegWalk,
		DepartureSec: lastArrival,
		ArrivalSec:   lastArrival + egressDuration,
		FromLat:      lastStop.Lat,
		FromLon:      lastStop.Lon,
		ToLat:        dest.access.Lat,
		ToLon:        dest.access.Lon,
		Polyline:     encodeWalkPolyline(lastStop.Lat, lastStop.Lon, dest.access.Lat, dest.access.Lon),
	})

	return legs
}
