package raptor

import "github.com/transitmesh/router/internal/timetable"

// LegKind classifies one leg of a reconstructed journey.
type LegKind int

const (
	// LegWalk is the initial access walk or an inter-stop transfer.
	LegWalk LegKind = iota
	// LegTransit is riding a single trip from one stop to another.
	LegTransit
)

// Leg is one segment of a reconstructed journey, in travel order.
type Leg struct {
	Kind LegKind

	From, To         timetable.StopID
	DepartureSec     timetable.Seconds
	ArrivalSec       timetable.Seconds

	// Route/TripIndex/FromStopPosition/ToStopPosition are set for LegTransit only.
	Route            timetable.RouteID
	TripIndex        int
	FromStopPosition int
	ToStopPosition   int
}

// Reconstruct walks a sweep's backlinks from target back to its origin,
// returning the journey's legs in travel order. ok is false if target was
// never reached.
func Reconstruct(tt *timetable.Timetable, state *State, target timetable.StopID) ([]Leg, bool) {
	round, ok := state.BestRoundFor(target)
	if !ok {
		return nil, false
	}

	var legs []Leg
	stop := target

	for {
		label := state.Backlink[round][stop]
		switch label.Kind {
		case LabelInitialWalk:
			arrival := state.Tau[round][stop]
			legs = append(legs, Leg{
				Kind:       LegWalk,
				From:       stop,
				To:         stop,
				ArrivalSec: arrival,
				DepartureSec: arrival - label.Duration,
			})
			reverse(legs)
			return legs, true

		case LabelTransfer:
			arrival := state.Tau[round][stop]
			legs = append(legs, Leg{
				Kind:         LegWalk,
				From:         label.FromStop,
				To:           stop,
				DepartureSec: arrival - label.Duration,
				ArrivalSec:   arrival,
			})
			stop = label.FromStop
			// stays in the same round: the from-stop's own arrival was set
			// by route-riding earlier in this same round.

		case LabelBoardTrip:
			stopTimes := tt.TripStopTimes(label.Route, label.TripIndex)
			routeStops := tt.RouteStopsOf(label.Route)

			toPos, fromPos := -1, -1
			for i, s := range routeStops {
				if s == stop {
					toPos = i
				}
				if s == label.FromStop {
					fromPos = i
				}
			}
			legs = append(legs, Leg{
				Kind:             LegTransit,
				From:             label.FromStop,
				To:               stop,
				DepartureSec:     stopTimes[fromPos].Departure,
				ArrivalSec:       stopTimes[toPos].Arrival,
				Route:            label.Route,
				TripIndex:        label.TripIndex,
				FromStopPosition: fromPos,
				ToStopPosition:   toPos,
			})
			stop = label.FromStop
			round--

		default:
			// Unreachable under correct bookkeeping: every stop on the
			// backlink chain down to round 0 must carry a label.
			reverse(legs)
			return legs, len(legs) > 0
		}
	}
}

func reverse(legs []Leg) {
	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}
}
