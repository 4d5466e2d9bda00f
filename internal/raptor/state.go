// Package raptor implements the round-based public transit routing
// algorithm (RAPTOR): repeated route scans bounded by a transfer count,
// each round improving the best-known arrival time at every stop reachable
// with one more trip than the round before. It depends only on
// internal/timetable — access/egress walking and street snapping live one
// layer up, in internal/transit and the router package, so the core sweep
// stays a pure function of a timetable and a set of already-known
// first-round arrivals.
package raptor

import "github.com/transitmesh/router/internal/timetable"

// AccessStop is a stop reachable from a query's origin (or, for egress
// reconstruction, from its destination) together with the walking duration
// to reach it.
type AccessStop struct {
	Stop     timetable.StopID
	Duration timetable.Seconds
}

// LabelKind identifies how a stop's best arrival in a round was produced,
// for path reconstruction.
type LabelKind int

const (
	// LabelNone marks a stop that was not improved in its round.
	LabelNone LabelKind = iota
	// LabelInitialWalk marks round 0's access-time arrivals.
	LabelInitialWalk
	// LabelBoardTrip marks an arrival produced by riding a trip.
	LabelBoardTrip
	// LabelTransfer marks an arrival produced by walking from another stop
	// reached earlier in the same round.
	LabelTransfer
)

// Label records how Tau[round][stop] was achieved.
type Label struct {
	Kind LabelKind

	// FromStop is the boarding stop (LabelBoardTrip) or the transfer's
	// origin stop (LabelTransfer). Unused for LabelInitialWalk.
	FromStop timetable.StopID

	Route     timetable.RouteID // LabelBoardTrip only
	TripIndex int               // LabelBoardTrip only, 0-based within Route

	Duration timetable.Seconds // LabelInitialWalk / LabelTransfer only
}

// State is the scratch space for one sweep: best arrival per round per
// stop, the running best-ever arrival per stop, and the backlinks needed to
// reconstruct a journey. Rounds are 0 (access only) through MaxRounds
// (access plus MaxRounds trips).
type State struct {
	NumStops  int
	MaxRounds int

	Tau      [][]timetable.Seconds // [round][stop]
	TauStar  []timetable.Seconds   // [stop], best across all rounds so far
	Backlink [][]Label             // [round][stop]

	// RoundsRun is how many rounds actually executed before the sweep
	// found no newly-marked stops, for callers reporting on how close a
	// query ran to its MaxRounds bound.
	RoundsRun int
}

func newState(numStops, maxRounds int) *State {
	tau := make([][]timetable.Seconds, maxRounds+1)
	backlink := make([][]Label, maxRounds+1)
	for k := 0; k <= maxRounds; k++ {
		row := make([]timetable.Seconds, numStops)
		for i := range row {
			row[i] = timetable.Unreachable
		}
		tau[k] = row
		backlink[k] = make([]Label, numStops)
	}
	tauStar := make([]timetable.Seconds, numStops)
	for i := range tauStar {
		tauStar[i] = timetable.Unreachable
	}
	return &State{
		NumStops:  numStops,
		MaxRounds: maxRounds,
		Tau:       tau,
		TauStar:   tauStar,
		Backlink:  backlink,
	}
}

// reset clears a State for reuse against a sweep of the same (numStops,
// maxRounds) shape, without reallocating its backing arrays.
func (s *State) reset() {
	for k := 0; k <= s.MaxRounds; k++ {
		row := s.Tau[k]
		for i := range row {
			row[i] = timetable.Unreachable
		}
		link := s.Backlink[k]
		for i := range link {
			link[i] = Label{}
		}
	}
	for i := range s.TauStar {
		s.TauStar[i] = timetable.Unreachable
	}
	s.RoundsRun = 0
}

// BestRoundFor returns the earliest round at which stop's best-ever arrival
// was achieved, minimizing the number of trips in the returned journey
// among arrivals that tie on total time. ok is false if the stop was never
// reached.
func (s *State) BestRoundFor(stop timetable.StopID) (round int, ok bool) {
	best := s.TauStar[stop]
	if best == timetable.Unreachable {
		return 0, false
	}
	for k := 0; k <= s.MaxRounds; k++ {
		if s.Tau[k][stop] == best {
			return k, true
		}
	}
	return 0, false
}
