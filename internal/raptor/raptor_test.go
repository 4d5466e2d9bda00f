package raptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitmesh/router/internal/timetable"
)

func stops(n int) []timetable.Stop {
	out := make([]timetable.Stop, n)
	for i := range out {
		out[i] = timetable.Stop{ID: timetable.StopID(i)}
	}
	return out
}

func TestSweepDirectRoute(t *testing.T) {
	tt, err := timetable.NewSynthetic(stops(3), []timetable.RouteSpec{
		{
			GTFSRouteID: "R1",
			Stops:       []timetable.StopID{0, 1, 2},
			Trips: [][]timetable.StopTime{
				{{Arrival: 0, Departure: 0}, {Arrival: 100, Departure: 100}, {Arrival: 200, Departure: 200}},
			},
		},
	}, nil)
	require.NoError(t, err)

	state := Sweep(tt, []AccessStop{{Stop: 0, Duration: 0}}, 1, nil)
	assert.Equal(t, timetable.Seconds(200), state.TauStar[2])

	legs, ok := Reconstruct(tt, state, 2)
	require.True(t, ok)

	var transit *Leg
	for i := range legs {
		if legs[i].Kind == LegTransit {
			transit = &legs[i]
		}
	}
	require.NotNil(t, transit)
	assert.Equal(t, timetable.StopID(0), transit.From)
	assert.Equal(t, timetable.StopID(2), transit.To)
	assert.Equal(t, timetable.Seconds(0), transit.DepartureSec)
	assert.Equal(t, timetable.Seconds(200), transit.ArrivalSec)
}

func TestSweepDominanceAcrossParallelRoutes(t *testing.T) {
	tt, err := timetable.NewSynthetic(stops(2), []timetable.RouteSpec{
		{
			GTFSRouteID: "slow",
			Stops:       []timetable.StopID{0, 1},
			Trips:       [][]timetable.StopTime{{{Arrival: 0, Departure: 0}, {Arrival: 100, Departure: 100}}},
		},
		{
			GTFSRouteID: "fast",
			Stops:       []timetable.StopID{0, 1},
			Trips:       [][]timetable.StopTime{{{Arrival: 0, Departure: 0}, {Arrival: 50, Departure: 50}}},
		},
	}, nil)
	require.NoError(t, err)

	state := Sweep(tt, []AccessStop{{Stop: 0, Duration: 0}}, 1, nil)
	assert.Equal(t, timetable.Seconds(50), state.TauStar[1], "the faster parallel route must win regardless of scan order")
}

func twoRouteTransferFixture(t *testing.T) *timetable.Timetable {
	t.Helper()
	tt, err := timetable.NewSynthetic(stops(4), []timetable.RouteSpec{
		{
			GTFSRouteID: "R1",
			Stops:       []timetable.StopID{0, 1},
			Trips:       [][]timetable.StopTime{{{Arrival: 0, Departure: 0}, {Arrival: 100, Departure: 100}}},
		},
		{
			GTFSRouteID: "R2",
			Stops:       []timetable.StopID{2, 3},
			Trips:       [][]timetable.StopTime{{{Arrival: 150, Departure: 150}, {Arrival: 250, Departure: 250}}},
		},
	}, map[timetable.StopID][]timetable.Transfer{
		1: {{To: 2, Duration: 20}},
	})
	require.NoError(t, err)
	return tt
}

func TestSweepWithTransferNeedsTwoRounds(t *testing.T) {
	tt := twoRouteTransferFixture(t)

	oneRound := Sweep(tt, []AccessStop{{Stop: 0, Duration: 0}}, 1, nil)
	assert.Equal(t, timetable.Unreachable, oneRound.TauStar[3], "reaching stop 3 needs a second trip, impossible within one round")

	twoRounds := Sweep(tt, []AccessStop{{Stop: 0, Duration: 0}}, 2, nil)
	assert.Equal(t, timetable.Seconds(250), twoRounds.TauStar[3])

	legs, ok := Reconstruct(tt, twoRounds, 3)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(legs), 2)
	assert.Equal(t, LegTransit, legs[len(legs)-1].Kind)
	assert.Equal(t, timetable.StopID(3), legs[len(legs)-1].To)
}

func TestSweepMoreRoundsNeverWorsensArrival(t *testing.T) {
	tt := twoRouteTransferFixture(t)

	two := Sweep(tt, []AccessStop{{Stop: 0, Duration: 0}}, 2, nil)
	three := Sweep(tt, []AccessStop{{Stop: 0, Duration: 0}}, 3, nil)

	assert.Equal(t, two.TauStar[3], three.TauStar[3], "an extra permitted round must not change an already-optimal arrival")
	assert.Equal(t, two.TauStar[1], three.TauStar[1])
}

func TestSweepTargetPruningKeepsCorrectness(t *testing.T) {
	tt := twoRouteTransferFixture(t)
	state := Sweep(tt, []AccessStop{{Stop: 0, Duration: 0}}, 2, map[timetable.StopID]timetable.Seconds{3: 0})
	assert.Equal(t, timetable.Seconds(250), state.TauStar[3])
}

func TestSweepUnreachableStopStaysUnreachable(t *testing.T) {
	tt, err := timetable.NewSynthetic(stops(2), nil, nil)
	require.NoError(t, err)

	state := Sweep(tt, []AccessStop{{Stop: 0, Duration: 0}}, 2, nil)
	assert.Equal(t, timetable.Unreachable, state.TauStar[1])

	_, ok := Reconstruct(tt, state, 1)
	assert.False(t, ok)
}
