package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitmesh/router/internal/gtfsraw"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func simpleFeed(t *testing.T) *gtfsraw.Feed {
	t.Helper()
	return &gtfsraw.Feed{
		Stops: []gtfsraw.Stop{
			{ID: "A", Lat: 0, Lon: 0},
			{ID: "B", Lat: 0, Lon: 0.01},
			{ID: "C", Lat: 0, Lon: 0.02},
		},
		Routes: []gtfsraw.Route{{ID: "R1", ShortName: "1"}},
		Services: []gtfsraw.Service{
			{
				ID:        "WD",
				StartDate: mustDate(t, "2026-01-01"),
				EndDate:   mustDate(t, "2026-12-31"),
				Weekday:   [7]bool{false, true, true, true, true, true, false},
			},
		},
		Trips: []gtfsraw.Trip{
			{
				ID: "T1", RouteID: "R1", ServiceID: "WD",
				StopTimes: []gtfsraw.StopTime{
					{StopID: "A", StopSequence: 0, ArrivalSec: 0, DepartureSec: 0},
					{StopID: "B", StopSequence: 1, ArrivalSec: 100, DepartureSec: 100},
					{StopID: "C", StopSequence: 2, ArrivalSec: 200, DepartureSec: 200},
				},
			},
			{
				ID: "T2", RouteID: "R1", ServiceID: "WD",
				StopTimes: []gtfsraw.StopTime{
					{StopID: "A", StopSequence: 0, ArrivalSec: 600, DepartureSec: 600},
					{StopID: "B", StopSequence: 1, ArrivalSec: 700, DepartureSec: 700},
					{StopID: "C", StopSequence: 2, ArrivalSec: 800, DepartureSec: 800},
				},
			},
		},
	}
}

func TestBuildFromFeedsBasicRoute(t *testing.T) {
	tt, err := BuildFromFeeds([]*gtfsraw.Feed{simpleFeed(t)}, mustDate(t, "2026-01-05")) // Monday
	require.NoError(t, err)

	require.Len(t, tt.Stops, 3)
	require.Len(t, tt.Routes, 1)
	assert.Equal(t, 2, tt.NumTrips(0))

	stops := tt.RouteStopsOf(0)
	assert.Equal(t, []StopID{0, 1, 2}, stops)

	first := tt.TripStopTimes(0, 0)
	assert.Equal(t, Seconds(0), first[0].Departure)
	assert.Equal(t, Seconds(200), first[2].Arrival)
}

func TestBuildFromFeedsFiltersInactiveService(t *testing.T) {
	feed := simpleFeed(t)
	feed.Services[0].Weekday = [7]bool{false, false, false, false, false, false, false} // never runs

	tt, err := BuildFromFeeds([]*gtfsraw.Feed{feed}, mustDate(t, "2026-01-05"))
	require.NoError(t, err)
	assert.Empty(t, tt.Routes)
}

func TestFindEarliestTrip(t *testing.T) {
	tt, err := BuildFromFeeds([]*gtfsraw.Feed{simpleFeed(t)}, mustDate(t, "2026-01-05"))
	require.NoError(t, err)

	idx, ok := tt.FindEarliestTrip(0, 0, 50)
	require.True(t, ok)
	assert.Equal(t, 1, idx) // T1 departs at 0 < 50, T2 at 600 is the earliest >= 50

	_, ok = tt.FindEarliestTrip(0, 0, 10000)
	assert.False(t, ok)
}

func TestFIFOViolationSplitsRoute(t *testing.T) {
	feed := &gtfsraw.Feed{
		Stops: []gtfsraw.Stop{{ID: "A"}, {ID: "B"}},
		Routes: []gtfsraw.Route{{ID: "R1"}},
		Services: []gtfsraw.Service{{
			ID: "WD", StartDate: mustDate(t, "2026-01-01"), EndDate: mustDate(t, "2026-12-31"),
			Weekday: [7]bool{true, true, true, true, true, true, true},
		}},
		Trips: []gtfsraw.Trip{
			{ID: "early", RouteID: "R1", ServiceID: "WD", StopTimes: []gtfsraw.StopTime{
				{StopID: "A", StopSequence: 0, DepartureSec: 0},
				{StopID: "B", StopSequence: 1, ArrivalSec: 1000, DepartureSec: 1000},
			}},
			// departs A later than "early" but arrives B earlier: overtakes it.
			{ID: "overtaker", RouteID: "R1", ServiceID: "WD", StopTimes: []gtfsraw.StopTime{
				{StopID: "A", StopSequence: 0, DepartureSec: 50},
				{StopID: "B", StopSequence: 1, ArrivalSec: 100, DepartureSec: 100},
			}},
		},
	}

	tt, err := BuildFromFeeds([]*gtfsraw.Feed{feed}, mustDate(t, "2026-01-05"))
	require.NoError(t, err)
	assert.Len(t, tt.Routes, 2, "an overtaking trip must be split into its own route")
}

func TestFrequencyExpansion(t *testing.T) {
	feed := &gtfsraw.Feed{
		Stops: []gtfsraw.Stop{{ID: "A"}, {ID: "B"}},
		Routes: []gtfsraw.Route{{ID: "R1"}},
		Services: []gtfsraw.Service{{
			ID: "WD", StartDate: mustDate(t, "2026-01-01"), EndDate: mustDate(t, "2026-12-31"),
			Weekday: [7]bool{true, true, true, true, true, true, true},
		}},
		Trips: []gtfsraw.Trip{
			{
				ID: "freq", RouteID: "R1", ServiceID: "WD",
				StopTimes: []gtfsraw.StopTime{
					{StopID: "A", StopSequence: 0, DepartureSec: 0},
					{StopID: "B", StopSequence: 1, ArrivalSec: 300, DepartureSec: 300},
				},
				Frequencies: []gtfsraw.Frequency{
					{StartSec: 0, EndSec: 1800, HeadwaySec: 600},
				},
			},
		},
	}

	tt, err := BuildFromFeeds([]*gtfsraw.Feed{feed}, mustDate(t, "2026-01-05"))
	require.NoError(t, err)
	require.Len(t, tt.Routes, 1)
	assert.Equal(t, 3, tt.NumTrips(0)) // departures at 0, 600, 1200

	assert.Equal(t, Seconds(0), tt.TripStopTimes(0, 0)[0].Departure)
	assert.Equal(t, Seconds(600), tt.TripStopTimes(0, 1)[0].Departure)
	assert.Equal(t, Seconds(1200), tt.TripStopTimes(0, 2)[0].Departure)
}

func TestRoutesServingAndPositions(t *testing.T) {
	tt, err := BuildFromFeeds([]*gtfsraw.Feed{simpleFeed(t)}, mustDate(t, "2026-01-05"))
	require.NoError(t, err)

	routes := tt.RoutesServing(1) // stop B
	positions := tt.RoutePositionsServing(1)
	require.Len(t, routes, 1)
	assert.Equal(t, RouteID(0), routes[0])
	assert.Equal(t, int32(1), positions[0])
}

func TestServiceActiveOnCalendarException(t *testing.T) {
	svc := gtfsraw.Service{
		StartDate: mustDate(t, "2026-01-01"),
		EndDate:   mustDate(t, "2026-12-31"),
		Weekday:   [7]bool{false, false, false, false, false, false, false},
		Added:     []time.Time{mustDate(t, "2026-01-05")},
	}
	assert.True(t, svc.ActiveOn(mustDate(t, "2026-01-05")))
	assert.False(t, svc.ActiveOn(mustDate(t, "2026-01-06")))
}

func TestServiceRemovedDateOverridesCalendar(t *testing.T) {
	svc := gtfsraw.Service{
		StartDate: mustDate(t, "2026-01-01"),
		EndDate:   mustDate(t, "2026-12-31"),
		Weekday:   [7]bool{true, true, true, true, true, true, true},
		Removed:   []time.Time{mustDate(t, "2026-01-05")},
	}
	assert.False(t, svc.ActiveOn(mustDate(t, "2026-01-05")))
}
