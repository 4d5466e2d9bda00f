// Package gtfsraw defines the router's own neutral view of a parsed GTFS
// feed, decoupled from the wire shape of whichever parsing library produces
// it. Timetable construction consumes only this contract; the adapter in
// adapter.go is the single place that knows about the upstream library's
// field names.
package gtfsraw

import "time"

// Stop is one GTFS stops.txt row this router cares about.
type Stop struct {
	ID  string
	Lat float64
	Lon float64
}

// Route is one GTFS routes.txt row.
type Route struct {
	ID        string
	AgencyID  string
	ShortName string
	LongName  string
}

// Service is the calendar.txt/calendar_dates.txt service-availability record
// for one service_id, already in a form ActiveOn can answer directly.
type Service struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time

	// Weekday[0] is Sunday, matching time.Weekday's numbering.
	Weekday [7]bool

	Added   []time.Time // calendar_dates.txt exception_type=1
	Removed []time.Time // calendar_dates.txt exception_type=2
}

// ActiveOn reports whether the service runs on the given calendar date
// (time-of-day is ignored).
func (s *Service) ActiveOn(date time.Time) bool {
	date = truncateToDate(date)
	for _, d := range s.Removed {
		if truncateToDate(d).Equal(date) {
			return false
		}
	}
	for _, d := range s.Added {
		if truncateToDate(d).Equal(date) {
			return true
		}
	}
	if date.Before(truncateToDate(s.StartDate)) || date.After(truncateToDate(s.EndDate)) {
		return false
	}
	return s.Weekday[int(date.Weekday())]
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StopTime is one GTFS stop_times.txt row. Arrival/Departure are seconds
// past midnight of the service day, and may exceed 86400 for trips that run
// past midnight, per the GTFS convention.
type StopTime struct {
	StopID        string
	StopSequence  int
	ArrivalSec    int32
	DepartureSec  int32
	PickupAllowed bool
	DropOffAllowed bool
}

// Frequency is one GTFS frequencies.txt row describing headway-based
// service for a trip, to be expanded into explicit trip instances.
type Frequency struct {
	StartSec   int32
	EndSec     int32
	HeadwaySec int32
	ExactTimes bool
}

// Trip is one GTFS trips.txt row together with its stop_times.txt rows and
// any frequencies.txt rows, sorted by StopSequence ascending.
type Trip struct {
	ID         string
	RouteID    string
	ServiceID  string
	StopTimes  []StopTime
	Frequencies []Frequency
}

// Feed is a single parsed GTFS dataset: one directory of the classic
// zipped CSV files. BuildFromFeeds accepts several, one per agency bundle.
type Feed struct {
	Stops    []Stop
	Routes   []Route
	Services []Service
	Trips    []Trip
}
