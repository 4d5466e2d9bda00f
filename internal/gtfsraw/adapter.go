package gtfsraw

import (
	"fmt"
	"time"

	gtfs "github.com/OneBusAway/go-gtfs"
	"github.com/transitmesh/router/routererr"
)

// FromStatic translates a parsed go-gtfs static feed into this package's
// neutral Feed contract. It is the single place that depends on the
// upstream library's field layout, so a future library upgrade only touches
// this file.
func FromStatic(data *gtfs.Static) (*Feed, error) {
	if data == nil {
		return nil, fmt.Errorf("nil static feed: %w", routererr.ErrInput)
	}

	feed := &Feed{
		Stops:    make([]Stop, 0, len(data.Stops)),
		Routes:   make([]Route, 0, len(data.Routes)),
		Services: make([]Service, 0, len(data.Services)),
		Trips:    make([]Trip, 0, len(data.Trips)),
	}

	for _, s := range data.Stops {
		if s.Latitude == nil || s.Longitude == nil {
			continue // station/entrance rows without coordinates aren't routable stops
		}
		feed.Stops = append(feed.Stops, Stop{ID: s.Id, Lat: *s.Latitude, Lon: *s.Longitude})
	}

	for _, r := range data.Routes {
		route := Route{ID: r.Id, ShortName: r.ShortName, LongName: r.LongName}
		if r.Agency != nil {
			route.AgencyID = r.Agency.Id
		}
		feed.Routes = append(feed.Routes, route)
	}

	for _, svc := range data.Services {
		service := Service{
			ID:        svc.Id,
			StartDate: svc.StartDate,
			EndDate:   svc.EndDate,
			Weekday: [7]bool{
				time.Sunday:    svc.Sunday,
				time.Monday:    svc.Monday,
				time.Tuesday:   svc.Tuesday,
				time.Wednesday: svc.Wednesday,
				time.Thursday:  svc.Thursday,
				time.Friday:    svc.Friday,
				time.Saturday:  svc.Saturday,
			},
			Added:   svc.AddedDates,
			Removed: svc.RemovedDates,
		}
		feed.Services = append(feed.Services, service)
	}

	for _, t := range data.Trips {
		trip := Trip{ID: t.ID, ServiceID: t.Service.Id}
		if t.Route != nil {
			trip.RouteID = t.Route.Id
		}
		trip.StopTimes = make([]StopTime, 0, len(t.StopTimes))
		for _, st := range t.StopTimes {
			if st.Stop == nil {
				continue
			}
			trip.StopTimes = append(trip.StopTimes, StopTime{
				StopID:         st.Stop.Id,
				StopSequence:   st.StopSequence,
				ArrivalSec:     int32(st.ArrivalTime.Seconds()),
				DepartureSec:   int32(st.DepartureTime.Seconds()),
				PickupAllowed:  st.PickupType != gtfs.PickupDropOffPolicy_No,
				DropOffAllowed: st.DropOffType != gtfs.PickupDropOffPolicy_No,
			})
		}
		for _, f := range t.Frequencies {
			trip.Frequencies = append(trip.Frequencies, Frequency{
				StartSec:   int32(f.StartTime.Seconds()),
				EndSec:     int32(f.EndTime.Seconds()),
				HeadwaySec: int32(f.Headway.Seconds()),
				ExactTimes: f.ExactTimes == gtfs.ScheduleBased,
			})
		}
		feed.Trips = append(feed.Trips, trip)
	}

	return feed, nil
}
