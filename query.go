package router

import (
	"time"

	"github.com/transitmesh/router/internal/raptor"
)

// FindRoute computes the earliest-arrival journey from origin to dest
// departing no earlier than depart, using at most maxTransfers transfers.
// A nil result with a nil error means no journey was found within those
// bounds; that is not an error condition, per this package's reachability
// convention.
func FindRoute(model *TransitModel, origin, dest *TransitPoint, depart Seconds, maxTransfers int) (*RouteResult, error) {
	start := time.Now()
	tt := model.transit.Timetable

	sources := accessToRaptorSources(origin, depart)
	targets := egressTargets(dest)
	state := raptor.Sweep(tt, sources, maxTransfers+1, targets)

	stop, arrival, ok := bestTarget(state, targets)
	model.metrics.ObserveQuery("route", ok, start)
	if !ok {
		return nil, nil
	}

	transfers := 0
	if round, ok := state.BestRoundFor(stop); ok && round > 0 {
		transfers = round - 1
	}

	return &RouteResult{
		ArrivalSec:  arrival,
		TravelTimeS: arrival - depart,
		Transfers:   transfers,
	}, nil
}

// DetailedJourney is FindRoute plus the full leg-by-leg itinerary, with
// each leg's path encoded as a polyline.
func DetailedJourney(model *TransitModel, origin, dest *TransitPoint, depart Seconds, maxTransfers int) (*Journey, error) {
	start := time.Now()
	tt := model.transit.Timetable

	sources := accessToRaptorSources(origin, depart)
	targets := egressTargets(dest)
	state := raptor.Sweep(tt, sources, maxTransfers+1, targets)

	stop, arrival, ok := bestTarget(state, targets)
	model.metrics.ObserveQuery("journey", ok, start)
	if !ok {
		return nil, nil
	}

	raptorLegs, ok := raptor.Reconstruct(tt, state, stop)
	if !ok {
		return nil, nil
	}

	legs := buildLegs(tt, origin, dest, raptorLegs, targets[stop])
	transfers := 0
	for _, l := range legs {
		if l.Kind == LegTransit {
			transfers++
		}
	}
	if transfers > 0 {
		transfers--
	}

	return &Journey{
		DepartureSec: depart,
		ArrivalSec:   arrival,
		TravelTimeS:  arrival - depart,
		Transfers:    transfers,
		Legs:         legs,
	}, nil
}
