package router

import (
	"time"

	"github.com/transitmesh/router/internal/geo"
	"github.com/transitmesh/router/internal/isochrone"
)

// IsochroneIndex is a reusable spatial index over a target polygon, built
// once and queried repeatedly from different origins or time budgets.
type IsochroneIndex struct {
	idx *isochrone.Index
}

// NewIsochroneIndex covers polygonWKT (a WKT POLYGON) with cells at hexRes
// and snaps each cell to the street graph, ready for repeated
// CalculateIsochrone calls.
func NewIsochroneIndex(model *TransitModel, polygonWKT string, hexRes int) (*IsochroneIndex, error) {
	idx, err := isochrone.NewIndex(model.transit.Street, polygonWKT, hexRes)
	if err != nil {
		return nil, err
	}
	return &IsochroneIndex{idx: idx}, nil
}

// IsochroneCell is one classified cell of an isochrone result.
type IsochroneCell struct {
	Center     geo.LatLon
	Reachable  bool
	ElapsedSec Seconds
}

// IsochroneResult is the classification of every cell of an IsochroneIndex
// for one origin, departure time, and time budget.
type IsochroneResult struct {
	Cells []IsochroneCell
}

// CalculateIsochrone runs RAPTOR from origin and classifies every cell of
// idx as reachable or not within tmax seconds of depart.
func CalculateIsochrone(model *TransitModel, origin *TransitPoint, depart Seconds, maxTransfers int, tmax Seconds, idx *IsochroneIndex) (*IsochroneResult, error) {
	start := time.Now()
	tt := model.transit.Timetable

	sources := accessToRaptorSources(origin, depart)
	raw, err := isochrone.Calculate(tt, model.transit.Street, sources, depart, maxTransfers+1, tmax, idx.idx)
	model.metrics.ObserveQuery("isochrone", err == nil, start)
	if err != nil {
		return nil, err
	}

	cells := make([]IsochroneCell, len(raw.Reachable))
	for i := range cells {
		cells[i] = IsochroneCell{
			Center:     idx.idx.Cells[i].Center(),
			Reachable:  raw.Reachable[i],
			ElapsedSec: raw.ElapsedSec[i],
		}
	}
	return &IsochroneResult{Cells: cells}, nil
}
