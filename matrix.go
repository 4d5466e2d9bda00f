package router

import (
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/transitmesh/router/internal/raptor"
	"github.com/transitmesh/router/internal/workerpool"
)

// OneToMany computes the earliest-arrival route from origin to each of
// dests, reusing a single RAPTOR sweep from origin's access stops (one
// sweep naturally answers every destination at once; no dest-side target
// pruning is applied, since pruning against one destination could discard
// paths another destination needs). A nil element means that destination
// was not reached within maxTransfers.
func OneToMany(model *TransitModel, origin *TransitPoint, dests []*TransitPoint, depart Seconds, maxTransfers int) ([]*RouteResult, error) {
	start := time.Now()
	tt := model.transit.Timetable

	sources := accessToRaptorSources(origin, depart)
	state := raptor.Sweep(tt, sources, maxTransfers+1, nil)

	results := make([]*RouteResult, len(dests))
	anyReachable := false
	for i, dest := range dests {
		targets := egressTargets(dest)
		stop, arrival, ok := bestTarget(state, targets)
		if !ok {
			continue
		}
		anyReachable = true
		transfers := 0
		if round, ok := state.BestRoundFor(stop); ok && round > 0 {
			transfers = round - 1
		}
		results[i] = &RouteResult{ArrivalSec: arrival, TravelTimeS: arrival - depart, Transfers: transfers}
	}

	model.metrics.ObserveQuery("one_to_many", anyReachable, start)
	return results, nil
}

// TravelTimeMatrix computes OneToMany from every point in points to every
// other point, dispatching rows across a worker pool since each row is an
// independent sweep.
func TravelTimeMatrix(model *TransitModel, points []*TransitPoint, depart Seconds, maxTransfers int) ([][]*RouteResult, error) {
	start := time.Now()
	rows := make([][]*RouteResult, len(points))

	p := pool.New().WithMaxGoroutines(workerpool.Default())
	for i, origin := range points {
		i, origin := i, origin
		p.Go(func() {
			row, _ := OneToMany(model, origin, points, depart, maxTransfers)
			rows[i] = row
			model.metrics.MatrixCellsTotal.Add(float64(len(row)))
		})
	}
	p.Wait()

	model.metrics.ObserveQuery("matrix", true, start)
	return rows, nil
}
