// Package router is the public entry point for the multimodal journey
// planning engine: build a TransitModel once from a street graph and one or
// more GTFS feeds, then issue route, journey, batch, and isochrone queries
// against it. The model is immutable and safe for concurrent use once
// built; every query allocates its own scratch state.
package router

import (
	"fmt"
	"time"

	gtfs "github.com/OneBusAway/go-gtfs"
	"github.com/transitmesh/router/internal/clock"
	"github.com/transitmesh/router/internal/metrics"
	"github.com/transitmesh/router/internal/street"
	"github.com/transitmesh/router/internal/timetable"
	"github.com/transitmesh/router/internal/transit"
	"github.com/transitmesh/router/routererr"
)

// Seconds is seconds past a service day's reference midnight, used for
// every clock time and duration in this package's public API. It shares
// the timetable package's no-wraparound convention: a trip departing at
// 25:30 is represented as 91800.
type Seconds = timetable.Seconds

// Unreachable is the sentinel value carried in result fields (never
// returned as an error) when a query found no solution.
const Unreachable = timetable.Unreachable

// RawStreetGraph is the pre-parsed pedestrian street network this module
// expects as input. Producing it from OpenStreetMap data is the job of an
// external collaborator; this module only consumes the node/edge contract.
type RawStreetGraph struct {
	Nodes []street.Node
	Edges []street.Edge
}

// BuildConfig controls model construction.
type BuildConfig struct {
	// MaxTransferTime bounds how long a walking transfer between stops may
	// take. Zero means "use the package default" (defaultMaxTransferTime).
	MaxTransferTime Seconds

	// DefaultWalkSpeedMps is a pedestrian speed in meters per second. Zero
	// defaults to an average walking pace. It is passed on to transfer
	// computation, which does not read it: every walking duration in the
	// model comes from the street graph's edge weights, and no
	// distance-to-time conversion (such as a walk from a query point to its
	// snapped street node) is applied.
	DefaultWalkSpeedMps float64

	// MaxAccessStops bounds how many stops NewTransitPoint considers near a
	// query point when its own maxStops argument is <= 0. Zero means
	// unbounded.
	MaxAccessStops int

	// QueryDate is the service date used to filter active trips. Zero
	// value defaults to the build clock's current local date.
	QueryDate time.Time

	// Clock supplies the current time when both date and QueryDate are
	// zero. Nil defaults to clock.RealClock{}; tests inject a
	// clock.MockClock for deterministic date defaulting.
	Clock clock.Clock
}

const (
	defaultMaxTransferTime  Seconds = 600
	defaultWalkSpeedMps             = 1.34
)

// TransitModel is the immutable, queryable result of BuildModel.
type TransitModel struct {
	transit *transit.Model
	metrics *metrics.Metrics
	cfg     BuildConfig
}

// BuildModel constructs a TransitModel from a street graph and one or more
// parsed GTFS feeds, keeping only the service active on date (or, if date
// is the zero value, on cfg.QueryDate, or failing that, the build clock's
// current local date).
func BuildModel(raw RawStreetGraph, gtfsFeeds []*gtfs.Static, cfg BuildConfig, date time.Time) (*TransitModel, error) {
	if cfg.MaxTransferTime < 0 {
		return nil, fmt.Errorf("MaxTransferTime must not be negative: %w", routererr.ErrConfig)
	}
	if cfg.MaxTransferTime == 0 {
		cfg.MaxTransferTime = defaultMaxTransferTime
	}
	if cfg.DefaultWalkSpeedMps <= 0 {
		cfg.DefaultWalkSpeedMps = defaultWalkSpeedMps
	}

	buildClock := cfg.Clock
	if buildClock == nil {
		buildClock = clock.RealClock{}
	}
	resolvedDate := date
	if resolvedDate.IsZero() {
		resolvedDate = cfg.QueryDate
	}
	if resolvedDate.IsZero() {
		resolvedDate = buildClock.Now()
	}

	streetGraph, err := street.NewGraph(raw.Nodes, raw.Edges)
	if err != nil {
		return nil, err
	}

	tt, err := timetable.BuildFromGTFS(gtfsFeeds, resolvedDate)
	if err != nil {
		return nil, err
	}

	timetable.AttachStreetNodes(tt, streetGraph)
	timetable.ComputeTransfers(tt, streetGraph, timetable.TransferOptions{
		MaxDuration:  cfg.MaxTransferTime,
		WalkSpeedMps: cfg.DefaultWalkSpeedMps,
	})

	model, err := transit.New(tt, streetGraph)
	if err != nil {
		return nil, err
	}

	return &TransitModel{
		transit: model,
		metrics: metrics.New(),
		cfg:     cfg,
	}, nil
}

// Metrics returns the model's private Prometheus registry, for a caller
// that wants to scrape query counters and latency histograms.
func (m *TransitModel) Metrics() *metrics.Metrics {
	return m.metrics
}

// TransitPoint is an arbitrary (lat, lon) query endpoint, pre-resolved to
// its nearby stops so repeated queries against it don't re-snap or re-run
// the access Dijkstra search each time.
type TransitPoint struct {
	access *transit.Access
}

// NewTransitPoint snaps (lat, lon) to the street graph and precomputes
// walking time to the maxStops closest stops within maxWalk. maxStops <= 0
// falls back to the model's BuildConfig.MaxAccessStops, and is unbounded
// when that is zero too.
func NewTransitPoint(lat, lon float64, model *TransitModel, maxWalk Seconds, maxStops int) (*TransitPoint, error) {
	if model == nil {
		return nil, fmt.Errorf("nil model: %w", routererr.ErrConfig)
	}
	if maxStops <= 0 {
		maxStops = model.cfg.MaxAccessStops
	}
	access, err := model.transit.BuildAccess(lat, lon, maxWalk, maxStops)
	if err != nil {
		return nil, err
	}
	return &TransitPoint{access: access}, nil
}
