package timetable

import (
	"log/slog"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"github.com/transitmesh/router/internal/street"
	"github.com/transitmesh/router/internal/workerpool"
)

// TransferOptions configures ComputeTransfers.
type TransferOptions struct {
	// MaxDuration bounds how far a transfer may walk. Stops farther apart
	// than this on the street graph are not linked.
	MaxDuration Seconds

	// WalkSpeedMps is a pedestrian speed in meters per second. ComputeTransfers
	// does not read it: transfer durations are the street graph's edge
	// weights, which are already in seconds.
	WalkSpeedMps float64
}

// AttachStreetNodes snaps every stop to its nearest street-graph node. Stops
// with no nearby street data keep HasStreetNode false and are excluded from
// ComputeTransfers.
func AttachStreetNodes(tt *Timetable, graph *street.Graph) {
	var unsnapped int
	for i := range tt.Stops {
		node, _, ok := graph.NearestNode(tt.Stops[i].Lat, tt.Stops[i].Lon)
		tt.Stops[i].StreetNode = node
		tt.Stops[i].HasStreetNode = ok
		if !ok {
			unsnapped++
		}
	}
	if unsnapped > 0 {
		slog.Default().With(slog.String("component", "timetable_builder")).Warn(
			"stops outside street graph coverage",
			slog.Int("unsnapped_stops", unsnapped),
			slog.Int("total_stops", len(tt.Stops)))
	}
}

// ComputeTransfers fills in Timetable.Transfers with a bounded Dijkstra
// search from every snapped stop, run one row per worker-pool goroutine
// since rows are independent. Every stop also gets a zero-duration
// self-transfer; the RAPTOR sweep skips self-transfers when relaxing.
func ComputeTransfers(tt *Timetable, graph *street.Graph, opts TransferOptions) {
	rows := make([][]Transfer, len(tt.Stops))

	p := pool.New().WithMaxGoroutines(workerpool.Default())
	for i := range tt.Stops {
		i := i
		p.Go(func() {
			rows[i] = transfersFromStop(tt, graph, StopID(i), opts)
		})
	}
	p.Wait()

	for i := range tt.Stops {
		start := int32(len(tt.Transfers))
		tt.Transfers = append(tt.Transfers, rows[i]...)
		tt.Stops[i].transfersStart = start
		tt.Stops[i].transfersLen = int32(len(rows[i]))
	}
}

func transfersFromStop(tt *Timetable, graph *street.Graph, from StopID, opts TransferOptions) []Transfer {
	self := []Transfer{{To: from, Duration: 0}}

	stop := tt.Stops[from]
	if !stop.HasStreetNode {
		return self
	}

	cutoff := street.Unreachable
	if opts.MaxDuration > 0 {
		cutoff = street.Seconds(opts.MaxDuration)
	}
	result := graph.SingleSource(stop.StreetNode, cutoff)

	type found struct {
		stop StopID
		dur  Seconds
	}
	var candidates []found
	for i := range tt.Stops {
		to := StopID(i)
		if to == from || !tt.Stops[to].HasStreetNode {
			continue
		}
		d := result.Dist[tt.Stops[to].StreetNode]
		if d == street.Unreachable {
			continue
		}
		if opts.MaxDuration > 0 && Seconds(d) > opts.MaxDuration {
			continue
		}
		candidates = append(candidates, found{stop: to, dur: Seconds(d)})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].stop < candidates[j].stop })

	transfers := self
	for _, c := range candidates {
		transfers = append(transfers, Transfer{To: c.stop, Duration: c.dur})
	}
	return transfers
}
