package raptor

import (
	"sync"

	"github.com/transitmesh/router/internal/timetable"
)

// PooledRunner recycles Sweep's scratch State across queries that share the
// same (numStops, maxRounds) shape, for callers issuing many sweeps against
// one frozen timetable (a matrix row, a batch of isochrone origins) who'd
// otherwise re-allocate the same Tau/Backlink arrays on every call. Pooling
// is opt-in: Sweep itself always allocates fresh, matching the "scratch
// buffers may be pooled, not mandatory" allowance.
type PooledRunner struct {
	mu    sync.Mutex
	pools map[poolKey]*sync.Pool
}

type poolKey struct {
	numStops  int
	maxRounds int
}

// NewPooledRunner returns a runner with no pooled state yet; pools are
// created lazily per (numStops, maxRounds) shape on first use.
func NewPooledRunner() *PooledRunner {
	return &PooledRunner{pools: make(map[poolKey]*sync.Pool)}
}

func (r *PooledRunner) poolFor(numStops, maxRounds int) *sync.Pool {
	key := poolKey{numStops, maxRounds}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pools[key]; ok {
		return p
	}
	p := &sync.Pool{New: func() any { return newState(numStops, maxRounds) }}
	r.pools[key] = p
	return p
}

// Run sweeps tt from sources exactly like Sweep, but draws its scratch State
// from the pool instead of allocating. The returned State must be returned
// via Release once the caller is done reading it (typically right after
// Reconstruct or BestRoundFor), after which its contents are no longer
// valid for the caller to read.
func (r *PooledRunner) Run(tt *timetable.Timetable, sources []AccessStop, maxRounds int, targets map[timetable.StopID]timetable.Seconds) *State {
	pool := r.poolFor(len(tt.Stops), maxRounds)
	state := pool.Get().(*State)
	state.reset()
	return sweepInto(state, tt, sources, maxRounds, targets)
}

// Release returns state to its pool for reuse by a later Run call of the
// same shape. Callers that don't need recycling can simply let the state be
// garbage collected instead.
func (r *PooledRunner) Release(tt *timetable.Timetable, maxRounds int, state *State) {
	r.poolFor(len(tt.Stops), maxRounds).Put(state)
}
