package street

import "container/heap"

// heapItem is one entry in the Dijkstra priority queue.
type heapItem struct {
	node NodeID
	dist Seconds
}

type priorityQueue []heapItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(heapItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// Result is the outcome of a single-source Dijkstra run: distances and
// predecessors indexed by NodeID, ready for path reconstruction.
type Result struct {
	Dist   []Seconds // Unreachable sentinel for nodes the search never reached
	Pred   []NodeID
	hasPre []bool
}

// PredecessorOf reports node's predecessor on the shortest path from the
// search's source, if one was settled.
func (r *Result) PredecessorOf(node NodeID) (NodeID, bool) {
	if int(node) >= len(r.hasPre) || !r.hasPre[node] {
		return 0, false
	}
	return r.Pred[node], true
}

// Path reconstructs the node sequence from source to target by walking
// predecessors backwards. Returns nil if target was never reached.
func (r *Result) Path(target NodeID) []NodeID {
	if int(target) >= len(r.Dist) || r.Dist[target] == Unreachable {
		return nil
	}
	var rev []NodeID
	cur := target
	for {
		rev = append(rev, cur)
		pred, ok := r.PredecessorOf(cur)
		if !ok {
			break
		}
		cur = pred
	}
	path := make([]NodeID, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path
}

// newResult allocates scratch state for a single-source search over a graph
// with n nodes, all distances initialized to Unreachable.
func newResult(n int) *Result {
	dist := make([]Seconds, n)
	for i := range dist {
		dist[i] = Unreachable
	}
	return &Result{
		Dist:   dist,
		Pred:   make([]NodeID, n),
		hasPre: make([]bool, n),
	}
}

// SingleSource computes shortest walking distances from source to every
// reachable node, optionally stopping the frontier once it exceeds cutoff
// (Unreachable cutoff means unbounded).
func (g *Graph) SingleSource(source NodeID, cutoff Seconds) *Result {
	return g.search(map[NodeID]Seconds{source: 0}, nil, cutoff)
}

// OneToOne computes the shortest distance from source to target, exiting
// the search as soon as target is settled.
func (g *Graph) OneToOne(source, target NodeID) *Result {
	return g.search(map[NodeID]Seconds{source: 0}, []NodeID{target}, Unreachable)
}

// OneToMany computes shortest distances from source to every node in
// targets, terminating once all targets are settled. There is no other
// early exit: while any target is unsettled (for example, an unreachable
// one) the search runs until the frontier is exhausted.
func (g *Graph) OneToMany(source NodeID, targets []NodeID) *Result {
	return g.search(map[NodeID]Seconds{source: 0}, targets, Unreachable)
}

// MultiSource runs a single Dijkstra sweep seeded from several sources at
// once, each starting from its own initial cost rather than zero. This is
// what lets the isochrone engine propagate a RAPTOR sweep's per-stop
// arrival times across the street graph in one pass instead of one search
// per stop.
func (g *Graph) MultiSource(sources map[NodeID]Seconds, cutoff Seconds) *Result {
	return g.search(sources, nil, cutoff)
}

// search is the shared label-setting Dijkstra core: a binary-heap priority
// queue with decrease-key implemented as push-and-skip-stale.
func (g *Graph) search(sources map[NodeID]Seconds, targets []NodeID, cutoff Seconds) *Result {
	n := g.NumNodes()
	result := newResult(n)

	pq := &priorityQueue{}
	for node, dist := range sources {
		result.Dist[node] = dist
		*pq = append(*pq, heapItem{node: node, dist: dist})
	}
	heap.Init(pq)

	var remaining map[NodeID]struct{}
	trackTargets := len(targets) > 0
	if trackTargets {
		remaining = make(map[NodeID]struct{}, len(targets))
		for _, t := range targets {
			remaining[t] = struct{}{}
		}
	}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(heapItem)
		if item.dist > result.Dist[item.node] {
			continue // stale entry from a since-improved decrease-key
		}

		if trackTargets {
			if _, isTarget := remaining[item.node]; isTarget {
				delete(remaining, item.node)
				if len(remaining) == 0 {
					break
				}
			}
		}
		if cutoff != Unreachable && item.dist > cutoff {
			break
		}

		for _, e := range g.neighbors(item.node) {
			next := item.dist + e.weight
			if cutoff != Unreachable && next > cutoff {
				continue
			}
			if result.Dist[e.to] == Unreachable || next < result.Dist[e.to] {
				result.Dist[e.to] = next
				result.Pred[e.to] = item.node
				result.hasPre[e.to] = true
				heap.Push(pq, heapItem{node: e.to, dist: next})
			}
		}
	}
	return result
}
