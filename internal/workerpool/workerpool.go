// Package workerpool centralizes the default concurrency cap used by every
// batch-parallel orchestrator (street matrix rows, travel-time matrix rows,
// time-range candidate departures, per-stop transfer searches).
// Parallelism lives strictly at these batch
// boundaries; a single RAPTOR sweep or Dijkstra search is always
// single-threaded, per the router's concurrency model.
package workerpool

import "runtime"

// Default returns the default number of goroutines a batch orchestrator
// should run concurrently: one per available CPU.
func Default() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}
