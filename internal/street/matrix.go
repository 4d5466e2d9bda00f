package street

import (
	"github.com/sourcegraph/conc/pool"
	"github.com/transitmesh/router/internal/workerpool"
)

// Matrix computes, for every (i, j) pair of nodes, the shortest walking
// time from nodes[i] to nodes[j]. Rows are independent one-to-many
// searches dispatched across a worker pool, matching the "parallel over
// rows" batch boundary used by the higher-level query orchestrators.
func (g *Graph) Matrix(nodes []NodeID) [][]Seconds {
	rows := make([][]Seconds, len(nodes))

	p := pool.New().WithMaxGoroutines(workerpool.Default())
	for i, source := range nodes {
		i, source := i, source
		p.Go(func() {
			result := g.OneToMany(source, nodes)
			row := make([]Seconds, len(nodes))
			for j, target := range nodes {
				row[j] = result.Dist[target]
			}
			rows[i] = row
		})
	}
	p.Wait()

	return rows
}
