package layered

import (
	"slices"

	"github.com/matzehuels/jsontree/pkg/dag"
)

// DefaultPasses is the number of down/up sweep pairs run by [Barycentric].
const DefaultPasses = 4

// Orderer decides the order of the nodes within each row.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// Barycentric orders rows with the barycenter heuristic. Each sweep sorts a
// row by the mean position of its neighbours in the adjacent row; a new
// order is kept only when it lowers the crossings on the edges touching that
// row. The starting order is the insertion order of the DAG, which for a
// document tree is depth-first order and already free of crossings.
type Barycentric struct {
	Passes int
}

// OrderRows returns the node IDs of every row in cross-axis order.
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	rows := g.RowIDs()
	orders := make(map[int][]string, len(rows))
	for _, r := range rows {
		orders[r] = dag.NodeIDs(g.NodesInRow(r))
	}
	if len(rows) < 2 {
		return orders
	}

	for range passes {
		changed := false
		for i := 1; i < len(rows); i++ {
			changed = b.sweep(g, orders, rows[i], rows[i-1], true) || changed
		}
		for i := len(rows) - 2; i >= 0; i-- {
			changed = b.sweep(g, orders, rows[i], rows[i+1], false) || changed
		}
		if !changed {
			break
		}
	}
	return orders
}

// sweep reorders row by the barycenters of its neighbours in the fixed row.
// It reports whether the row changed.
func (b Barycentric) sweep(g *dag.DAG, orders map[int][]string, row, fixed int, useParents bool) bool {
	current := orders[row]
	fixedPos := dag.PosMap(orders[fixed])

	type keyed struct {
		id   string
		bary float64
	}
	items := make([]keyed, len(current))
	for i, id := range current {
		neighbours := g.Children(id)
		if useParents {
			neighbours = g.Parents(id)
		}
		sum, n := 0.0, 0
		for _, nb := range neighbours {
			if p, ok := fixedPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		bary := float64(i)
		if n > 0 {
			bary = sum / float64(n)
		}
		items[i] = keyed{id, bary}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.bary < b.bary:
			return -1
		case a.bary > b.bary:
			return 1
		}
		return 0
	})

	candidate := make([]string, len(items))
	for i, it := range items {
		candidate[i] = it.id
	}
	if slices.Equal(candidate, current) {
		return false
	}
	if rowCrossings(g, orders, row, candidate) >= rowCrossings(g, orders, row, current) {
		return false
	}
	orders[row] = candidate
	return true
}

// rowCrossings counts crossings on the edges between row and its two
// neighbouring rows, with row ordered as given.
func rowCrossings(g *dag.DAG, orders map[int][]string, row int, order []string) int {
	return dag.CountLayerCrossings(g, orders[row-1], order) +
		dag.CountLayerCrossings(g, order, orders[row+1])
}
