package dag

// AssignLayers sets every node's row to its longest distance from a source,
// so for a tree the row is the node's depth. Existing rows are overwritten.
// Nodes on a cycle are never released and stay in row 0. O(V + E).
func AssignLayers(g *DAG) {
	nodes := g.Nodes()
	rows := make(map[string]int, len(nodes))
	pending := make(map[string]int, len(nodes))

	var ready []string
	for _, n := range nodes {
		rows[n.ID] = 0
		if pending[n.ID] = g.InDegree(n.ID); pending[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	for i := 0; i < len(ready); i++ {
		id := ready[i]
		for _, child := range g.Children(id) {
			rows[child] = max(rows[child], rows[id]+1)
			if pending[child]--; pending[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	g.SetRows(rows)
}
