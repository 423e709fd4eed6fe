package dag

import (
	"maps"
	"slices"
)

// CountCrossings sums [CountLayerCrossings] over every pair of consecutive
// rows in orders, which maps a row to its node IDs along the cross axis.
//
//	crossings := dag.CountCrossings(g, map[int][]string{
//	    0: {"n1"},
//	    1: {"n2", "n5"},
//	    2: {"n3", "n4", "n6"},
//	})
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for _, r := range slices.Sorted(maps.Keys(orders)) {
		if lower, ok := orders[r+1]; ok {
			total += CountLayerCrossings(g, orders[r], lower)
		}
	}
	return total
}

// CountLayerCrossings counts crossings between the edges running from upper
// to lower in O(E log V). Edges (u1,v1) and (u2,v2) cross exactly when
// u1 < u2 and v1 > v2, so with edges sorted by source the count is the
// number of inversions among target positions.
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	// Visiting upper in order and each node's targets sorted yields the
	// edges sorted by (source, target).
	targets := make([]int, 0, len(lower))
	for _, id := range upper {
		start := len(targets)
		for _, child := range g.Children(id) {
			if pos, ok := lowerPos[child]; ok {
				targets = append(targets, pos)
			}
		}
		slices.Sort(targets[start:])
	}

	seen := make(fenwick, len(lower)+1)
	crossings := 0
	for i, t := range targets {
		crossings += i - seen.prefix(t)
		seen.add(t)
	}
	return crossings
}

// fenwick is a binary indexed tree over positions 0..len-2 counting how many
// targets have been seen at each position.
type fenwick []int

func (f fenwick) add(pos int) {
	for i := pos + 1; i < len(f); i += i & -i {
		f[i]++
	}
}

// prefix returns the number of targets seen at positions <= pos.
func (f fenwick) prefix(pos int) int {
	n := 0
	for i := pos + 1; i > 0; i -= i & -i {
		n += f[i]
	}
	return n
}
