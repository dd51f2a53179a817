package dag

import "slices"

// CountCrossings returns the total number of edge crossings between each pair
// of consecutive layers of g, using the current layer orders.
func CountCrossings(g *Graph) int {
	ids := g.LayerIDs()
	crossings := 0
	for i := 0; i+1 < len(ids); i++ {
		if ids[i+1] != ids[i]+1 {
			continue
		}
		crossings += CountLayerCrossings(g.Layer(ids[i]), g.Layer(ids[i+1]))
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent layers using
// a Fenwick tree (binary indexed tree) for O(E log V) performance where E is
// the number of edges between the layers and V is the number of nodes in the
// lower layer.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// This is equivalent to counting inversions in the sequence of target
// positions when edges are sorted by source position. Edges sharing an
// endpoint never cross. Port positions are not taken into account.
//
// Returns 0 if either layer is empty.
func CountLayerCrossings(upper, lower []*Node) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := make(map[*Node]int, len(lower))
	for i, n := range lower {
		lowerPos[n] = i
	}

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, n := range upper {
		for _, e := range n.Outgoing() {
			if pos, ok := lowerPos[e.To()]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	// Sort edges by source position, then by target position
	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	// Count inversions using Fenwick tree
	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// Query: count edges seen so far with target <= e.lower
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		// Crossings = edges seen so far with target > e.lower
		crossings += total - lessOrEqual

		// Update: increment count at target position
		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
