package dag

import "slices"

// CountCrossings returns the number of edge crossings between consecutive
// ranks of m. Edges pointing upward are counted as well, since they are drawn
// between the same two ranks. Edges that skip ranks or stay within a rank
// are ignored.
//
// The layout never minimizes this number; it is reported so callers can
// compare layouts.
func CountCrossings(g *Graph, m Matrix) int {
	crossings := 0
	for r := 0; r+1 < m.Ranks(); r++ {
		crossings += CountLayerCrossings(g, m.Row(r), m.Row(r+1))
	}
	return crossings
}

// CountLayerCrossings counts crossings between two adjacent ranks given
// their left-to-right orders.
//
// Two segments (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which is an inversion count over target positions once segments are
// sorted by source position. A Fenwick tree keeps it at O(E log V).
func CountLayerCrossings(g *Graph, upper, lower []NodeID) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	type segment struct{ upper, lower int }
	segments := make([]segment, 0, len(upper)*2)
	for i, id := range upper {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		for _, nb := range n.Neighbors() {
			if pos, ok := lowerPos[nb]; ok {
				segments = append(segments, segment{i, pos})
			}
		}
	}
	if len(segments) < 2 {
		return 0
	}

	slices.SortFunc(segments, func(a, b segment) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, s := range segments {
		lessOrEqual := 0
		for q := s.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := s.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// PosMap maps each id to its index in order.
func PosMap(order []NodeID) map[NodeID]int {
	pos := make(map[NodeID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	return pos
}
