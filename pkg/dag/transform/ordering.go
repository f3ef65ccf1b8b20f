package transform

import (
	"maps"
	"slices"

	"github.com/matzehuels/procmap/pkg/dag"
)

// Order separates parents from children that ended up on the same rank and
// compacts each rank towards the process lane.
//
// Ranks are visited top to bottom. For every node with a child on its own
// rank, the child moves down: every other node at or below the target rank
// shifts one rank further, opening the target rank for the child alone. The
// target is the next rank, or, for a child outside the process, the one
// after when the child sits right below a process node in its column or the
// cell under the child is taken. Once a rank has been visited nothing in it
// moves again, so the loop ends after at most one pass per node.
//
// Afterwards the end node is moved to a rank of its own below all others if
// it shares one or something ended up deeper, and gaps in every rank are
// closed on the right of the process lane.
func Order(g *dag.Graph) dag.Matrix {
	m := dag.Rearrange(g)
	for r := 0; r < m.Ranks(); r++ {
		for _, id := range m.Row(r) {
			n, ok := g.Node(id)
			if !ok || n.Rank != r {
				continue
			}
			for _, cid := range slices.Clone(n.Children) {
				c, ok := g.Node(cid)
				if !ok || cid == id || c.Rank != r {
					continue
				}
				moveBelow(g, m, c, r)
				m = dag.Rearrange(g)
			}
		}
	}

	isolateEnd(g)
	closeGaps(g, 0)
	return dag.Rearrange(g)
}

func moveBelow(g *dag.Graph, m dag.Matrix, c *dag.Node, r int) {
	target := r + 1
	// A process child must stay above the next process member.
	if !c.Process && (m.Occupied(r+1, c.Column) || belowProcess(g, m, c)) {
		target = r + 2
	}
	for _, n := range g.Nodes() {
		if n != c && n.Rank >= target {
			n.Rank++
		}
	}
	c.Rank = target
}

func belowProcess(g *dag.Graph, m dag.Matrix, c *dag.Node) bool {
	above, ok := g.Node(m.At(c.Rank-1, c.Column))
	return ok && above.Process
}

func isolateEnd(g *dag.Graph) {
	var end *dag.Node
	for _, n := range g.Nodes() {
		if n.Tag == dag.End {
			end = n
		}
	}
	if end == nil {
		return
	}
	deepest, alone := 0, true
	for _, n := range g.Nodes() {
		if n == end {
			continue
		}
		deepest = max(deepest, n.Rank)
		if n.Rank >= end.Rank {
			alone = false
		}
	}
	if alone {
		return
	}
	end.Rank = deepest + 1
	compactRanks(g)
}

// compactRanks renumbers ranks so that no rank is left empty.
func compactRanks(g *dag.Graph) {
	used := make(map[int]bool)
	for _, n := range g.Nodes() {
		used[n.Rank] = true
	}
	ranks := slices.Sorted(maps.Keys(used))
	dense := make(map[int]int, len(ranks))
	for i, r := range ranks {
		dense[r] = i
	}
	for _, n := range g.Nodes() {
		n.Rank = dense[n.Rank]
	}
}

// closeGaps slides real nodes into empty cells on both sides of median,
// towards median, keeping their relative order. Synthetic nodes keep their
// cell; median itself is never filled.
func closeGaps(g *dag.Graph, median int) {
	for _, row := range dag.Rearrange(g) {
		var free []int
		for col := median + 1; col < len(row); col++ {
			free = slide(g, row[col], col, free)
		}
		free = free[:0]
		for col := min(median-1, len(row)-1); col >= 0; col-- {
			free = slide(g, row[col], col, free)
		}
	}
}

func slide(g *dag.Graph, id dag.NodeID, col int, free []int) []int {
	if id == dag.None {
		return append(free, col)
	}
	n, ok := g.Node(id)
	if !ok || n.IsSynthetic() || len(free) == 0 {
		return free
	}
	n.Column = free[0]
	return append(free[1:], col)
}
