package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/procmap/pkg/dag"
)

// Balance centers the process on a median column and mirrors whole branches
// to its left until both sides hold about as many nodes. It returns the
// median and the rebuilt matrix.
//
// The median is the width of the widest rank; every column is shifted by it,
// which puts the process lane on the median and everything else to its
// right. Branches (see findBranches) are then taken greedily: the branch
// whose right-hand real-node count is closest to half the real imbalance
// wins, ties broken by total size and then by distance from the median,
// farthest first. Its right-hand members move to the mirrored column
// 2·median−x, or to the nearest free cell on the left when that is taken.
// Members already left of the median stay where they are: mirroring them
// would push them back to the right and undo part of the move, and a
// nearest-free-cell fallback keeps every node in its own matrix cell.
//
// A branch whose move would widen the real-node imbalance is skipped. The
// loop stops once half the total imbalance is no longer positive or no
// candidate is left; excess on the left side is never moved back. Finally,
// real nodes on both sides slide towards the median to fill vacated cells.
func Balance(g *dag.Graph) (int, dag.Matrix) {
	median := dag.Rearrange(g).Width()
	for _, n := range g.Nodes() {
		n.Column += median
	}

	c := countSides(dag.Rearrange(g), g, median)
	ratio := floorDiv(c.right-c.left, 2)
	realRatio := floorDiv(c.realRight-c.realLeft, 2)
	imbalance := c.realRight - c.realLeft

	pending := findBranches(g)
	for ratio > 0 {
		// Right-hand members change with every move, so they are collected
		// once per pass.
		rights := make([][]dag.NodeID, 0, len(pending))
		kept := pending[:0]
		for _, b := range pending {
			if right := rightOf(g, b.members, median); len(right) > 0 {
				kept = append(kept, b)
				rights = append(rights, right)
			}
		}
		pending = kept
		if len(pending) == 0 {
			break
		}

		best := pickBranch(g, rights, median, ratio, realRatio)
		right := rights[best]
		pending = slices.Delete(pending, best, best+1)

		realMoves := countReal(g, right)
		if abs(imbalance-2*realMoves) > abs(imbalance) {
			continue
		}

		moved, movedReal := reflect(g, right, median)
		if moved == 0 {
			break
		}
		ratio -= moved
		realRatio -= movedReal
		imbalance -= 2 * movedReal
	}

	closeGaps(g, median)
	return median, dag.Rearrange(g)
}

type sides struct {
	left, right         int
	realLeft, realRight int
}

func countSides(m dag.Matrix, g *dag.Graph, median int) sides {
	var s sides
	for _, row := range m {
		for col, id := range row {
			if id == dag.None || col == median {
				continue
			}
			n, _ := g.Node(id)
			isReal := !n.IsSynthetic()
			if col < median {
				s.left++
				if isReal {
					s.realLeft++
				}
			} else {
				s.right++
				if isReal {
					s.realRight++
				}
			}
		}
	}
	return s
}

func pickBranch(g *dag.Graph, rights [][]dag.NodeID, median, ratio, realRatio int) int {
	type score struct {
		idx       int
		delta     int
		realDelta int
		distance  float64
	}
	scores := make([]score, len(rights))
	for i, right := range rights {
		total := 0
		for _, id := range right {
			n, _ := g.Node(id)
			total += n.Column - median
		}
		scores[i] = score{
			idx:       i,
			delta:     abs(len(right) - ratio),
			realDelta: abs(countReal(g, right) - realRatio),
			distance:  float64(total) / float64(len(right)),
		}
	}
	best := slices.MinFunc(scores, func(a, b score) int {
		if c := cmp.Compare(a.realDelta, b.realDelta); c != 0 {
			return c
		}
		if c := cmp.Compare(a.delta, b.delta); c != 0 {
			return c
		}
		return cmp.Compare(b.distance, a.distance)
	})
	return best.idx
}

// reflect mirrors ids across median, top to bottom and left to right. A
// node whose mirrored cell is taken goes to the nearest free cell left of
// it, or right of it when the left is full. It reports how many nodes moved
// and how many of them were real.
func reflect(g *dag.Graph, ids []dag.NodeID, median int) (moved, movedReal int) {
	nodes := make([]*dag.Node, 0, len(ids))
	for _, id := range ids {
		n, _ := g.Node(id)
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *dag.Node) int {
		if a.Rank != b.Rank {
			return a.Rank - b.Rank
		}
		return a.Column - b.Column
	})

	type cell struct{ rank, col int }
	taken := make(map[cell]bool)
	for _, n := range g.Nodes() {
		taken[cell{n.Rank, n.Column}] = true
	}

	for _, n := range nodes {
		target := 2*median - n.Column
		col, ok := -1, false
		for c := target; c >= 0 && !ok; c-- {
			col, ok = c, !taken[cell{n.Rank, c}]
		}
		for c := target + 1; c < median && !ok; c++ {
			col, ok = c, !taken[cell{n.Rank, c}]
		}
		if !ok {
			continue
		}
		delete(taken, cell{n.Rank, n.Column})
		taken[cell{n.Rank, col}] = true
		n.Column = col
		moved++
		if !n.IsSynthetic() {
			movedReal++
		}
	}
	return moved, movedReal
}

func rightOf(g *dag.Graph, ids []dag.NodeID, median int) []dag.NodeID {
	var out []dag.NodeID
	for _, id := range ids {
		if n, ok := g.Node(id); ok && n.Column > median {
			out = append(out, id)
		}
	}
	return out
}

func countReal(g *dag.Graph, ids []dag.NodeID) int {
	count := 0
	for _, id := range ids {
		if n, ok := g.Node(id); ok && !n.IsSynthetic() {
			count++
		}
	}
	return count
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
