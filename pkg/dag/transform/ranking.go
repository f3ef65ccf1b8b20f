package transform

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/procmap/pkg/dag"
)

// ProcessSequence returns the process of a graph: the start sentinel, the
// members of path, then the end sentinel. Sentinel indices below zero, ids
// that are not part of g, and repeated ids are dropped.
func ProcessSequence(g *dag.Graph, start, end int, path []dag.NodeID) []dag.NodeID {
	seq := make([]dag.NodeID, 0, len(path)+2)
	add := func(id dag.NodeID) {
		if g.Has(id) && !slices.Contains(seq, id) {
			seq = append(seq, id)
		}
	}
	if start >= 0 {
		add(dag.NodeID(start))
	}
	for _, id := range path {
		add(id)
	}
	if end >= 0 {
		add(dag.NodeID(end))
	}
	return seq
}

// AssignRanks gives every node a rank anchored on the process and returns
// the resulting matrix.
//
// Process members are ranked by their position in process. Every other node
// is ranked one below the rounded-up mean rank of its neighbors, visiting
// nodes closest to the process first so later averages build on settled
// ranks. Neighbors tagged [dag.End] are ignored, and a neighbor only counts
// towards the mean when it is a process node or already has a nonzero rank.
// A node without any counted neighbor gets rank 0.
//
// Raw ranks are then compacted to 0..k, with the end node alone on rank k.
// Process nodes take column 0 of their rank; other nodes follow from column
// 1 in iteration order, leaving column 0 free as the process lane.
func AssignRanks(g *dag.Graph, process []dag.NodeID) dag.Matrix {
	for i, id := range process {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		n.Rank = i + 1
		n.Process = true
	}
	measureDistances(g)
	rankByNeighbors(g)
	return normalizeRanks(g)
}

// measureDistances sets Distance on every node with a breadth-first search
// seeded from all process nodes at once. Edges are followed in both
// directions.
func measureDistances(g *dag.Graph) {
	nodes := g.Nodes()
	queue := make([]*dag.Node, 0, len(nodes))
	seen := make(map[dag.NodeID]bool, len(nodes))
	for _, n := range nodes {
		n.Distance = dag.Unreachable
		if n.Process {
			n.Distance = 0
			seen[n.ID] = true
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, id := range curr.Neighbors() {
			if seen[id] {
				continue
			}
			seen[id] = true
			next, ok := g.Node(id)
			if !ok {
				continue
			}
			next.Distance = curr.Distance + 1
			queue = append(queue, next)
		}
	}
}

func rankByNeighbors(g *dag.Graph) {
	var pending []*dag.Node
	for _, n := range g.Nodes() {
		if !n.Process {
			pending = append(pending, n)
		}
	}
	slices.SortStableFunc(pending, func(a, b *dag.Node) int {
		return cmp.Compare(distanceKey(a), distanceKey(b))
	})

	for _, n := range pending {
		sum, count := 0, 0
		for _, id := range n.Neighbors() {
			nb, ok := g.Node(id)
			if !ok || nb.Tag == dag.End {
				continue
			}
			sum += nb.Rank
			if nb.Process || nb.Rank != 0 {
				count++
			}
		}
		if count == 0 {
			n.Rank = 0
			continue
		}
		n.Rank = ceilDiv(sum, count) + 1
	}
}

func distanceKey(n *dag.Node) int {
	if n.Distance == dag.Unreachable {
		return math.MaxInt
	}
	return n.Distance
}

func normalizeRanks(g *dag.Graph) dag.Matrix {
	nodes := g.Nodes()
	slices.SortStableFunc(nodes, func(a, b *dag.Node) int {
		if a.Process != b.Process {
			if a.Process {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Rank, b.Rank)
	})

	var end *dag.Node
	if i := slices.IndexFunc(nodes, func(n *dag.Node) bool { return n.Tag == dag.End }); i >= 0 {
		end = nodes[i]
		nodes = append(slices.Delete(nodes, i, i+1), end)
	}

	dense := make(map[int]int)
	widths := []int{}
	for _, n := range nodes {
		idx, ok := dense[n.Rank]
		if n == end || !ok {
			idx = len(widths)
			widths = append(widths, 0)
			if n != end {
				dense[n.Rank] = idx
			}
		}
		if !n.Process && widths[idx] == 0 {
			widths[idx]++
		}
		n.Rank = idx
		n.Column = widths[idx]
		widths[idx]++
	}
	return dag.Rearrange(g)
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
