package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/procmap/pkg/dag"
)

// Subdivision is the result of [Subdivide].
type Subdivision struct {
	// Edges is the edge list with every long edge replaced by its chain.
	Edges []dag.Edge
	// Process is the process with synthetic process nodes spliced in.
	Process []dag.NodeID
	// Paths maps each split edge to its route.
	Paths dag.PathMap
}

// Subdivide breaks edges that span more than one rank into chains of
// synthetic nodes, one per intermediate rank. The inputs are not modified.
//
//	Before: a (rank 0) → d (rank 3)
//	After:  a → s1 (rank 1) → s2 (rank 2) → d
//
// Edges are handled shortest span first so short edges claim lanes before
// long ones compete for them. A chain occupies a single column: the larger
// of the endpoint columns, moved right until it is free on every rank the
// chain crosses. Chains between consecutive process members are process
// nodes themselves and are spliced into the process.
//
// # Edge Metadata
//
// Edge metadata is kept only on the final hop of a chain (the edge entering
// the original target).
//
// # Repeated Edges
//
// A long edge that repeats an already split edge is dropped; the graph
// adjacency was rewired by the first chain.
func Subdivide(g *dag.Graph, edges []dag.Edge, process []dag.NodeID) Subdivision {
	edges = slices.Clone(edges)
	process = slices.Clone(process)
	slices.SortStableFunc(edges, func(a, b dag.Edge) int {
		return cmp.Compare(span(g, a), span(g, b))
	})

	var (
		paths  dag.PathMap
		remove []int
		m      = dag.Rearrange(g)
		count  = len(edges)
	)
	for i := 0; i < count; i++ {
		e := edges[i]
		if span(g, e) <= 1 {
			continue
		}
		remove = append(remove, i)
		if _, done := paths.Route(e.Key()); done {
			continue
		}

		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		onProcess := consecutive(process, e.From, e.To)
		col := freeLane(m, from, to)
		step := 1
		if to.Rank < from.Rank {
			step = -1
		}

		paths.Add(e.Key(), e.From)
		prev := e.From
		depth := 0
		for rank := from.Rank + step; rank != to.Rank; rank += step {
			depth++
			s := g.AddSynthetic(e.Key(), depth)
			s.Rank, s.Column = rank, col
			s.Process = onProcess
			s.Children = []dag.NodeID{e.To}
			s.Parents = []dag.NodeID{prev}
			g.ReplaceChild(prev, e.To, s.ID)
			g.ReplaceParent(e.To, prev, s.ID)
			if onProcess {
				process = slices.Insert(process, slices.Index(process, e.To), s.ID)
			}
			edges = append(edges, dag.Edge{From: prev, To: s.ID})
			paths.Add(e.Key(), s.ID)
			prev = s.ID
		}
		edges = append(edges, dag.Edge{From: prev, To: e.To, Meta: e.Meta})
		paths.Add(e.Key(), e.To)
		m = dag.Rearrange(g)
	}

	slices.Sort(remove)
	for _, i := range slices.Backward(remove) {
		edges = slices.Delete(edges, i, i+1)
	}
	return Subdivision{Edges: edges, Process: process, Paths: paths}
}

func span(g *dag.Graph, e dag.Edge) int {
	from, ok := g.Node(e.From)
	if !ok {
		return 0
	}
	to, ok := g.Node(e.To)
	if !ok {
		return 0
	}
	d := to.Rank - from.Rank
	if d < 0 {
		return -d
	}
	return d
}

func consecutive(process []dag.NodeID, a, b dag.NodeID) bool {
	for i := 0; i+1 < len(process); i++ {
		if process[i] == a && process[i+1] == b {
			return true
		}
	}
	return false
}

// freeLane returns the first column, starting at the larger endpoint
// column, that is empty on every rank strictly between from and to.
func freeLane(m dag.Matrix, from, to *dag.Node) int {
	lo, hi := min(from.Rank, to.Rank), max(from.Rank, to.Rank)
	col := max(from.Column, to.Column)
	for {
		free := true
		for r := lo + 1; r < hi; r++ {
			if m.Occupied(r, col) {
				free = false
				break
			}
		}
		if free {
			return col
		}
		col++
	}
}
