package transform

import (
	"strings"

	"github.com/matzehuels/procmap/pkg/dag"
)

// Build creates a graph from an edge list. Both endpoints of every edge
// become nodes with zero coordinates; to is appended to from's children and
// from to to's parents.
//
// Nodes that no edge references are not represented. Self-loops, cycles and
// repeated edges are kept as given.
func Build(edges []dag.Edge) *dag.Graph {
	g := dag.New()
	for _, e := range edges {
		from := g.Ensure(e.From)
		to := g.Ensure(e.To)
		from.Children = append(from.Children, e.To)
		to.Parents = append(to.Parents, e.From)
	}
	return g
}

// FindSentinels scans node types for the start and end markers, compared
// case-insensitively. It tags the matching graph nodes and returns their
// indices, or -1 for a marker that does not occur. When a marker occurs
// more than once the last occurrence wins.
func FindSentinels(g *dag.Graph, types []string) (start, end int) {
	start, end = -1, -1
	for i, typ := range types {
		switch {
		case strings.EqualFold(typ, string(dag.Start)):
			start = i
		case strings.EqualFold(typ, string(dag.End)):
			end = i
		}
	}
	tag(g, start, dag.Start)
	tag(g, end, dag.End)
	return start, end
}

func tag(g *dag.Graph, idx int, s dag.Sentinel) {
	if idx < 0 {
		return
	}
	if n, ok := g.Node(dag.NodeID(idx)); ok {
		n.Tag = s
	}
}
