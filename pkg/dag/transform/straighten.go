package transform

import (
	"slices"

	"github.com/matzehuels/procmap/pkg/dag"
)

// Straightened is the result of [Straighten].
type Straightened struct {
	// Median is the process column after renormalization.
	Median int
	// Left and Right list the routes whose synthetic nodes lie entirely on
	// one side of the median.
	Left, Right []dag.EdgeKey
}

// Straighten pulls the synthetic chain of every route that lies entirely on
// one side of median towards it, so routed edges run as straight vertical
// lanes close to the real nodes.
//
// The chain is first aligned on the column of its member farthest from the
// median and then moved one column at a time towards it. A step is taken
// only if, on every rank of the chain, the target cell is empty or holds a
// member of the same route; the first refused step ends the chain's move.
//
// Finally the leftmost occupied column becomes column 0 and the median is
// shifted accordingly.
func Straighten(g *dag.Graph, paths *dag.PathMap, median int) Straightened {
	var out Straightened
	for _, key := range paths.Keys() {
		chain := chainNodes(g, paths.Synthetic(key))
		if len(chain) == 0 {
			continue
		}
		route, _ := paths.Route(key)

		switch side(chain, median) {
		case -1:
			out.Left = append(out.Left, key)
			far := slices.MinFunc(chain, byColumn).Column
			for col := far; col < median; col++ {
				if !shiftChain(g, chain, route, col) {
					break
				}
			}
		case 1:
			out.Right = append(out.Right, key)
			far := slices.MaxFunc(chain, byColumn).Column
			for col := far; col > median; col-- {
				if !shiftChain(g, chain, route, col) {
					break
				}
			}
		}
	}

	lo := 0
	for i, n := range g.Nodes() {
		if i == 0 || n.Column < lo {
			lo = n.Column
		}
	}
	for _, n := range g.Nodes() {
		n.Column -= lo
	}
	out.Median = median - lo
	return out
}

func chainNodes(g *dag.Graph, ids []dag.NodeID) []*dag.Node {
	out := make([]*dag.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := g.Node(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// side returns -1 when every node is left of median, 1 when every node is
// right of it, and 0 otherwise.
func side(chain []*dag.Node, median int) int {
	left, right := true, true
	for _, n := range chain {
		left = left && n.Column < median
		right = right && n.Column > median
	}
	switch {
	case left:
		return -1
	case right:
		return 1
	default:
		return 0
	}
}

func shiftChain(g *dag.Graph, chain []*dag.Node, route []dag.NodeID, col int) bool {
	m := dag.Rearrange(g)
	for _, n := range chain {
		if id := m.At(n.Rank, col); id != dag.None && !slices.Contains(route, id) {
			return false
		}
	}
	for _, n := range chain {
		n.Column = col
	}
	return true
}

func byColumn(a, b *dag.Node) int { return a.Column - b.Column }
