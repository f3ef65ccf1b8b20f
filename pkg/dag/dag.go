package dag

import (
	"cmp"
	"math"
	"slices"
	"strconv"
)

// NodeID identifies a node in a [Graph].
//
// Real nodes use their index in the input node list and are therefore
// non-negative. Synthetic routing nodes receive negative ids from a counter
// owned by the graph (-1, -2, ...), so the two id spaces never overlap.
type NodeID int

// None marks an empty matrix cell or an absent node reference.
const None NodeID = math.MinInt32

// IsSynthetic reports whether id lies in the synthetic id space.
func (id NodeID) IsSynthetic() bool { return id < 0 && id != None }

func (id NodeID) String() string {
	if id == None {
		return "none"
	}
	return strconv.Itoa(int(id))
}

// CompareIDs orders ids the way a [Graph] iterates them: real ids ascending,
// then synthetic ids in creation order.
func CompareIDs(a, b NodeID) int {
	switch {
	case a >= 0 && b >= 0:
		return cmp.Compare(a, b)
	case a < 0 && b < 0:
		return cmp.Compare(b, a)
	case a >= 0:
		return -1
	default:
		return 1
	}
}

// NodeKind distinguishes input nodes from routing placeholders.
type NodeKind int

const (
	// Regular nodes come from the input node list.
	Regular NodeKind = iota
	// Synthetic nodes stand in for one rank-step of an edge spanning several ranks.
	Synthetic
)

// Sentinel tags the start and end nodes of a process graph.
type Sentinel string

const (
	NoSentinel Sentinel = ""
	Start      Sentinel = "start"
	End        Sentinel = "end"
)

// Unreachable is the process distance of nodes with no path to the process.
const Unreachable = -1

// Metadata stores arbitrary key-value pairs attached to edges.
type Metadata map[string]any

// Point is a pixel offset.
type Point struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
}

// Geometry is the rendered box of a node.
type Geometry struct {
	Width     float64 `json:"width" yaml:"width" bson:"width"`
	Height    float64 `json:"height" yaml:"height" bson:"height"`
	Translate Point   `json:"translate" yaml:"translate" bson:"translate"`
}

// Node is a vertex of a process graph with its layout coordinates.
//
// Rank is the vertical layer (0 at the top) and Column the horizontal slot
// within that layer. Children and Parents keep insertion order and may
// contain duplicates when the input repeats an edge.
type Node struct {
	ID       NodeID
	Rank     int
	Column   int
	Children []NodeID
	Parents  []NodeID

	// Process marks members of the selected process path. Once set it is
	// never cleared.
	Process bool
	// Distance is the graph distance to the nearest process node, or
	// [Unreachable].
	Distance int

	Kind NodeKind
	Tag  Sentinel

	// Origin and Depth describe where a synthetic node came from: the edge
	// it subdivides and its 1-based position along that edge.
	Origin EdgeKey
	Depth  int

	Geometry Geometry
}

// IsSynthetic reports whether the node is a routing placeholder.
func (n *Node) IsSynthetic() bool { return n.Kind == Synthetic }

// Neighbors returns children followed by parents.
func (n *Node) Neighbors() []NodeID {
	out := make([]NodeID, 0, len(n.Children)+len(n.Parents))
	out = append(out, n.Children...)
	return append(out, n.Parents...)
}

// Edge is a directed transition between two nodes.
type Edge struct {
	From NodeID
	To   NodeID
	Meta Metadata
}

// Key returns the path key of the edge.
func (e Edge) Key() EdgeKey { return EdgeKey{From: e.From, To: e.To} }

// Graph owns every node of one layout session. Stages mutate it in place.
//
// The zero value is not usable; create graphs with [New].
// Graph is not safe for concurrent use.
type Graph struct {
	nodes map[NodeID]*Node
	next  NodeID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[NodeID]*Node), next: -1}
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether id is part of the graph.
func (g *Graph) Has(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Ensure returns the node with the given id, creating a regular node with
// zero coordinates when it does not exist yet.
func (g *Graph) Ensure(id NodeID) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id}
	g.nodes[id] = n
	return n
}

// AddSynthetic creates a routing node for the given edge at the given depth
// and returns it. The id is drawn from the graph's synthetic counter.
func (g *Graph) AddSynthetic(origin EdgeKey, depth int) *Node {
	n := &Node{
		ID:     g.next,
		Kind:   Synthetic,
		Origin: origin,
		Depth:  depth,
	}
	g.nodes[n.ID] = n
	g.next--
	return n
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// IDs returns all node ids in iteration order (see [CompareIDs]).
func (g *Graph) IDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, CompareIDs)
	return ids
}

// Nodes returns all nodes in iteration order.
func (g *Graph) Nodes() []*Node {
	ids := g.IDs()
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id]
	}
	return out
}

// SyntheticCount returns the number of routing nodes.
func (g *Graph) SyntheticCount() int {
	count := 0
	for _, n := range g.nodes {
		if n.IsSynthetic() {
			count++
		}
	}
	return count
}

// ColumnBounds returns the smallest and largest column of real nodes.
// ok is false when the graph has no real nodes.
func (g *Graph) ColumnBounds() (lo, hi int, ok bool) {
	for _, n := range g.nodes {
		if n.IsSynthetic() {
			continue
		}
		if !ok {
			lo, hi, ok = n.Column, n.Column, true
			continue
		}
		lo = min(lo, n.Column)
		hi = max(hi, n.Column)
	}
	return lo, hi, ok
}

// ReplaceChild swaps every occurrence of old in id's children for repl,
// appended at the end.
func (g *Graph) ReplaceChild(id, old, repl NodeID) {
	n := g.nodes[id]
	n.Children = append(slices.DeleteFunc(n.Children, func(c NodeID) bool { return c == old }), repl)
}

// ReplaceParent swaps every occurrence of old in id's parents for repl,
// appended at the end.
func (g *Graph) ReplaceParent(id, old, repl NodeID) {
	n := g.nodes[id]
	n.Parents = append(slices.DeleteFunc(n.Parents, func(p NodeID) bool { return p == old }), repl)
}
