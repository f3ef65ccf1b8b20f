package transform

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/procmap/pkg/dag"
)

const (
	// maxBranchSteps bounds the depth-first search over all synthetic roots
	// together.
	maxBranchSteps = 1 << 14

	// maxBranches bounds the number of reflection candidates.
	maxBranches = 512
)

// branch is a set of non-process nodes that is reflected as a unit.
type branch struct {
	key     string
	members []dag.NodeID
}

// findBranches returns the reflection candidates of g: the whole
// non-process neighborhood of every real non-process node, followed by one
// maximal simple path per "root=>last" pair for paths that leave the
// process through a synthetic root. Of several paths with the same
// endpoints the last one found is kept. Branches with identical membership
// are reported once, at the position of their last occurrence.
func findBranches(g *dag.Graph) []branch {
	var found []branch
	hoods := make(map[dag.NodeID][]dag.NodeID)
	for _, n := range g.Nodes() {
		if n.Process || n.IsSynthetic() {
			continue
		}
		// Neighborhoods are connected components, so members share one.
		hood, ok := hoods[n.ID]
		if !ok {
			hood = neighborhood(g, n.ID)
			for _, id := range hood {
				hoods[id] = hood
			}
		}
		found = append(found, branch{key: n.ID.String(), members: hood})
	}

	paths := newPathSet()
	budget := maxBranchSteps
	for _, n := range g.Nodes() {
		if !n.Process {
			continue
		}
		for _, id := range unique(n.Neighbors()) {
			s, ok := g.Node(id)
			if !ok || s.Process || !s.IsSynthetic() || paths.rooted[id] {
				continue
			}
			paths.rooted[id] = true
			budget = maximalPaths(g, id, budget, paths.put)
		}
	}
	found = append(found, paths.branches()...)

	out := dedupeBranches(found)
	if len(out) > maxBranches {
		out = out[:maxBranches]
	}
	return out
}

// pathSet keeps one path per key in first-insertion order.
type pathSet struct {
	index  map[string]int
	list   []branch
	rooted map[dag.NodeID]bool
}

func newPathSet() *pathSet {
	return &pathSet{index: make(map[string]int), rooted: make(map[dag.NodeID]bool)}
}

func (p *pathSet) put(path []dag.NodeID) {
	key := path[0].String() + "=>" + path[len(path)-1].String()
	if i, ok := p.index[key]; ok {
		p.list[i].members = path
		return
	}
	p.index[key] = len(p.list)
	p.list = append(p.list, branch{key: key, members: path})
}

func (p *pathSet) branches() []branch { return p.list }

// neighborhood collects every non-process node reachable from root without
// passing through the process, root included, sorted in graph order.
func neighborhood(g *dag.Graph, root dag.NodeID) []dag.NodeID {
	seen := map[dag.NodeID]bool{root: true}
	queue := []dag.NodeID{root}
	members := []dag.NodeID{root}
	for len(queue) > 0 {
		curr, _ := g.Node(queue[0])
		queue = queue[1:]
		for _, id := range curr.Neighbors() {
			n, ok := g.Node(id)
			if !ok || n.Process || seen[id] {
				continue
			}
			seen[id] = true
			queue = append(queue, id)
			members = append(members, id)
		}
	}
	slices.SortFunc(members, dag.CompareIDs)
	return members
}

// maximalPaths walks simple paths through non-process nodes starting at
// root and passes every path that cannot be extended to emit. It stops
// after budget expansions and returns what is left of the budget.
func maximalPaths(g *dag.Graph, root dag.NodeID, budget int, emit func([]dag.NodeID)) int {
	stack := [][]dag.NodeID{{root}}
	for len(stack) > 0 && budget > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		budget--

		last, _ := g.Node(path[len(path)-1])
		extended := false
		for _, id := range unique(last.Neighbors()) {
			n, ok := g.Node(id)
			if !ok || n.Process || slices.Contains(path, id) {
				continue
			}
			stack = append(stack, append(slices.Clip(path), id))
			extended = true
		}
		if !extended {
			emit(path)
		}
	}
	return budget
}

// dedupeBranches drops every branch whose membership shows up again later
// in the list.
func dedupeBranches(in []branch) []branch {
	keys := make([]string, len(in))
	last := make(map[string]int, len(in))
	for i, b := range in {
		keys[i] = membershipKey(b.members)
		last[keys[i]] = i
	}
	out := make([]branch, 0, len(last))
	for i, b := range in {
		if last[keys[i]] == i {
			out = append(out, b)
		}
	}
	return out
}

func membershipKey(ids []dag.NodeID) string {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, dag.CompareIDs)
	var b strings.Builder
	for _, id := range sorted {
		b.WriteString(strconv.Itoa(int(id)))
		b.WriteByte(',')
	}
	return b.String()
}

func unique(ids []dag.NodeID) []dag.NodeID {
	out := make([]dag.NodeID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
