package layout

import (
	"slices"

	"github.com/matzehuels/procmap/pkg/dag"
	"github.com/matzehuels/procmap/pkg/graph"
)

// cyclingTolerance is how far above the median cycling a node may be and
// still count as normal.
const cyclingTolerance = 0.1

// Export returns the layout as a serializable document, including the
// lines drawn so far. Call DrawEdges first to include every line.
func (e *Engine) Export() graph.Layout {
	if e.g == nil || e.g.Len() == 0 {
		return graph.Layout{
			Nodes: []graph.Element{},
			Graph: map[string]graph.GraphNode{},
			Start: e.start,
			End:   e.end,
		}
	}

	pm := make(map[string][]int, e.paths.Len())
	for _, key := range e.paths.Keys() {
		route, _ := e.paths.Route(key)
		pm[key.String()] = fromIDs(route)
	}

	w, h := extent(e.g)
	return graph.Layout{
		Nodes:   e.elements(),
		Graph:   e.gridState(),
		PathMap: pm,
		Process: fromIDs(e.process),
		Median:  e.median,
		Start:   e.start,
		End:     e.end,
		Width:   w,
		Height:  h,
		Edges:   e.Lines(),
		Stats:   e.Stats(),
	}
}

// Stats summarizes the current layout.
func (e *Engine) Stats() *graph.Stats {
	if e.g == nil {
		return &graph.Stats{}
	}
	m := dag.Rearrange(e.g)
	return &graph.Stats{
		Nodes:     e.g.Len() - e.g.SyntheticCount(),
		Synthetic: e.g.SyntheticCount(),
		Edges:     len(e.edges),
		Ranks:     m.Ranks(),
		Crossings: dag.CountCrossings(e.g, m),
	}
}

func (e *Engine) elements() []graph.Element {
	medianCycling, hasCycling := e.medianCycling()
	counts := e.labelCounts()

	nodes := e.g.Nodes()
	out := make([]graph.Element, 0, len(nodes))
	for _, n := range nodes {
		el := graph.Element{
			ID:          int(n.ID),
			Name:        n.ID.String(),
			X:           n.Column,
			Y:           n.Rank,
			Process:     n.Process,
			Fake:        n.IsSynthetic(),
			CSS:         n.Geometry,
			IsCyclingOk: true,
			Count:       counts[n.ID],
		}
		if in := e.inputNode(n.ID); in != nil {
			el.Name = in.Name
			el.Node = in
			if hasCycling && in.Metrics != nil && in.Metrics.Cycling != nil {
				el.IsCyclingOk = in.Metrics.Cycling.Float() < medianCycling*(1+cyclingTolerance)
			}
		}
		out = append(out, el)
	}
	return out
}

func (e *Engine) gridState() map[string]graph.GraphNode {
	out := make(map[string]graph.GraphNode, e.g.Len())
	for _, n := range e.g.Nodes() {
		out[idKey(n.ID)] = graph.GraphNode{
			X:               n.Column,
			Y:               n.Rank,
			Children:        fromIDs(n.Children),
			Parents:         fromIDs(n.Parents),
			Process:         n.Process,
			Fake:            n.IsSynthetic(),
			ProcessDistance: n.Distance,
			CSS:             n.Geometry,
		}
	}
	return out
}

func (e *Engine) inputNode(id dag.NodeID) *graph.Node {
	if id < 0 || int(id) >= len(e.input.Nodes) {
		return nil
	}
	n := e.input.Nodes[id]
	return &n
}

// medianCycling returns the median cycling metric over all input nodes
// that report one. The upper median is used for even counts.
func (e *Engine) medianCycling() (float64, bool) {
	var values []float64
	for _, n := range e.input.Nodes {
		if n.Metrics != nil && n.Metrics.Cycling != nil {
			values = append(values, n.Metrics.Cycling.Float())
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	slices.Sort(values)
	return values[len(values)/2], true
}

// labelCounts assigns the transition count of every routed edge to the
// first synthetic node of its route.
func (e *Engine) labelCounts() map[dag.NodeID]*graph.Number {
	out := make(map[dag.NodeID]*graph.Number)
	for _, key := range e.paths.Keys() {
		ie, ok := e.byKey[key]
		if !ok || ie.Metrics == nil {
			continue
		}
		if s := e.paths.Synthetic(key); len(s) > 0 {
			out[s[0]] = graph.NewNumber(ie.Metrics.Count.Float())
		}
	}
	return out
}
