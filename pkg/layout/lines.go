package layout

import (
	"maps"
	"slices"

	"github.com/matzehuels/procmap/pkg/dag"
	"github.com/matzehuels/procmap/pkg/graph"
)

// Lines maps "from=>to" keys of input edges to their drawn lines.
type Lines map[string]graph.Line

// DrawEdges computes the line of every input edge from the current node
// positions and returns all of them.
func (e *Engine) DrawEdges() Lines {
	if e.g == nil || e.g.Len() == 0 {
		return Lines{}
	}
	e.lines = make(Lines, len(e.order))
	for _, key := range e.order {
		e.lines[key.String()] = e.drawLine(key)
	}
	return maps.Clone(e.lines)
}

// MoveNode places node id at pixel offset (x, y) and redraws the lines
// routed through it. Only the redrawn lines are returned. Unknown ids leave
// the layout untouched and return no lines.
func (e *Engine) MoveNode(id dag.NodeID, x, y float64) Lines {
	if e.g == nil {
		return Lines{}
	}
	n, ok := e.g.Node(id)
	if !ok {
		return Lines{}
	}
	n.Geometry.Translate = dag.Point{X: x, Y: y}
	if !slices.Contains(e.moved, id) {
		e.moved = append(e.moved, id)
	}

	if e.lines == nil {
		e.lines = Lines{}
	}
	out := Lines{}
	for _, key := range e.order {
		if !e.routedThrough(key, id) {
			continue
		}
		line := e.drawLine(key)
		e.lines[key.String()] = line
		out[key.String()] = line
	}
	return out
}

// Reset moves every node moved since Init back to its initial position and
// redraws all lines.
func (e *Engine) Reset() Lines {
	if e.g == nil {
		return Lines{}
	}
	for _, id := range e.moved {
		if n, ok := e.g.Node(id); ok {
			n.Geometry.Translate = e.snapshot[id]
		}
	}
	e.moved = nil
	return e.DrawEdges()
}

// Lines returns the lines drawn so far in input edge order.
func (e *Engine) Lines() []graph.Line {
	out := make([]graph.Line, 0, len(e.lines))
	for _, key := range e.order {
		if l, ok := e.lines[key.String()]; ok {
			out = append(out, l)
		}
	}
	return out
}

func (e *Engine) route(key dag.EdgeKey) []dag.NodeID {
	if r, ok := e.paths.Route(key); ok {
		return r
	}
	return []dag.NodeID{key.From, key.To}
}

func (e *Engine) routedThrough(key dag.EdgeKey, id dag.NodeID) bool {
	return key.From == id || key.To == id || slices.Contains(e.route(key), id)
}

func (e *Engine) drawLine(key dag.EdgeKey) graph.Line {
	ie := e.byKey[key]
	route := e.route(key)

	geo := make([]dag.Geometry, len(route))
	for i, id := range route {
		if n, ok := e.g.Node(id); ok {
			geo[i] = n.Geometry
		}
	}

	// Lines leave through the bottom and enter through the top, or the
	// reverse for edges pointing upwards.
	points := make([]dag.Point, len(route))
	var label *graph.Label
	last := len(route) - 1
	for i := range route {
		switch {
		case i == 0:
			if geo[1].Translate.Y < geo[0].Translate.Y {
				points[i] = topCenter(geo[i])
			} else {
				points[i] = bottomCenter(geo[i])
			}
		case i == last:
			if geo[i-1].Translate.Y > geo[i].Translate.Y {
				points[i] = bottomCenter(geo[i])
			} else {
				points[i] = topCenter(geo[i])
			}
		default:
			points[i] = center(geo[i])
			if label == nil && ie.Metrics != nil {
				label = &graph.Label{At: points[i], Metrics: *ie.Metrics}
			}
		}
	}
	if label == nil && ie.Metrics != nil {
		label = &graph.Label{At: midpoint(points[0], points[last]), Metrics: *ie.Metrics}
	}

	line := graph.Line{
		Key:     key.String(),
		From:    int(key.From),
		To:      int(key.To),
		Points:  points,
		Process: consecutive(e.selected, key.From, key.To),
		Color:   graph.Style{Default: e.colors.Primary, Hover: e.colors.Hover},
		Marker:  graph.Style{Default: e.markers.Primary, Hover: e.markers.Hover},
		Label:   label,
	}
	if ie.Disabled() {
		line.Disabled = true
		line.Color = graph.Style{Default: e.colors.Disabled, Hover: e.colors.Disabled}
		line.Marker = graph.Style{Default: e.markers.Disabled, Hover: e.markers.Disabled}
	}
	return line
}

func consecutive(process []dag.NodeID, a, b dag.NodeID) bool {
	i := slices.Index(process, a)
	return i >= 0 && i+1 < len(process) && process[i+1] == b
}

func midpoint(a, b dag.Point) dag.Point {
	return dag.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
