// Package layout turns a process graph into positioned boxes and routed
// lines.
//
// An [Engine] owns one layout session. [Engine.Init] runs the stages of
// package transform in order, then converts grid cells to pixel boxes:
// every cell is Width+Gap wide and Height+Gap tall, synthetic nodes outside
// the columns of real nodes are narrowed to FakeWidth, and the drawing is
// shifted so the leftmost box starts at x = 0.
//
//	e := layout.New(input, layout.WithLogger(logger))
//	res := e.Init()          // positioned elements
//	lines := e.DrawEdges()   // one polyline per input edge
//
// # Interactive Edits
//
// [Engine.MoveNode] moves one box and redraws only the lines routed through
// it. [Engine.Reset] puts every moved box back where Init placed it. No
// other relayout is supported: structural edits need a new Engine.
//
// # Lines
//
// A line runs from the bottom center of its source through the centers of
// its synthetic nodes to the top center of its target. Lines between
// consecutive process members are flagged as process lines; disabled edges
// use the disabled color and marker. Edges with metrics carry a label
// anchored at their first synthetic node, or at the midpoint of a direct
// line.
package layout
