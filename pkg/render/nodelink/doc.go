// Package nodelink exports process layouts as Graphviz node-link diagrams.
//
// [ToDOT] writes the real nodes and input edges of a layout as DOT source.
// The computed ranks are kept as rank=same groups and process edges get a
// high weight, so Graphviz draws the process as a straight backbone the way
// the layout engine does:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT text is useful on its own for external Graphviz tooling.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
