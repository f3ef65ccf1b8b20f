// Package render turns computed process layouts into viewable artifacts.
//
// # Renderers
//
// The [svg] subpackage draws a layout directly: one box per real node at
// its computed translate, and one polyline per edge along its routed
// points. No layout work happens during rendering.
//
// The [nodelink] subpackage exports the layout as Graphviz DOT, keeping the
// computed ranks as rank=same groups, and can render that DOT to SVG through
// Graphviz.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg := svg.Render(l)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [svg]: github.com/matzehuels/procmap/pkg/render/svg
// [nodelink]: github.com/matzehuels/procmap/pkg/render/nodelink
package render
