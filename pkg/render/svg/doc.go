// Package svg draws a computed process layout as a standalone SVG document.
//
// Real nodes become rounded boxes at their computed translate; edges become
// polylines along their routed points with arrow markers at the target.
// Synthetic routing nodes are invisible unless [WithSynthetic] is given.
//
//	l := engine.Export()
//	data := svg.Render(l, svg.WithPadding(40))
//
// Process nodes carry the "process" class, and nodes whose cycling metric
// is well above the median carry "cycling", so stylesheets can restyle
// either. Edge hover colors and markers are applied through CSS custom
// properties unless [WithoutInteraction] is given.
package svg
