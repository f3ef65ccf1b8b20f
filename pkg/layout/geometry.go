package layout

import (
	"math"

	"github.com/matzehuels/procmap/pkg/dag"
)

// place gives every node a box of the default size at its grid cell.
func place(g *dag.Graph, r Rect) {
	for _, n := range g.Nodes() {
		n.Geometry = dag.Geometry{
			Width:  r.Width,
			Height: r.Height,
			Translate: dag.Point{
				X: float64(n.Column) * (r.Width + r.Gap),
				Y: float64(n.Rank) * (r.Height + r.Gap),
			},
		}
	}
}

// shrink narrows synthetic nodes outside the columns spanned by real nodes
// and packs their columns at FakeWidth+Gap spacing against the real ones.
// Synthetic nodes between real columns keep their full box so that lanes
// line up with the nodes around them.
func shrink(g *dag.Graph, r Rect) {
	lo, hi, ok := g.ColumnBounds()
	if !ok {
		return
	}
	full := r.Width + r.Gap
	narrow := r.FakeWidth + r.Gap
	for _, n := range g.Nodes() {
		if !n.IsSynthetic() {
			continue
		}
		switch {
		case n.Column < lo:
			n.Geometry.Width = r.FakeWidth
			n.Geometry.Translate.X = float64(lo)*full - float64(lo-n.Column)*narrow
		case n.Column > hi:
			n.Geometry.Width = r.FakeWidth
			n.Geometry.Translate.X = float64(hi+1)*full + float64(n.Column-hi-1)*narrow
		}
	}
}

// stickToLeft shifts every node so the leftmost box starts at x = 0.
func stickToLeft(g *dag.Graph) {
	if g.Len() == 0 {
		return
	}
	minX := math.Inf(1)
	for _, n := range g.Nodes() {
		minX = min(minX, n.Geometry.Translate.X)
	}
	for _, n := range g.Nodes() {
		n.Geometry.Translate.X -= minX
	}
}

// extent returns the size of the box enclosing every node.
func extent(g *dag.Graph) (width, height float64) {
	for _, n := range g.Nodes() {
		width = max(width, n.Geometry.Translate.X+n.Geometry.Width)
		height = max(height, n.Geometry.Translate.Y+n.Geometry.Height)
	}
	return width, height
}

func bottomCenter(geo dag.Geometry) dag.Point {
	return dag.Point{X: geo.Translate.X + geo.Width/2, Y: geo.Translate.Y + geo.Height}
}

func topCenter(geo dag.Geometry) dag.Point {
	return dag.Point{X: geo.Translate.X + geo.Width/2, Y: geo.Translate.Y}
}

func center(geo dag.Geometry) dag.Point {
	return dag.Point{X: geo.Translate.X + geo.Width/2, Y: geo.Translate.Y + geo.Height/2}
}
