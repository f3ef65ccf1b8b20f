package svg

import (
	"bytes"
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/procmap/pkg/graph"
)

const (
	nodeFill        = "#FFFFFF"
	nodeStroke      = "#A5BFDD"
	processStroke   = "#2E89BA"
	cyclingStroke   = "#D9534F"
	syntheticFill   = "#C8C8C8"
	labelColor      = "#5A5A5A"
	defaultPadding  = 20.0
	cornerRadius    = 4.0
	labelFontSize   = 11.0
	syntheticRadius = 3.0
)

const interactionCSS = `
    .edge { transition: stroke 0.15s ease; }
    .edge:hover { stroke: var(--hover); marker-end: var(--hover-marker); stroke-width: 3; }
    .node { transition: stroke-width 0.15s ease; }
    .node:hover { stroke-width: 3; }`

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	padding     float64
	synthetic   bool
	interactive bool
}

// WithPadding sets the margin around the drawing. Negative values are
// treated as zero.
func WithPadding(p float64) Option { return func(r *renderer) { r.padding = max(0, p) } }

// WithSynthetic draws synthetic routing nodes as small dots.
func WithSynthetic() Option { return func(r *renderer) { r.synthetic = true } }

// WithoutInteraction omits the hover stylesheet.
func WithoutInteraction() Option { return func(r *renderer) { r.interactive = false } }

// Render draws l. Lines are taken from l.Edges; a layout exported before
// its edges were drawn renders boxes only.
func Render(l graph.Layout, opts ...Option) []byte {
	r := renderer{padding: defaultPadding, interactive: true}
	for _, opt := range opts {
		opt(&r)
	}

	p := r.padding
	w, h := l.Width+2*p, l.Height+2*p

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(-p), num(-p), num(w), num(h), w, h)

	renderDefs(&buf, l.Edges)
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
	}

	buf.WriteString("  <g class=\"edges\">\n")
	for _, line := range l.Edges {
		renderLine(&buf, line)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"nodes\">\n")
	for _, el := range sortedElements(l.Nodes) {
		switch {
		case !el.Fake:
			renderNode(&buf, el)
		case r.synthetic:
			renderSynthetic(&buf, el)
		}
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"labels\">\n")
	for _, line := range l.Edges {
		renderLabel(&buf, line)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderDefs writes one arrow marker per marker id used by the lines, filled
// with the color of the state it is used for.
func renderDefs(buf *bytes.Buffer, lines []graph.Line) {
	colors := make(map[string]string)
	for _, l := range lines {
		for _, pair := range [][2]string{
			{l.Marker.Default, l.Color.Default},
			{l.Marker.Hover, l.Color.Hover},
		} {
			if pair[0] == "" {
				continue
			}
			if _, ok := colors[pair[0]]; !ok {
				colors[pair[0]] = pair[1]
			}
		}
	}
	if len(colors) == 0 {
		return
	}

	buf.WriteString("  <defs>\n")
	for _, id := range slices.Sorted(maps.Keys(colors)) {
		fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">`+
			`<path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n",
			EscapeXML(id), EscapeXML(colors[id]))
	}
	buf.WriteString("  </defs>\n")
}

func renderLine(buf *bytes.Buffer, l graph.Line) {
	if len(l.Points) < 2 {
		return
	}
	pts := make([]string, len(l.Points))
	for i, pt := range l.Points {
		pts[i] = num(pt.X) + "," + num(pt.Y)
	}

	class := "edge"
	width := 1.5
	if l.Process {
		class += " process"
		width = 2.5
	}
	dash := ""
	if l.Disabled {
		class += " disabled"
		dash = ` stroke-dasharray="4 3"`
	}

	fmt.Fprintf(buf, `    <polyline id="edge-%d-%d" class="%s" points="%s" fill="none" stroke="%s" stroke-width="%s"%s`,
		l.From, l.To, class, strings.Join(pts, " "), EscapeXML(l.Color.Default), num(width), dash)
	if l.Marker.Default != "" {
		fmt.Fprintf(buf, ` marker-end="url(#%s)"`, EscapeXML(l.Marker.Default))
	}
	if l.Color.Hover != "" || l.Marker.Hover != "" {
		fmt.Fprintf(buf, ` style="--hover:%s;--hover-marker:url(#%s)"`, EscapeXML(l.Color.Hover), EscapeXML(l.Marker.Hover))
	}
	buf.WriteString("/>\n")
}

func renderNode(buf *bytes.Buffer, el graph.Element) {
	geo := el.CSS
	class := "node"
	stroke, width := nodeStroke, 1.0
	if el.Process {
		class += " process"
		stroke, width = processStroke, 2.0
	}
	if el.Node != nil && el.Node.Type != "" {
		class += " " + EscapeXML(el.Node.Type)
	}
	if !el.IsCyclingOk {
		class += " cycling"
		stroke = cyclingStroke
	}

	fmt.Fprintf(buf, `    <g id="node-%d" class="%s">`, el.ID, class)
	fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
		num(geo.Translate.X), num(geo.Translate.Y), num(geo.Width), num(geo.Height),
		num(cornerRadius), nodeFill, stroke, num(width))

	size := FontSize(geo.Width, geo.Height, len(el.Name))
	fmt.Fprintf(buf, `<text x="%s" y="%s" font-size="%s" font-family="sans-serif" text-anchor="middle" dominant-baseline="central">%s</text>`,
		num(geo.Translate.X+geo.Width/2), num(geo.Translate.Y+geo.Height/2), num(size),
		EscapeXML(Truncate(el.Name, geo.Width, size)))
	buf.WriteString("</g>\n")
}

func renderSynthetic(buf *bytes.Buffer, el graph.Element) {
	geo := el.CSS
	fmt.Fprintf(buf, `    <circle id="node-%d" class="synthetic" cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
		el.ID, num(geo.Translate.X+geo.Width/2), num(geo.Translate.Y+geo.Height/2),
		num(syntheticRadius), syntheticFill)
}

func renderLabel(buf *bytes.Buffer, l graph.Line) {
	if l.Label == nil || l.Label.Metrics.Count == nil {
		return
	}
	fmt.Fprintf(buf, `    <text class="metric" x="%s" y="%s" font-size="%s" font-family="sans-serif" fill="%s" dx="4">%s</text>`+"\n",
		num(l.Label.At.X), num(l.Label.At.Y), num(labelFontSize), labelColor,
		num(l.Label.Metrics.Count.Float()))
}

// sortedElements orders real nodes by id, then synthetic nodes by
// decreasing id (-1, -2, ...), so output is stable.
func sortedElements(els []graph.Element) []graph.Element {
	out := slices.Clone(els)
	slices.SortFunc(out, func(a, b graph.Element) int {
		if a.Fake != b.Fake {
			if a.Fake {
				return 1
			}
			return -1
		}
		if a.Fake {
			return cmp.Compare(b.ID, a.ID)
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// num formats v with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
