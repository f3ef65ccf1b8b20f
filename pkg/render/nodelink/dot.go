package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/procmap/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the node metrics to node labels and the transition
	// count to edge labels.
	Detailed bool
}

const (
	processFill   = "#2E89BA"
	cyclingColor  = "#D9534F"
	defaultStroke = "#A5BFDD"
)

// ToDOT converts a layout to Graphviz DOT. Only real nodes are written;
// edges come from the layout's drawn lines, or from the grid adjacency
// between real nodes when no lines were drawn.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	ranks := make(map[int][]int)
	present := make(map[int]bool)
	for _, el := range l.Nodes {
		if el.Fake {
			continue
		}
		present[el.ID] = true
		ranks[el.Y] = append(ranks[el.Y], el.ID)
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(el.ID), strings.Join(nodeAttrs(el, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, r := range slices.Sorted(maps.Keys(ranks)) {
		ids := ranks[r]
		slices.Sort(ids)
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = nodeID(id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(names, "; "))
	}

	buf.WriteString("\n")
	for _, e := range edges(l, present) {
		fmt.Fprintf(&buf, "  %s -> %s", nodeID(e.From), nodeID(e.To))
		if attrs := edgeAttrs(e, opts.Detailed); len(attrs) > 0 {
			fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id int) string { return "n" + strconv.Itoa(id) }

func nodeAttrs(el graph.Element, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(el, detailed))}
	if el.Process {
		attrs = append(attrs, "fillcolor=\""+processFill+"\"", "fontcolor=white")
	}
	if el.Node != nil && (el.Node.Type == graph.TypeStart || el.Node.Type == graph.TypeEnd) {
		attrs = append(attrs, "shape=ellipse")
	}
	if !el.IsCyclingOk {
		attrs = append(attrs, "color=\""+cyclingColor+"\"", "penwidth=2")
	}
	return attrs
}

func nodeLabel(el graph.Element, detailed bool) string {
	if !detailed || el.Node == nil || el.Node.Metrics == nil {
		return el.Name
	}
	parts := []string{el.Name}
	parts = append(parts, metricLines(*el.Node.Metrics)...)
	return strings.Join(parts, "\n")
}

func metricLines(m graph.Metrics) []string {
	var out []string
	for _, f := range []struct {
		name string
		v    *graph.Number
	}{
		{"count", m.Count}, {"cycling", m.Cycling}, {"duration", m.Duration},
	} {
		if f.v != nil {
			out = append(out, f.name+": "+strconv.FormatFloat(f.v.Float(), 'f', -1, 64))
		}
	}
	return out
}

func edgeAttrs(l graph.Line, detailed bool) []string {
	var attrs []string
	if l.Color.Default != "" && l.Color.Default != defaultStroke {
		attrs = append(attrs, fmt.Sprintf("color=%q", l.Color.Default))
	}
	if l.Process {
		attrs = append(attrs, "weight=10", "penwidth=2")
	}
	if l.Disabled {
		attrs = append(attrs, "style=dashed")
	}
	if detailed && l.Label != nil && l.Label.Metrics.Count != nil {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(l.Label.Metrics.Count.Float(), 'f', -1, 64)))
	}
	return attrs
}

// edges returns the input edges between real nodes, taken from the drawn
// lines when there are any.
func edges(l graph.Layout, present map[int]bool) []graph.Line {
	if len(l.Edges) > 0 {
		out := make([]graph.Line, 0, len(l.Edges))
		for _, e := range l.Edges {
			if present[e.From] && present[e.To] {
				out = append(out, e)
			}
		}
		return out
	}

	var out []graph.Line
	for _, id := range slices.Sorted(maps.Keys(present)) {
		n := l.Graph[strconv.Itoa(id)]
		children := slices.Clone(n.Children)
		slices.Sort(children)
		for _, c := range children {
			if present[c] {
				out = append(out, graph.Line{From: id, To: c, Process: n.Process && l.Graph[strconv.Itoa(c)].Process})
			}
		}
	}
	return out
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose
// viewBox starts at the origin and whose size matches the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
