package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/procmap/pkg/graph"
)

func branchLayout() graph.Layout {
	count := graph.NewNumber(12)
	cycling := graph.NewNumber(3)
	review := graph.Node{Name: "Review", Metrics: &graph.Metrics{Count: count, Cycling: cycling}}
	return graph.Layout{
		Nodes: []graph.Element{
			{ID: 0, Name: "A", Y: 0, Process: true, IsCyclingOk: true},
			{ID: 1, Name: "Review", Y: 1, Node: &review, IsCyclingOk: false},
			{ID: 2, Name: "B", Y: 1, Process: true, IsCyclingOk: true},
			{ID: -1, Fake: true, Y: 1, IsCyclingOk: true},
		},
		Graph: map[string]graph.GraphNode{
			"0":  {Children: []int{2, 1}, Process: true},
			"1":  {Parents: []int{0}},
			"2":  {Y: 1, Parents: []int{0}, Process: true},
			"-1": {Fake: true},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(branchLayout(), Options{})

	wants := []string{
		"digraph G {",
		`n0 [label="A", fillcolor="#2E89BA", fontcolor=white];`,
		`n1 [label="Review", color="#D9534F", penwidth=2];`,
		"{ rank=same; n1; n2; }",
		"n0 -> n1;",
		"n0 -> n2 [weight=10, penwidth=2];",
	}
	for _, want := range wants {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "n-1") {
		t.Error("ToDOT() wrote a synthetic node")
	}
	if strings.Index(dot, "n0 -> n1") > strings.Index(dot, "n0 -> n2") {
		t.Error("ToDOT() edges from the grid should be sorted by child id")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(branchLayout(), Options{Detailed: true})
	if !strings.Contains(dot, `label="Review\ncount: 12\ncycling: 3"`) {
		t.Errorf("ToDOT() detailed output missing metrics:\n%s", dot)
	}
}

func TestToDOT_Lines(t *testing.T) {
	l := branchLayout()
	l.Edges = []graph.Line{
		{From: 0, To: 1, Disabled: true, Color: graph.Style{Default: "#E5E5E5"},
			Label: &graph.Label{Metrics: graph.Metrics{Count: graph.NewNumber(7)}}},
		{From: 0, To: -1},
	}

	dot := ToDOT(l, Options{Detailed: true})
	if !strings.Contains(dot, `n0 -> n1 [color="#E5E5E5", style=dashed, label="7"];`) {
		t.Errorf("ToDOT() line styling missing:\n%s", dot)
	}
	if strings.Contains(dot, "n0 -> n2") {
		t.Error("ToDOT() should use lines instead of grid adjacency when lines exist")
	}
	if strings.Contains(dot, "n-1") {
		t.Error("ToDOT() wrote an edge to a synthetic node")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox changed input: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(branchLayout(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing svg element")
	}
	if !strings.Contains(string(svg), "Review") {
		t.Error("RenderSVG() output missing node label")
	}
}
