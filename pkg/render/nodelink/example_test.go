package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/procmap/pkg/graph"
	"github.com/matzehuels/procmap/pkg/layout"
	"github.com/matzehuels/procmap/pkg/render/nodelink"
)

func ExampleToDOT() {
	in := graph.Input{
		Nodes: []graph.Node{
			{Name: "Start", Type: "start"},
			{Name: "Register"},
			{Name: "Approve"},
			{Name: "End", Type: "end"},
		},
		Edges: []graph.Edge{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 3}},
		Paths: []graph.Path{{Path: []int{1, 2}}},
	}
	e := layout.New(in)
	e.Init()
	e.DrawEdges()

	fmt.Print(nodelink.ToDOT(e.Export(), nodelink.Options{}))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//   edge [arrowsize=0.7];
	//   ranksep=0.5;
	//   nodesep=0.4;
	//
	//   n0 [label="Start", fillcolor="#2E89BA", fontcolor=white, shape=ellipse];
	//   n1 [label="Register", fillcolor="#2E89BA", fontcolor=white];
	//   n2 [label="Approve", fillcolor="#2E89BA", fontcolor=white];
	//   n3 [label="End", fillcolor="#2E89BA", fontcolor=white, shape=ellipse];
	//
	//   { rank=same; n0; }
	//   { rank=same; n1; }
	//   { rank=same; n2; }
	//   { rank=same; n3; }
	//
	//   n0 -> n1 [weight=10, penwidth=2];
	//   n1 -> n2 [weight=10, penwidth=2];
	//   n2 -> n3 [weight=10, penwidth=2];
	// }
}
