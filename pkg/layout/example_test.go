package layout_test

import (
	"fmt"

	"github.com/matzehuels/procmap/pkg/graph"
	"github.com/matzehuels/procmap/pkg/layout"
)

func ExampleEngine() {
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
	res := e.Init()
	for _, el := range res.Nodes {
		fmt.Printf("%-8s rank=%d x=%.0f y=%.0f\n", el.Name, el.Y, el.CSS.Translate.X, el.CSS.Translate.Y)
	}

	lines := e.DrawEdges()
	fmt.Println("1=>2:", lines["1=>2"].Points)

	moved := e.MoveNode(2, 250, 192)
	fmt.Println("redrawn:", len(moved))
	fmt.Println("1=>2:", moved["1=>2"].Points)

	lines = e.Reset()
	fmt.Println("1=>2:", lines["1=>2"].Points)
	// Output:
	// Start    rank=0 x=0 y=0
	// Register rank=1 x=0 y=96
	// Approve  rank=2 x=0 y=192
	// End      rank=3 x=0 y=288
	// 1=>2: [{88 142} {88 192}]
	// redrawn: 2
	// 1=>2: [{88 142} {338 192}]
	// 1=>2: [{88 142} {88 192}]
}
