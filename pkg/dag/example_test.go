package dag_test

import (
	"fmt"

	"github.com/matzehuels/procmap/pkg/dag"
)

func ExampleRearrange() {
	g := dag.New()
	g.Ensure(0)
	b := g.Ensure(1)
	b.Rank, b.Column = 1, 1
	c := g.Ensure(2)
	c.Rank, c.Column = 1, 0
	d := g.Ensure(3)
	d.Rank, d.Column = 2, 2

	m := dag.Rearrange(g)
	fmt.Println("Matrix:", m)
	fmt.Println("Width:", m.Width())
	fmt.Println("Row 2:", m.Row(2))
	// Output:
	// Matrix: [[0] [2 1] [none none 3]]
	// Width: 3
	// Row 2: [3]
}

func ExamplePathMap() {
	g := dag.New()
	key := dag.EdgeKey{From: 0, To: 3}
	s1 := g.AddSynthetic(key, 1)
	s2 := g.AddSynthetic(key, 2)

	var paths dag.PathMap
	paths.Add(key, 0, s1.ID, s2.ID, 3)
	paths.Add(key, s1.ID)

	route, _ := paths.Route(key)
	fmt.Println(key, route)
	fmt.Println("Synthetic:", paths.Synthetic(key))
	// Output:
	// 0=>3 [0 -1 -2 3]
	// Synthetic: [-1 -2]
}
