// Package dag provides the mutable graph, matrix and path-map structures that
// the process layout stages operate on.
//
// # Overview
//
// A process graph is laid out on a grid: every node gets a rank (vertical
// layer, 0 at the top) and a column (horizontal slot). The [Graph] owns all
// nodes of one layout session and is mutated in place by each stage of
// package transform. Despite the package name, graphs may contain cycles and
// self-loops; process-mining graphs routinely do.
//
// # Node Identifiers
//
// Real nodes are identified by their index in the input node list. Synthetic
// routing nodes, inserted for edges that span more than one rank, receive
// negative ids from a counter owned by the graph:
//
//	g := dag.New()
//	g.Ensure(0)
//	s := g.AddSynthetic(dag.EdgeKey{From: 0, To: 3}, 1) // s.ID == -1
//
// [Graph.IDs] iterates real ids ascending, then synthetic ids in creation
// order, which keeps every stage deterministic.
//
// # Matrix
//
// [Matrix] is the [rank][column] view of the graph. It is never the source
// of truth: [Rearrange] rebuilds it from node coordinates and is idempotent.
//
// # Path Map
//
// [PathMap] records the route of each split edge under its "from=>to" key,
// from source through every synthetic node to target. Renderers draw routed
// edges through these members.
//
// # Crossings
//
// [CountCrossings] reports the number of segment crossings between adjacent
// ranks. Layout never optimizes it globally.
package dag
