// Package transform implements the stages that lay out a process graph on
// a rank/column grid.
//
// # Overview
//
// Process-mining graphs are dense, cyclic and dominated by one path: the
// process. The stages in this package place that path on a single vertical
// lane and arrange everything else around it:
//
//  1. [Build] creates the graph from the edge list.
//  2. [FindSentinels] locates the start and end nodes.
//  3. [AssignRanks] ranks the process by position and every other node
//     below the mean rank of its neighbors, then compacts ranks.
//  4. [Order] moves children off their parents' rank and closes gaps.
//  5. [Subdivide] replaces edges spanning several ranks with chains of
//     synthetic nodes and records their routes.
//  6. [Balance] centers the process and mirrors branches to its left.
//  7. [Straighten] pulls routed chains towards the process lane.
//
// Each stage mutates the [dag.Graph] in place and returns the rebuilt
// [dag.Matrix] or its own result value. Stages must run in the order above;
// package layout wires them together.
//
// # Degraded Input
//
// No stage fails. Missing sentinels, nodes without ranked neighbors,
// self-loops and disconnected components all produce a layout, possibly a
// lopsided one.
package transform
