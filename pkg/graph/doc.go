// Package graph provides the wire format of procmap: the process graph
// submitted for layout and the positioned layout returned.
//
// # Input
//
// An [Input] lists process steps, observed transitions between them and
// candidate paths. Edges and paths refer to steps by index:
//
//	{
//	  "nodes": [{"name": "Start", "type": "start"}, {"name": "Check"}, {"name": "End", "type": "end"}],
//	  "edges": [{"from": 0, "to": 1, "metrics": {"count": "12"}}, {"from": 1, "to": 2}],
//	  "paths": [{"path": [1]}]
//	}
//
// Inputs are read from JSON or YAML ([ReadInputFile], [ReadInput]) and
// validated on the way in. Metric values may be numbers or numeric strings;
// see [Number].
//
// # Layout
//
// A [Layout] holds one [Element] per node, real or synthetic, with its box
// in pixels, and one [Line] per input edge with the points of its route.
// Layouts are written as JSON ([WriteLayout], [WriteLayoutFile]) and stored
// as BSON by the MongoDB layout store.
package graph
