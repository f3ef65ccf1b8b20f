// Package pkg provides the libraries behind procmap, a layout engine for
// process-mining graphs.
//
// # Overview
//
// A process graph has activities as nodes and observed transitions as edges.
// One path through it, the main process, is drawn as a straight vertical
// lane; every other node is placed around that lane so that side branches
// stay balanced and long transitions are routed through waypoints.
//
// The pkg directory is organized as:
//
//  1. [dag] - Graph structure, rank matrix, crossing count and path map
//  2. [dag/transform] - The layout stages: build, rank, order, subdivide,
//     balance and straighten
//  3. [layout] - The engine: pixel geometry, edge lines, interactive moves
//  4. [graph] - Input and output documents (JSON, YAML, BSON)
//  5. [render] - SVG, DOT and Graphviz output, PNG and PDF conversion
//  6. [pipeline] - Orchestration (parse → layout → render) with caching
//  7. [cache], [store], [config], [errors], [observability] - Infrastructure
//
// # Architecture
//
//	input.json / input.yaml
//	         ↓
//	    [graph] package (decode + validate)
//	         ↓
//	    [layout] package (runs the [dag/transform] stages)
//	         ↓
//	    [render] package (SVG, DOT, Graphviz, PNG, PDF)
//
// # Quick Start
//
//	in, err := graph.ReadInputFile("process.json")
//	if err != nil {
//	    return err
//	}
//	e := layout.New(in)
//	e.Init()
//	e.DrawEdges()
//	out := e.Export()
//	os.WriteFile("process.svg", svg.Render(out), 0o644)
//
// For cached runs that also render, use [pipeline.Runner].
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/dag/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/layout
// [graph]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/procmap/pkg/observability
package pkg
