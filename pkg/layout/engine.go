package layout

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procmap/pkg/dag"
	"github.com/matzehuels/procmap/pkg/dag/transform"
	"github.com/matzehuels/procmap/pkg/graph"
)

// Engine lays out one process graph and keeps the result for interactive
// edits: nodes can be dragged with [Engine.MoveNode] and restored with
// [Engine.Reset].
//
// An Engine is not safe for concurrent use.
type Engine struct {
	input   graph.Input
	rect    Rect
	colors  Palette
	markers Palette
	logger  *log.Logger
	onStage StageFunc

	g        *dag.Graph
	median   int
	start    int
	end      int
	selected []dag.NodeID // process before subdivision
	process  []dag.NodeID // process including synthetic members
	edges    []dag.Edge   // subdivided edge list
	paths    dag.PathMap
	order    []dag.EdgeKey
	byKey    map[dag.EdgeKey]graph.Edge

	snapshot map[dag.NodeID]dag.Point
	moved    []dag.NodeID
	lines    Lines
}

// Result is what [Engine.Init] returns: one element per node and the grid
// state keyed by node id.
type Result struct {
	Nodes []graph.Element
	Graph map[string]graph.GraphNode
}

// New creates an engine for in. The input is copied; later changes to it do
// not affect the engine. Negative ids belong to synthetic nodes, so edges
// with a negative endpoint are dropped; use [graph.Input.Validate] to reject
// such input instead.
func New(in graph.Input, opts ...Option) *Engine {
	e := &Engine{
		input: graph.Input{
			Nodes: slices.Clone(in.Nodes),
			Edges: slices.DeleteFunc(slices.Clone(in.Edges), func(ie graph.Edge) bool {
				return ie.From < 0 || ie.To < 0
			}),
			Paths: slices.Clone(in.Paths),
		},
		rect:    DefaultRect(),
		colors:  DefaultColors(),
		markers: DefaultMarkers(),
		start:   -1,
		end:     -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = discardLogger()
	}
	return e
}

// Init runs every layout stage and captures the positions that Reset
// restores. An input without paths yields an empty result and no stage runs.
// Calling Init again discards previous edits and lays out from scratch.
func (e *Engine) Init() *Result {
	res, _ := e.InitContext(context.Background())
	return res
}

// InitContext is Init with cancellation: ctx is checked before every stage,
// and once it is done the engine is left empty, as before Init, and
// ctx.Err() is returned.
func (e *Engine) InitContext(ctx context.Context) (*Result, error) {
	e.g = dag.New()
	e.median, e.start, e.end = 0, -1, -1
	e.selected, e.process, e.edges = nil, nil, nil
	e.paths = dag.PathMap{}
	e.snapshot = make(map[dag.NodeID]dag.Point)
	e.moved = nil
	e.lines = Lines{}
	e.indexEdges()

	if len(e.input.Paths) == 0 {
		e.logger.Debug("no paths, skipping layout")
		return &Result{Nodes: []graph.Element{}, Graph: map[string]graph.GraphNode{}}, nil
	}

	total := time.Now()
	edges := e.dagEdges()

	stages := []struct {
		name string
		run  func()
	}{
		{"build", func() {
			e.g = transform.Build(edges)
			e.start, e.end = transform.FindSentinels(e.g, e.input.Types())
			e.selected = transform.ProcessSequence(e.g, e.start, e.end, toIDs(e.input.Process()))
		}},
		{"rank", func() { transform.AssignRanks(e.g, e.selected) }},
		{"order", func() { transform.Order(e.g) }},
		{"subdivide", func() {
			sub := transform.Subdivide(e.g, edges, e.selected)
			e.edges, e.process, e.paths = sub.Edges, sub.Process, sub.Paths
		}},
		{"balance", func() { e.median, _ = transform.Balance(e.g) }},
		{"straighten", func() { e.median = transform.Straighten(e.g, &e.paths, e.median).Median }},
		{"place", func() {
			place(e.g, e.rect)
			shrink(e.g, e.rect)
			stickToLeft(e.g)
		}},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			e.logger.Debug("layout cancelled", "before", st.name)
			e.g = nil
			return nil, err
		}
		e.stage(st.name, st.run)
	}

	for _, n := range e.g.Nodes() {
		e.snapshot[n.ID] = n.Geometry.Translate
	}

	e.logger.Debug("layout complete",
		"nodes", e.g.Len(),
		"synthetic", e.g.SyntheticCount(),
		"median", e.median,
		"duration", time.Since(total))

	return &Result{Nodes: e.elements(), Graph: e.gridState()}, nil
}

// Graph returns the laid out graph, or nil before Init.
func (e *Engine) Graph() *dag.Graph { return e.g }

// Median returns the column of the process lane.
func (e *Engine) Median() int { return e.median }

// Process returns the process including synthetic members.
func (e *Engine) Process() []dag.NodeID { return slices.Clone(e.process) }

// Paths returns the routes of subdivided edges.
func (e *Engine) Paths() *dag.PathMap { return &e.paths }

// Moved returns the ids of nodes moved since Init or the last Reset.
func (e *Engine) Moved() []dag.NodeID { return slices.Clone(e.moved) }

func (e *Engine) stage(name string, fn func()) {
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	m := dag.Rearrange(e.g)
	e.logger.Debug("stage", "stage", name, "ranks", m.Ranks(), "nodes", e.g.Len(), "duration", elapsed)
	if e.onStage != nil {
		e.onStage(name, elapsed)
	}
}

// indexEdges records the input edges by key in input order. A repeated key
// keeps its first edge.
func (e *Engine) indexEdges() {
	e.order = e.order[:0]
	e.byKey = make(map[dag.EdgeKey]graph.Edge, len(e.input.Edges))
	for _, ie := range e.input.Edges {
		key := dag.EdgeKey{From: dag.NodeID(ie.From), To: dag.NodeID(ie.To)}
		if _, ok := e.byKey[key]; ok {
			continue
		}
		e.byKey[key] = ie
		e.order = append(e.order, key)
	}
}

func (e *Engine) dagEdges() []dag.Edge {
	out := make([]dag.Edge, len(e.input.Edges))
	for i, ie := range e.input.Edges {
		out[i] = dag.Edge{From: dag.NodeID(ie.From), To: dag.NodeID(ie.To), Meta: metricsMeta(ie.Metrics)}
	}
	return out
}

func metricsMeta(m *graph.Metrics) dag.Metadata {
	if m == nil {
		return nil
	}
	meta := dag.Metadata{}
	if m.Count != nil {
		meta["count"] = m.Count.Float()
	}
	if m.Cycling != nil {
		meta["cycling"] = m.Cycling.Float()
	}
	if m.Duration != nil {
		meta["duration"] = m.Duration.Float()
	}
	return meta
}

func toIDs(path []int) []dag.NodeID {
	out := make([]dag.NodeID, len(path))
	for i, v := range path {
		out[i] = dag.NodeID(v)
	}
	return out
}

func fromIDs(ids []dag.NodeID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func idKey(id dag.NodeID) string { return strconv.Itoa(int(id)) }
