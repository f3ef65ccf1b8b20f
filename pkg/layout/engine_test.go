package layout

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/procmap/pkg/dag"
	"github.com/matzehuels/procmap/pkg/graph"
)

func straightInput() graph.Input {
	return graph.Input{
		Nodes: []graph.Node{
			{Name: "Start", Type: "start"},
			{Name: "A"},
			{Name: "B"},
			{Name: "End", Type: "END"},
		},
		Edges: []graph.Edge{
			{From: 0, To: 1},
			{From: 1, To: 2},
			{From: 2, To: 3},
		},
		Paths: []graph.Path{{Path: []int{1, 2}}},
	}
}

func loadMock(t *testing.T) graph.Input {
	t.Helper()
	in, err := graph.ReadInputFile(filepath.Join("testdata", "mock5.json"))
	if err != nil {
		t.Fatalf("ReadInputFile() error = %v", err)
	}
	return in
}

func translates(g *dag.Graph) map[dag.NodeID]dag.Point {
	out := make(map[dag.NodeID]dag.Point, g.Len())
	for _, n := range g.Nodes() {
		out[n.ID] = n.Geometry.Translate
	}
	return out
}

func TestInitStraightProcess(t *testing.T) {
	e := New(straightInput())
	res := e.Init()

	if got := len(res.Nodes); got != 4 {
		t.Fatalf("len(Nodes) = %d, want 4", got)
	}
	for i, el := range res.Nodes {
		if el.Y != i {
			t.Errorf("node %d rank = %d, want %d", i, el.Y, i)
		}
		if el.X != e.Median() {
			t.Errorf("node %d column = %d, want median %d", i, el.X, e.Median())
		}
		want := dag.Point{X: 0, Y: float64(i) * (DefaultHeight + DefaultGap)}
		if el.CSS.Translate != want {
			t.Errorf("node %d translate = %v, want %v", i, el.CSS.Translate, want)
		}
		if !el.Process || el.Fake {
			t.Errorf("node %d process/fake = %v/%v, want true/false", i, el.Process, el.Fake)
		}
	}
	if res.Nodes[1].Name != "A" || res.Nodes[1].Node == nil {
		t.Errorf("node 1 = %+v, want input node A", res.Nodes[1])
	}
	if e.Graph().SyntheticCount() != 0 {
		t.Errorf("SyntheticCount() = %d, want 0", e.Graph().SyntheticCount())
	}
	if got := res.Graph["3"].Y; got != 3 {
		t.Errorf("Graph[3].Y = %d, want 3", got)
	}
}

func TestInitWithoutPaths(t *testing.T) {
	in := straightInput()
	in.Paths = nil
	e := New(in)
	res := e.Init()

	if len(res.Nodes) != 0 || len(res.Graph) != 0 {
		t.Errorf("Init() = %d nodes, %d graph entries, want empty", len(res.Nodes), len(res.Graph))
	}
	if res.Nodes == nil || res.Graph == nil {
		t.Error("Init() returned nil collections, want empty ones")
	}
	if got := e.DrawEdges(); len(got) != 0 {
		t.Errorf("DrawEdges() = %d lines, want 0", len(got))
	}
	l := e.Export()
	if !l.Empty() || l.Start != -1 || l.End != -1 {
		t.Errorf("Export() = %+v, want empty layout without sentinels", l)
	}
}

func TestInitContextCancelledBetweenStages(t *testing.T) {
	tests := []struct {
		cancelAfter string
		want        []string
	}{
		{"build", []string{"build"}},
		{"rank", []string{"build", "rank"}},
		{"balance", []string{"build", "rank", "order", "subdivide", "balance"}},
	}
	for _, tt := range tests {
		t.Run(tt.cancelAfter, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			var ran []string
			e := New(loadMock(t), WithStageFunc(func(stage string, _ time.Duration) {
				ran = append(ran, stage)
				if stage == tt.cancelAfter {
					cancel()
				}
			}))

			res, err := e.InitContext(ctx)
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("InitContext() error = %v, want %v", err, context.Canceled)
			}
			if res != nil {
				t.Errorf("InitContext() result = %+v, want nil", res)
			}
			if !slices.Equal(ran, tt.want) {
				t.Errorf("stages = %v, want %v", ran, tt.want)
			}
			if e.Graph() != nil {
				t.Error("Graph() != nil after cancelled layout")
			}
			if l := e.Export(); !l.Empty() {
				t.Errorf("Export() = %d nodes, want empty layout", len(l.Nodes))
			}
		})
	}
}

func TestInitContextCompletes(t *testing.T) {
	res, err := New(straightInput()).InitContext(context.Background())
	if err != nil {
		t.Fatalf("InitContext() error = %v", err)
	}
	if got := len(res.Nodes); got != 4 {
		t.Errorf("len(Nodes) = %d, want 4", got)
	}
}

func TestNewDropsNegativeEdges(t *testing.T) {
	in := straightInput()
	in.Edges = append(in.Edges,
		graph.Edge{From: -1, To: 2},
		graph.Edge{From: 1, To: -3},
	)
	e := New(in)
	res := e.Init()

	if got := len(res.Nodes); got != 4 {
		t.Errorf("len(Nodes) = %d, want 4", got)
	}
	if got := e.Graph().SyntheticCount(); got != 0 {
		t.Errorf("SyntheticCount() = %d, want 0", got)
	}
	for _, id := range []dag.NodeID{-1, -3} {
		if _, ok := e.Graph().Node(id); ok {
			t.Errorf("Node(%d) exists, want dropped", id)
		}
	}
	if got := len(e.DrawEdges()); got != 3 {
		t.Errorf("DrawEdges() = %d lines, want 3", got)
	}
	if len(in.Edges) != 5 {
		t.Errorf("input edges = %d, want 5 (unchanged)", len(in.Edges))
	}
}

func TestInitDoesNotMutateInput(t *testing.T) {
	in := loadMock(t)
	before := loadMock(t)
	New(in).Init()
	if diff := cmp.Diff(before, in); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestInitLongEdge(t *testing.T) {
	in := straightInput()
	in.Edges = append(in.Edges, graph.Edge{From: 0, To: 3, Metrics: &graph.Metrics{Count: graph.NewNumber(4)}})
	e := New(in)
	res := e.Init()

	if got := e.Graph().SyntheticCount(); got != 2 {
		t.Fatalf("SyntheticCount() = %d, want 2", got)
	}
	route, ok := e.Paths().Route(dag.EdgeKey{From: 0, To: 3})
	if !ok || len(route) != 4 || route[0] != 0 || route[3] != 3 {
		t.Fatalf("Route(0=>3) = %v, %v, want [0 s1 s2 3]", route, ok)
	}

	for _, el := range res.Nodes {
		if !el.Fake {
			continue
		}
		if el.CSS.Width != DefaultFakeWidth {
			t.Errorf("synthetic %d width = %v, want %v", el.ID, el.CSS.Width, DefaultFakeWidth)
		}
		if el.Node != nil {
			t.Errorf("synthetic %d has input node %+v", el.ID, el.Node)
		}
		if el.Name != dag.NodeID(el.ID).String() {
			t.Errorf("synthetic name = %q, want its id", el.Name)
		}
	}

	first := res.Nodes[slices.IndexFunc(res.Nodes, func(el graph.Element) bool { return el.ID == int(route[1]) })]
	if first.Count.Float() != 4 {
		t.Errorf("first synthetic count = %v, want 4", first.Count.Float())
	}

	lines := e.DrawEdges()
	l, ok := lines["0=>3"]
	if !ok {
		t.Fatal("DrawEdges() has no line 0=>3")
	}
	if len(l.Points) != 4 {
		t.Errorf("len(Points) = %d, want 4", len(l.Points))
	}
	if l.Process {
		t.Error("0=>3 marked as process edge")
	}
	s1, _ := e.Graph().Node(route[1])
	if l.Label == nil || l.Label.At != center(s1.Geometry) {
		t.Errorf("Label = %+v, want anchored at first synthetic center %v", l.Label, center(s1.Geometry))
	}
}

func TestDrawEdgesStraight(t *testing.T) {
	e := New(straightInput())
	e.Init()
	lines := e.DrawEdges()

	if got := len(lines); got != 3 {
		t.Fatalf("len(DrawEdges()) = %d, want 3", got)
	}
	want := graph.Line{
		Key:     "0=>1",
		From:    0,
		To:      1,
		Points:  []dag.Point{{X: 88, Y: 46}, {X: 88, Y: 96}},
		Process: true,
		Color:   graph.Style{Default: "#A5BFDD", Hover: "#2E89BA"},
		Marker:  graph.Style{Default: "marker-arrow", Hover: "marker-arrow--hover"},
	}
	if diff := cmp.Diff(want, lines["0=>1"]); diff != "" {
		t.Errorf("line 0=>1 mismatch (-want +got):\n%s", diff)
	}
	if got := e.Lines(); len(got) != 3 || got[0].Key != "0=>1" || got[2].Key != "2=>3" {
		t.Errorf("Lines() order = %v, want input edge order", got)
	}
}

func TestDrawEdgesBackEdge(t *testing.T) {
	in := straightInput()
	in.Edges = append(in.Edges, graph.Edge{From: 2, To: 1})
	e := New(in)
	e.Init()
	l := e.DrawEdges()["2=>1"]

	b, _ := e.Graph().Node(2)
	a, _ := e.Graph().Node(1)
	want := []dag.Point{topCenter(b.Geometry), bottomCenter(a.Geometry)}
	if diff := cmp.Diff(want, l.Points); diff != "" {
		t.Errorf("back edge points mismatch (-want +got):\n%s", diff)
	}
	if l.Process {
		t.Error("back edge marked as process edge")
	}
}

func TestMoveNodeAndReset(t *testing.T) {
	e := New(straightInput())
	e.Init()
	e.DrawEdges()
	initial := translates(e.Graph())

	moved := e.MoveNode(1, 300, 100)
	if got := len(moved); got != 2 {
		t.Fatalf("MoveNode() redrew %d lines, want 2", got)
	}
	if _, ok := moved["2=>3"]; ok {
		t.Error("MoveNode() redrew 2=>3, which does not touch node 1")
	}
	if got := moved["0=>1"].Points[1]; got != (dag.Point{X: 388, Y: 100}) {
		t.Errorf("0=>1 end = %v, want {388 100}", got)
	}
	if diff := cmp.Diff([]dag.NodeID{1}, e.Moved()); diff != "" {
		t.Errorf("Moved() mismatch (-want +got):\n%s", diff)
	}

	e.MoveNode(1, 10, 10)
	e.MoveNode(3, 500, 500)
	if got := len(e.Moved()); got != 2 {
		t.Errorf("len(Moved()) = %d, want 2", got)
	}

	lines := e.Reset()
	if diff := cmp.Diff(initial, translates(e.Graph())); diff != "" {
		t.Errorf("Reset() positions mismatch (-want +got):\n%s", diff)
	}
	if got := len(lines); got != 3 {
		t.Errorf("len(Reset()) = %d, want 3", got)
	}
	if got := lines["0=>1"].Points[1]; got != (dag.Point{X: 88, Y: 96}) {
		t.Errorf("0=>1 end after Reset = %v, want {88 96}", got)
	}
	if len(e.Moved()) != 0 {
		t.Errorf("Moved() after Reset = %v, want empty", e.Moved())
	}
}

func TestMoveNodeUnknown(t *testing.T) {
	e := New(straightInput())
	if got := e.MoveNode(1, 1, 1); len(got) != 0 {
		t.Errorf("MoveNode() before Init = %d lines, want 0", len(got))
	}

	e.Init()
	before := translates(e.Graph())
	if got := e.MoveNode(42, 1, 1); len(got) != 0 {
		t.Errorf("MoveNode(42) = %d lines, want 0", len(got))
	}
	if diff := cmp.Diff(before, translates(e.Graph())); diff != "" {
		t.Errorf("MoveNode(42) changed positions (-want +got):\n%s", diff)
	}
	if len(e.Moved()) != 0 {
		t.Errorf("Moved() = %v, want empty", e.Moved())
	}
}

func TestMockLayout(t *testing.T) {
	in := loadMock(t)
	var stages []string
	e := New(in, WithStageFunc(func(stage string, _ time.Duration) { stages = append(stages, stage) }))
	res := e.Init()
	lines := e.DrawEdges()

	wantStages := []string{"build", "rank", "order", "subdivide", "balance", "straighten", "place"}
	if diff := cmp.Diff(wantStages, stages); diff != "" {
		t.Errorf("stages mismatch (-want +got):\n%s", diff)
	}

	if got, want := len(res.Nodes), 10+e.Graph().SyntheticCount(); got != want {
		t.Errorf("len(Nodes) = %d, want %d", got, want)
	}

	minX := math.Inf(1)
	for _, el := range res.Nodes {
		minX = min(minX, el.CSS.Translate.X)
	}
	if minX != 0 {
		t.Errorf("min translate x = %v, want 0", minX)
	}

	ok := map[int]bool{}
	for _, el := range res.Nodes {
		ok[el.ID] = el.IsCyclingOk
	}
	for id, want := range map[int]bool{0: true, 1: true, 4: false, 6: false, 7: true, 8: true} {
		if ok[id] != want {
			t.Errorf("node %d IsCyclingOk = %v, want %v", id, ok[id], want)
		}
	}

	if got := len(lines); got != 16 {
		t.Errorf("len(DrawEdges()) = %d, want 16", got)
	}
	disabled := lines["2=>9"]
	if !disabled.Disabled || disabled.Color.Default != "#E5E5E5" || disabled.Marker.Hover != "marker-arrow--disabled" {
		t.Errorf("line 2=>9 = %+v, want disabled style", disabled)
	}
	if !lines["1=>2"].Process || lines["1=>4"].Process {
		t.Error("process flag does not follow consecutive process members")
	}
	if lines["1=>7"].Label != nil {
		t.Error("line without metrics has a label")
	}

	for _, n := range e.Graph().Nodes() {
		for _, c := range n.Children {
			child, _ := e.Graph().Node(c)
			if d := child.Rank - n.Rank; d > 1 || d < -1 {
				t.Errorf("adjacency %v->%v spans %d ranks", n.ID, c, d)
			}
		}
	}

	initial := translates(e.Graph())
	for _, id := range []dag.NodeID{8, 1, -1} {
		e.MoveNode(id, 1000, 1000)
	}
	e.Reset()
	if diff := cmp.Diff(initial, translates(e.Graph())); diff != "" {
		t.Errorf("Reset() positions mismatch (-want +got):\n%s", diff)
	}
}

func TestExport(t *testing.T) {
	e := New(loadMock(t))
	e.Init()
	e.DrawEdges()
	l := e.Export()

	if l.Start != 0 || l.End != 9 {
		t.Errorf("Start, End = %d, %d, want 0, 9", l.Start, l.End)
	}
	if l.Median != e.Median() {
		t.Errorf("Median = %d, want %d", l.Median, e.Median())
	}
	if len(l.Edges) != 16 {
		t.Errorf("len(Edges) = %d, want 16", len(l.Edges))
	}
	if l.Stats == nil || l.Stats.Nodes != 10 || l.Stats.Synthetic != e.Graph().SyntheticCount() {
		t.Errorf("Stats = %+v, want 10 real nodes", l.Stats)
	}
	if l.Process[0] != 0 || l.Process[len(l.Process)-1] != 9 {
		t.Errorf("Process = %v, want start first and end last", l.Process)
	}

	var w float64
	for _, el := range l.Nodes {
		w = max(w, el.CSS.Translate.X+el.CSS.Width)
	}
	if l.Width != w {
		t.Errorf("Width = %v, want %v", l.Width, w)
	}

	for key, route := range l.PathMap {
		k, err := dag.ParseEdgeKey(key)
		if err != nil {
			t.Fatalf("ParseEdgeKey(%q) error = %v", key, err)
		}
		if route[0] != int(k.From) || route[len(route)-1] != int(k.To) {
			t.Errorf("PathMap[%s] = %v, want endpoints %d and %d", key, route, k.From, k.To)
		}
	}
}

func TestOptions(t *testing.T) {
	e := New(straightInput(),
		WithRect(Rect{Width: 100, Gap: 20}),
		WithColors(Palette{Primary: "#000000"}),
		WithMarkers(Palette{Hover: "hover"}),
	)
	e.Init()

	n, _ := e.Graph().Node(2)
	want := dag.Geometry{Width: 100, Height: DefaultHeight, Translate: dag.Point{X: 0, Y: 2 * (DefaultHeight + 20)}}
	if n.Geometry != want {
		t.Errorf("Geometry = %+v, want %+v", n.Geometry, want)
	}

	l := e.DrawEdges()["1=>2"]
	if l.Color != (graph.Style{Default: "#000000", Hover: "#2E89BA"}) {
		t.Errorf("Color = %+v, want primary override only", l.Color)
	}
	if l.Marker != (graph.Style{Default: "marker-arrow", Hover: "hover"}) {
		t.Errorf("Marker = %+v, want hover override only", l.Marker)
	}
}
