package graph

import (
	"github.com/matzehuels/procmap/pkg/dag"
)

// =============================================================================
// Layout - Positioned Process Graph
// =============================================================================

// Layout is the serialization format of a finished layout.
//
// Renderers need only Nodes and Edges: every element carries its box and
// every line its points. Graph, PathMap and Process describe the grid the
// engine produced and are kept for tooling that inspects the layout.
type Layout struct {
	Nodes   []Element            `json:"nodes" yaml:"nodes" bson:"nodes"`
	Graph   map[string]GraphNode `json:"graph" yaml:"graph" bson:"graph"`
	PathMap map[string][]int     `json:"pathMap,omitempty" yaml:"pathMap,omitempty" bson:"path_map,omitempty"`
	Process []int                `json:"process,omitempty" yaml:"process,omitempty" bson:"process,omitempty"`
	Median  int                  `json:"median" yaml:"median" bson:"median"`
	Start   int                  `json:"start" yaml:"start" bson:"start"`
	End     int                  `json:"end" yaml:"end" bson:"end"`
	Width   float64              `json:"width" yaml:"width" bson:"width"`
	Height  float64              `json:"height" yaml:"height" bson:"height"`
	Edges   []Line               `json:"edges,omitempty" yaml:"edges,omitempty" bson:"edges,omitempty"`
	Stats   *Stats               `json:"stats,omitempty" yaml:"stats,omitempty" bson:"stats,omitempty"`
}

// Empty reports whether the layout has no nodes, as produced for an input
// without paths.
func (l *Layout) Empty() bool { return len(l.Nodes) == 0 }

// Element is a positioned node. Name is the input node name, or the
// synthetic id for routing nodes, whose Node is nil.
type Element struct {
	ID          int          `json:"id" yaml:"id" bson:"id"`
	Name        string       `json:"name" yaml:"name" bson:"name"`
	Node        *Node        `json:"node,omitempty" yaml:"node,omitempty" bson:"node,omitempty"`
	X           int          `json:"x" yaml:"x" bson:"x"`
	Y           int          `json:"y" yaml:"y" bson:"y"`
	Process     bool         `json:"process" yaml:"process" bson:"process"`
	Fake        bool         `json:"fake" yaml:"fake" bson:"fake"`
	CSS         dag.Geometry `json:"css" yaml:"css" bson:"css"`
	IsCyclingOk bool         `json:"isCyclingOk" yaml:"isCyclingOk" bson:"is_cycling_ok"`
	Count       *Number      `json:"count,omitempty" yaml:"count,omitempty" bson:"count,omitempty"`
}

// GraphNode is the grid state of one node. X is the column, Y the rank.
type GraphNode struct {
	X               int          `json:"x" yaml:"x" bson:"x"`
	Y               int          `json:"y" yaml:"y" bson:"y"`
	Children        []int        `json:"children" yaml:"children" bson:"children"`
	Parents         []int        `json:"parents" yaml:"parents" bson:"parents"`
	Process         bool         `json:"process" yaml:"process" bson:"process"`
	Fake            bool         `json:"fake" yaml:"fake" bson:"fake"`
	ProcessDistance int          `json:"processDistance" yaml:"processDistance" bson:"process_distance"`
	CSS             dag.Geometry `json:"css" yaml:"css" bson:"css"`
}

// =============================================================================
// Line - Drawn Edge
// =============================================================================

// Line is an input edge as drawn: a polyline through its route.
type Line struct {
	Key      string      `json:"key" yaml:"key" bson:"key"`
	From     int         `json:"from" yaml:"from" bson:"from"`
	To       int         `json:"to" yaml:"to" bson:"to"`
	Points   []dag.Point `json:"points" yaml:"points" bson:"points"`
	Process  bool        `json:"process,omitempty" yaml:"process,omitempty" bson:"process,omitempty"`
	Disabled bool        `json:"disabled,omitempty" yaml:"disabled,omitempty" bson:"disabled,omitempty"`
	Color    Style       `json:"color" yaml:"color" bson:"color"`
	Marker   Style       `json:"marker" yaml:"marker" bson:"marker"`
	Label    *Label      `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
}

// Style is a pair of values for the resting and hovered state.
type Style struct {
	Default string `json:"default" yaml:"default" bson:"default"`
	Hover   string `json:"hover" yaml:"hover" bson:"hover"`
}

// Label places the metrics of an edge along its line.
type Label struct {
	At      dag.Point `json:"at" yaml:"at" bson:"at"`
	Metrics Metrics   `json:"metrics" yaml:"metrics" bson:"metrics"`
}

// Stats summarizes a layout for reporting.
type Stats struct {
	Nodes     int `json:"nodes" yaml:"nodes" bson:"nodes"`
	Synthetic int `json:"synthetic" yaml:"synthetic" bson:"synthetic"`
	Edges     int `json:"edges" yaml:"edges" bson:"edges"`
	Ranks     int `json:"ranks" yaml:"ranks" bson:"ranks"`
	Crossings int `json:"crossings" yaml:"crossings" bson:"crossings"`
}
