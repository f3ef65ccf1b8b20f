package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/procmap/pkg/errors"
)

// Node types recognised by the layout engine. Matching is case-insensitive.
const (
	TypeStart = "start"
	TypeEnd   = "end"
)

// Edge statuses.
const (
	StatusEnabled  = ""
	StatusDisabled = "disabled"
)

// =============================================================================
// Input - Process Graph Document
// =============================================================================

// Input is the process graph submitted for layout.
//
// Edges and paths refer to nodes by their index in Nodes. Only the first
// path is laid out; it is the process drawn along the center lane.
type Input struct {
	Nodes []Node `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges" bson:"edges"`
	Paths []Path `json:"paths" yaml:"paths" bson:"paths"`
}

// Node is one process step.
type Node struct {
	Name    string   `json:"name" yaml:"name" bson:"name"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty" bson:"type,omitempty"`
	Metrics *Metrics `json:"metrics,omitempty" yaml:"metrics,omitempty" bson:"metrics,omitempty"`
}

// Edge is an observed transition between two steps.
type Edge struct {
	From    int      `json:"from" yaml:"from" bson:"from"`
	To      int      `json:"to" yaml:"to" bson:"to"`
	Metrics *Metrics `json:"metrics,omitempty" yaml:"metrics,omitempty" bson:"metrics,omitempty"`
	Status  string   `json:"status,omitempty" yaml:"status,omitempty" bson:"status,omitempty"`
}

// Disabled reports whether the edge is drawn in the disabled style.
func (e Edge) Disabled() bool { return strings.EqualFold(e.Status, StatusDisabled) }

// Path is a candidate process: node indices from the first step after
// start to the last step before end.
type Path struct {
	Path  []int `json:"path" yaml:"path" bson:"path"`
	Count int   `json:"count,omitempty" yaml:"count,omitempty" bson:"count,omitempty"`
}

// Metrics carries mining statistics of a node or edge. Absent values are nil.
type Metrics struct {
	Count    *Number `json:"count,omitempty" yaml:"count,omitempty" bson:"count,omitempty"`
	Cycling  *Number `json:"cycling,omitempty" yaml:"cycling,omitempty" bson:"cycling,omitempty"`
	Duration *Number `json:"duration,omitempty" yaml:"duration,omitempty" bson:"duration,omitempty"`
}

// Types returns the type tag of every node, indexed like Nodes.
func (in *Input) Types() []string {
	out := make([]string, len(in.Nodes))
	for i, n := range in.Nodes {
		out[i] = n.Type
	}
	return out
}

// Process returns the first path, or nil when there is none.
func (in *Input) Process() []int {
	if len(in.Paths) == 0 {
		return nil
	}
	return in.Paths[0].Path
}

// Validate checks that every edge endpoint names a node and that no path
// member is negative. Path members beyond the node list are allowed; the
// engine drops them.
func (in *Input) Validate() error {
	for i, e := range in.Edges {
		if e.From < 0 || e.To < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "edge %d: negative endpoint %d->%d", i, e.From, e.To)
		}
		if e.From >= len(in.Nodes) || e.To >= len(in.Nodes) {
			return errors.New(errors.ErrCodeInvalidInput, "edge %d: endpoint %d->%d out of range (%d nodes)",
				i, e.From, e.To, len(in.Nodes))
		}
	}
	for i, p := range in.Paths {
		for _, id := range p.Path {
			if id < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "path %d: negative member %d", i, id)
			}
		}
	}
	return nil
}

// =============================================================================
// Number - Lenient Metric Value
// =============================================================================

// Number is a metric value. Process-mining exports write metrics either as
// numbers or as numeric strings; both decode to the same value.
type Number float64

// Float returns n as a float64, treating nil as 0.
func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// NewNumber returns a pointer to v.
func NewNumber(v float64) *Number {
	n := Number(v)
	return &n
}

// UnmarshalJSON accepts a JSON number or a string holding one.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	return n.parse(s)
}

// UnmarshalYAML accepts a scalar holding a number, quoted or not.
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("metric: line %d: expected a scalar", value.Line)
	}
	return n.parse(value.Value)
}

func (n *Number) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("metric %q: not a number", s)
	}
	*n = Number(f)
	return nil
}
