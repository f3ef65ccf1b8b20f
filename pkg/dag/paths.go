package dag

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// EdgeKey names an edge by its original endpoints.
type EdgeKey struct {
	From NodeID
	To   NodeID
}

// String renders the key as "from=>to".
func (k EdgeKey) String() string { return fmt.Sprintf("%d=>%d", k.From, k.To) }

// ParseEdgeKey parses the "from=>to" form produced by [EdgeKey.String].
func ParseEdgeKey(s string) (EdgeKey, error) {
	from, to, ok := strings.Cut(s, "=>")
	if !ok {
		return EdgeKey{}, fmt.Errorf("edge key %q: missing \"=>\"", s)
	}
	f, err := strconv.Atoi(from)
	if err != nil {
		return EdgeKey{}, fmt.Errorf("edge key %q: %w", s, err)
	}
	t, err := strconv.Atoi(to)
	if err != nil {
		return EdgeKey{}, fmt.Errorf("edge key %q: %w", s, err)
	}
	return EdgeKey{From: NodeID(f), To: NodeID(t)}, nil
}

// PathMap records, for every edge that was split into a chain of synthetic
// nodes, the ordered members realizing its route: the source, each
// synthetic node, then the target. Keys iterate in insertion order.
//
// The zero value is an empty map ready to use.
type PathMap struct {
	keys   []EdgeKey
	routes map[EdgeKey][]NodeID
}

// Add appends ids to the route of key, skipping ids already present.
func (p *PathMap) Add(key EdgeKey, ids ...NodeID) {
	if p.routes == nil {
		p.routes = make(map[EdgeKey][]NodeID)
	}
	route, ok := p.routes[key]
	if !ok {
		p.keys = append(p.keys, key)
	}
	for _, id := range ids {
		if !slices.Contains(route, id) {
			route = append(route, id)
		}
	}
	p.routes[key] = route
}

// Route returns the members recorded for key.
func (p *PathMap) Route(key EdgeKey) ([]NodeID, bool) {
	route, ok := p.routes[key]
	return route, ok
}

// Keys returns all keys in insertion order.
func (p *PathMap) Keys() []EdgeKey { return slices.Clone(p.keys) }

// Len returns the number of recorded routes.
func (p *PathMap) Len() int { return len(p.keys) }

// Through returns the keys of every route that contains id.
func (p *PathMap) Through(id NodeID) []EdgeKey {
	var out []EdgeKey
	for _, k := range p.keys {
		if slices.Contains(p.routes[k], id) {
			out = append(out, k)
		}
	}
	return out
}

// Synthetic returns the synthetic members of the route of key, in order.
func (p *PathMap) Synthetic(key EdgeKey) []NodeID {
	var out []NodeID
	for _, id := range p.routes[key] {
		if id.IsSynthetic() {
			out = append(out, id)
		}
	}
	return out
}
