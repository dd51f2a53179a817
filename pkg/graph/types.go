package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/property"
)

// Node kinds.
const (
	KindSubdivider = "subdivider"
	KindAuxiliary  = "auxiliary"
)

// =============================================================================
// Graph - Layered Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for input graphs.
// Used for files, API requests, caching, and cross-tool compatibility.
//
// Nodes and edges are listed in model order: unless a node or edge sets
// ModelOrder explicitly, its position in the list is used.
type Graph struct {
	Nodes   []Node         `json:"nodes" bson:"nodes"`
	Edges   []Edge         `json:"edges" bson:"edges"`
	Options map[string]any `json:"options,omitempty" bson:"options,omitempty"` // Graph-level layout options
}

// Node is the unified node type for all serialization contexts.
type Node struct {
	ID         string         `json:"id" bson:"id"`
	Layer      int            `json:"layer,omitempty" bson:"layer,omitempty"`
	Kind       string         `json:"kind,omitempty" bson:"kind,omitempty"` // "subdivider", "auxiliary", or empty
	MasterID   string         `json:"master_id,omitempty" bson:"master_id,omitempty"`
	ModelOrder *int           `json:"model_order,omitempty" bson:"model_order,omitempty"`
	Ports      []string       `json:"ports,omitempty" bson:"ports,omitempty"` // Declared ports, in order
	Options    map[string]any `json:"options,omitempty" bson:"options,omitempty"`
}

// IsSubdivider returns true if this is a subdivider node.
func (n *Node) IsSubdivider() bool { return n.Kind == KindSubdivider }

// Edge is a directed edge between two nodes. An empty port name attaches
// the edge to a fresh port; a named port is created on first use.
type Edge struct {
	From       string         `json:"from" bson:"from"`
	FromPort   string         `json:"from_port,omitempty" bson:"from_port,omitempty"`
	To         string         `json:"to" bson:"to"`
	ToPort     string         `json:"to_port,omitempty" bson:"to_port,omitempty"`
	ModelOrder *int           `json:"model_order,omitempty" bson:"model_order,omitempty"`
	Options    map[string]any `json:"options,omitempty" bson:"options,omitempty"`
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a layered graph to its serialization format. Nodes are
// listed in insertion order, which is meaningful for ordering.
func FromDAG(g *dag.Graph) Graph {
	nodes := g.Nodes()
	edges := g.Edges()
	out := Graph{
		Nodes:   make([]Node, len(nodes)),
		Edges:   make([]Edge, len(edges)),
		Options: optionsFrom(g.Properties()),
	}
	for i, n := range nodes {
		out.Nodes[i] = nodeFromDAG(n)
	}
	for i, e := range edges {
		out.Edges[i] = edgeFromDAG(e)
	}
	return out
}

// ToDAG converts a Graph to a layered graph. Nodes and edges without an
// explicit model order get their list position.
func ToDAG(gj Graph) (*dag.Graph, error) {
	d := dag.New()
	fillOptions(d.Properties(), gj.Options)

	for i, nj := range gj.Nodes {
		if err := errors.ValidateElementName(nj.ID); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		n, err := d.AddNode(dag.Node{
			ID:       nj.ID,
			Layer:    nj.Layer,
			Kind:     stringToDAGKind(nj.Kind),
			MasterID: nj.MasterID,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "add node %s", nj.ID)
		}
		for _, p := range nj.Ports {
			if _, err := d.AddPort(n, p); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "add port %s.%s", nj.ID, p)
			}
		}
		fillOptions(n.Properties(), nj.Options)
		if mo, ok := modelOrder(nj.ModelOrder, i, n.IsSynthetic()); ok {
			property.Set(n.Properties(), dag.ModelOrder, mo)
		}
	}

	for i, ej := range gj.Edges {
		src, err := portFor(d, ej.From, ej.FromPort)
		if err != nil {
			return nil, err
		}
		dst, err := portFor(d, ej.To, ej.ToPort)
		if err != nil {
			return nil, err
		}
		e, err := d.Connect(src, dst)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "add edge %s→%s", ej.From, ej.To)
		}
		fillOptions(e.Properties(), ej.Options)
		if mo, ok := modelOrder(ej.ModelOrder, i, false); ok {
			property.Set(e.Properties(), dag.ModelOrder, mo)
		}
	}

	return d, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&g); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	normalizeGraph(&g)
	return g, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

func modelOrder(explicit *int, position int, synthetic bool) (int, bool) {
	switch {
	case explicit != nil:
		return *explicit, true
	case synthetic:
		return 0, false
	}
	return position, true
}

func portFor(d *dag.Graph, nodeID, portID string) (*dag.Port, error) {
	n, ok := d.Node(nodeID)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "edge references unknown node %q", nodeID)
	}
	if portID != "" {
		for _, p := range n.Ports() {
			if p.ID == portID {
				return p, nil
			}
		}
	}
	p, err := d.AddPort(n, portID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "add port %s.%s", nodeID, portID)
	}
	return p, nil
}

func nodeFromDAG(n *dag.Node) Node {
	node := Node{
		ID:       n.ID,
		Layer:    n.Layer,
		Kind:     dagKindToString(n.Kind),
		MasterID: n.MasterID,
		Options:  optionsFrom(n.Properties(), dag.ModelOrder.ID()),
	}
	if mo, ok := n.ModelOrder(); ok {
		node.ModelOrder = &mo
	}
	for _, p := range n.Ports() {
		node.Ports = append(node.Ports, p.ID)
	}
	return node
}

func edgeFromDAG(e *dag.Edge) Edge {
	edge := Edge{
		From:     e.From().ID,
		FromPort: e.Source.ID,
		To:       e.To().ID,
		ToPort:   e.Target.ID,
		Options:  optionsFrom(e.Properties(), dag.ModelOrder.ID()),
	}
	if mo, ok := e.ModelOrder(); ok {
		edge.ModelOrder = &mo
	}
	return edge
}

// optionsFrom copies c into a plain map, skipping the given ids. Returns
// nil if nothing is left.
func optionsFrom(c *property.Container, skip ...property.ID) map[string]any {
	var out map[string]any
	for _, id := range c.Keys() {
		if slices.Contains(skip, id) {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		v, _ := c.Value(id)
		out[string(id)] = v
	}
	return out
}

func fillOptions(c *property.Container, opts map[string]any) {
	for k, v := range opts {
		c.SetValue(property.ID(k), v)
	}
}

// normalizeGraph turns json.Number option values into int or float64,
// depending on how they were written.
func normalizeGraph(g *Graph) {
	normalizeOptions(g.Options)
	for i := range g.Nodes {
		normalizeOptions(g.Nodes[i].Options)
	}
	for i := range g.Edges {
		normalizeOptions(g.Edges[i].Options)
	}
}

func normalizeOptions(opts map[string]any) {
	for k, v := range opts {
		opts[k] = normalizeValue(v)
	}
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if !strings.ContainsAny(x.String(), ".eE") {
			if i, err := x.Int64(); err == nil {
				return int(i)
			}
		}
		f, _ := x.Float64()
		return f
	case []any:
		for i := range x {
			x[i] = normalizeValue(x[i])
		}
	case map[string]any:
		normalizeOptions(x)
	}
	return v
}

func dagKindToString(k dag.NodeKind) string {
	switch k {
	case dag.NodeKindSubdivider:
		return KindSubdivider
	case dag.NodeKindAuxiliary:
		return KindAuxiliary
	default:
		return ""
	}
}

func stringToDAGKind(s string) dag.NodeKind {
	switch s {
	case KindSubdivider:
		return dag.NodeKindSubdivider
	case KindAuxiliary:
		return dag.NodeKindAuxiliary
	default:
		return dag.NodeKindRegular
	}
}
