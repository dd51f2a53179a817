package dag

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/stacklayout/pkg/property"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicatePortID is returned by [Graph.AddPort] when the node already
	// owns a port with the same ID.
	ErrDuplicatePortID = errors.New("duplicate port ID")

	// ErrUnknownNode is returned when a node ID or node pointer does not
	// belong to the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrForeignPort is returned by [Graph.Connect] when a port belongs to a
	// node of another graph.
	ErrForeignPort = errors.New("port belongs to another graph")

	// ErrNonConsecutiveLayers is returned by [Graph.Validate] when an edge
	// connects nodes that are not in adjacent layers.
	ErrNonConsecutiveLayers = errors.New("edges must connect consecutive layers")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrNotPermutation is returned by [Graph.SetLayerOrder] when the given
	// nodes are not exactly the nodes of the layer.
	ErrNotPermutation = errors.New("order is not a permutation of the layer")
)

// ModelOrder is the position of a node or edge in the input model. Nodes
// created during layout (subdividers, auxiliaries) never carry it; edges
// split by [transform.Subdivide] pass it on to every segment.
//
// [transform.Subdivide]: github.com/matzehuels/stacklayout/pkg/dag/transform.Subdivide
var ModelOrder = property.NewKey("layered.modelOrder", 0)

// NodeKind distinguishes between original and synthetic nodes created during
// graph transformation.
type NodeKind int

const (
	// NodeKindRegular represents a node of the input graph.
	NodeKindRegular NodeKind = iota
	// NodeKindSubdivider represents a synthetic node inserted to subdivide a
	// long edge. Subdividers keep a MasterID linking to their origin node.
	NodeKindSubdivider
	// NodeKindAuxiliary represents any other helper node added for layout.
	NodeKindAuxiliary
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindRegular:
		return "regular"
	case NodeKindSubdivider:
		return "subdivider"
	case NodeKindAuxiliary:
		return "auxiliary"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is a vertex of the layered graph. Edges never attach to a node
// directly but to one of its ports; the order of [Node.Ports] is meaningful
// and is used to break ties between nodes that share a neighbour.
//
// The zero value is not usable; create nodes with [Graph.AddNode].
type Node struct {
	ID    string // Unique identifier
	Layer int    // Layer assignment (0 = top, increasing downward)

	// Kind indicates whether this is an original or synthetic node.
	Kind NodeKind
	// MasterID links subdivider chains back to their origin node.
	MasterID string

	g     *Graph
	ports []*Port
	props property.Container
}

// IsSubdivider reports whether the node was inserted to break a long edge.
func (n *Node) IsSubdivider() bool { return n.Kind == NodeKindSubdivider }

// IsSynthetic reports whether the node was created during graph
// transformation, as opposed to an input vertex.
func (n *Node) IsSynthetic() bool { return n.Kind != NodeKindRegular }

// EffectiveID returns MasterID if set, otherwise the node's ID.
func (n *Node) EffectiveID() string {
	if n.MasterID != "" {
		return n.MasterID
	}
	return n.ID
}

// Properties returns the node's property container.
func (n *Node) Properties() *property.Container { return &n.props }

// Ports returns the node's ports in order. The slice must not be modified.
func (n *Node) Ports() []*Port { return n.ports }

// ModelOrder returns the node's model order and whether it has one.
func (n *Node) ModelOrder() (int, bool) { return property.Lookup(&n.props, ModelOrder) }

// Incoming returns all edges ending at the node, in port order.
func (n *Node) Incoming() []*Edge {
	var edges []*Edge
	for _, p := range n.ports {
		edges = append(edges, p.incoming...)
	}
	return edges
}

// Outgoing returns all edges starting at the node, in port order.
func (n *Node) Outgoing() []*Edge {
	var edges []*Edge
	for _, p := range n.ports {
		edges = append(edges, p.outgoing...)
	}
	return edges
}

// FirstIncoming returns the first incoming edge of the first port, in port
// order, that has any. It returns nil if nothing enters the node.
func (n *Node) FirstIncoming() *Edge {
	for _, p := range n.ports {
		if len(p.incoming) > 0 {
			return p.incoming[0]
		}
	}
	return nil
}

func (n *Node) String() string { return n.ID }

// Port is a connection point on a node.
type Port struct {
	ID string

	node     *Node
	incoming []*Edge
	outgoing []*Edge
}

// Node returns the node owning the port.
func (p *Port) Node() *Node { return p.node }

// Incoming returns the edges ending at the port. The slice must not be
// modified.
func (p *Port) Incoming() []*Edge { return p.incoming }

// Outgoing returns the edges starting at the port. The slice must not be
// modified.
func (p *Port) Outgoing() []*Edge { return p.outgoing }

// Index returns the position of the port on its node.
func (p *Port) Index() int { return slices.Index(p.node.ports, p) }

// Edge is a directed connection between two ports.
type Edge struct {
	Source *Port
	Target *Port

	props property.Container
}

// From returns the node owning the source port.
func (e *Edge) From() *Node { return e.Source.node }

// To returns the node owning the target port.
func (e *Edge) To() *Node { return e.Target.node }

// Properties returns the edge's property container.
func (e *Edge) Properties() *property.Container { return &e.props }

// ModelOrder returns the edge's model order and whether it has one.
func (e *Edge) ModelOrder() (int, bool) { return property.Lookup(&e.props, ModelOrder) }

// Graph is a directed graph organized into layers for layered layouts.
// Nodes own ordered ports, and edges connect ports. Each layer keeps its
// nodes in left-to-right order; that order is what crossing minimization and
// model-order sorting rearrange.
//
// The zero value is not usable; use [New] to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes  map[string]*Node
	order  []*Node // insertion order
	edges  []*Edge
	layers map[int][]*Node
	props  property.Container
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:  make(map[string]*Node),
		layers: make(map[int][]*Node),
	}
}

// Properties returns the graph-level property container.
func (g *Graph) Properties() *property.Container { return &g.props }

// AddNode adds a copy of n to the graph, appends it to its layer and returns
// the stored node. Ports and properties set on n are ignored; use
// [Graph.AddPort] and [Node.Properties] on the returned node.
func (g *Graph) AddNode(n Node) (*Node, error) {
	if n.ID == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	node := &Node{ID: n.ID, Layer: n.Layer, Kind: n.Kind, MasterID: n.MasterID, g: g}
	g.nodes[node.ID] = node
	g.order = append(g.order, node)
	g.layers[node.Layer] = append(g.layers[node.Layer], node)
	return node, nil
}

// AddPort appends a port to n. An empty id is replaced by "p<index>".
func (g *Graph) AddPort(n *Node, id string) (*Port, error) {
	if n == nil || n.g != g {
		return nil, ErrUnknownNode
	}
	if id == "" {
		id = fmt.Sprintf("p%d", len(n.ports))
	}
	for _, p := range n.ports {
		if p.ID == id {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicatePortID, n.ID, id)
		}
	}
	p := &Port{ID: id, node: n}
	n.ports = append(n.ports, p)
	return p, nil
}

// Connect adds an edge from src to dst. Both ports must belong to nodes of
// this graph.
func (g *Graph) Connect(src, dst *Port) (*Edge, error) {
	if src == nil || dst == nil || src.node.g != g || dst.node.g != g {
		return nil, ErrForeignPort
	}
	e := &Edge{Source: src, Target: dst}
	src.outgoing = append(src.outgoing, e)
	dst.incoming = append(dst.incoming, e)
	g.edges = append(g.edges, e)
	return e, nil
}

// ConnectNodes adds an edge between the nodes with the given IDs through a
// new port on each side, so the port order of a node mirrors the order its
// edges were added in.
func (g *Graph) ConnectNodes(from, to string) (*Edge, error) {
	src, ok := g.nodes[from]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	dst, ok := g.nodes[to]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, to)
	}
	sp, err := g.AddPort(src, "")
	if err != nil {
		return nil, err
	}
	dp, err := g.AddPort(dst, "")
	if err != nil {
		return nil, err
	}
	return g.Connect(sp, dp)
}

// RemoveEdge detaches e from its ports and removes it from the graph. The
// ports themselves are kept.
func (g *Graph) RemoveEdge(e *Edge) {
	e.Source.outgoing = slices.DeleteFunc(e.Source.outgoing, func(x *Edge) bool { return x == e })
	e.Target.incoming = slices.DeleteFunc(e.Target.incoming, func(x *Edge) bool { return x == e })
	g.edges = slices.DeleteFunc(g.edges, func(x *Edge) bool { return x == e })
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.order) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the distinct targets of n's outgoing edges, in port order.
func (g *Graph) Children(n *Node) []*Node {
	return distinct(n.Outgoing(), (*Edge).To)
}

// Parents returns the distinct sources of n's incoming edges, in port order.
func (g *Graph) Parents(n *Node) []*Node {
	return distinct(n.Incoming(), (*Edge).From)
}

func distinct(edges []*Edge, end func(*Edge) *Node) []*Node {
	var out []*Node
	for _, e := range edges {
		if n := end(e); !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// SetLayers updates layer assignments and rebuilds the layer index. Nodes
// not present in the map keep their layer. Within a layer, nodes are listed
// in insertion order.
func (g *Graph) SetLayers(layers map[string]int) {
	g.layers = make(map[int][]*Node)
	for _, n := range g.order {
		if l, ok := layers[n.ID]; ok {
			n.Layer = l
		}
		g.layers[n.Layer] = append(g.layers[n.Layer], n)
	}
}

// Layer returns the nodes of layer i in left-to-right order. The slice must
// not be modified; use [Graph.SetLayerOrder] to reorder.
func (g *Graph) Layer(i int) []*Node { return g.layers[i] }

// SetLayerOrder replaces the order of layer i. nodes must contain exactly the
// nodes of the layer.
func (g *Graph) SetLayerOrder(i int, nodes []*Node) error {
	cur := g.layers[i]
	if len(nodes) != len(cur) {
		return ErrNotPermutation
	}
	seen := make(map[*Node]bool, len(nodes))
	for _, n := range nodes {
		if n.g != g || n.Layer != i || seen[n] {
			return ErrNotPermutation
		}
		seen[n] = true
	}
	g.layers[i] = slices.Clone(nodes)
	return nil
}

// Layers returns every layer in ascending index order.
func (g *Graph) Layers() [][]*Node {
	ids := g.LayerIDs()
	out := make([][]*Node, len(ids))
	for i, id := range ids {
		out[i] = g.layers[id]
	}
	return out
}

// LayerIDs returns all layer indices in ascending order.
func (g *Graph) LayerIDs() []int { return slices.Sorted(maps.Keys(g.layers)) }

// LayerCount returns the number of distinct layers.
func (g *Graph) LayerCount() int { return len(g.layers) }

// MaxLayer returns the highest layer index, or 0 if the graph is empty.
func (g *Graph) MaxLayer() int {
	ids := g.LayerIDs()
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}

// Sources returns nodes without incoming edges, in insertion order.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, n := range g.order {
		if n.FirstIncoming() == nil {
			sources = append(sources, n)
		}
	}
	return sources
}

// Validate checks that every edge connects consecutive layers
// (From.Layer+1 == To.Layer) and that the graph is acyclic.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if e.To().Layer != e.From().Layer+1 {
			return fmt.Errorf("%w: %s -> %s", ErrNonConsecutiveLayers, e.From().ID, e.To().ID)
		}
	}
	return g.detectCycles()
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[*Node]int, len(g.nodes))
	var hasCycle bool

	var dfs func(n *Node)
	dfs = func(n *Node) {
		color[n] = gray
		for _, e := range n.Outgoing() {
			switch child := e.To(); color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[n] = black
	}

	for _, n := range g.order {
		if color[n] == white {
			dfs(n)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
