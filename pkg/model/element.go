package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/stacklayout/pkg/property"
)

// Kind is the concrete type of a graph element.
type Kind int

const (
	KindNode Kind = iota
	KindPort
	KindEdge
	KindLabel
)

// Kinds lists every element kind.
var Kinds = []Kind{KindNode, KindPort, KindEdge, KindLabel}

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindPort:
		return "port"
	case KindEdge:
		return "edge"
	case KindLabel:
		return "label"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Tag names a group of element kinds that can be configured together.
type Tag int

const (
	// TagElement matches every element.
	TagElement Tag = iota
	// TagShape matches nodes, ports and labels.
	TagShape
	TagLabel
	// TagConnectableShape matches nodes and ports.
	TagConnectableShape
	TagNode
	TagPort
	TagEdge
)

// Tags lists every tag from most general to most specific.
var Tags = []Tag{TagElement, TagShape, TagLabel, TagConnectableShape, TagNode, TagPort, TagEdge}

var tagNames = map[Tag]string{
	TagElement:          "element",
	TagShape:            "shape",
	TagLabel:            "label",
	TagConnectableShape: "connectable",
	TagNode:             "node",
	TagPort:             "port",
	TagEdge:             "edge",
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("tag(%d)", int(t))
}

// ParseTag converts a tag name as produced by [Tag.String] back to a Tag.
func ParseTag(s string) (Tag, error) {
	for t, name := range tagNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown element tag %q", s)
}

// Handle identifies an element within the arena of its graph.
// The zero Handle refers to no element.
type Handle struct {
	Graph uuid.UUID
	Index uint32
	Gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h == Handle{} }

func (h Handle) String() string {
	return fmt.Sprintf("%s#%d.%d", h.Graph.String()[:8], h.Index, h.Gen)
}

// Element is implemented by every graph element.
type Element interface {
	property.Holder
	Handle() Handle
	Kind() Kind
}

// Connectable is an element an edge can attach to: a node or a port.
type Connectable interface {
	Element
	// Node returns the node itself, or the node that owns the port.
	Node() *Node
	Outgoing() []*Edge
	Incoming() []*Edge
	addOutgoing(e *Edge)
	addIncoming(e *Edge)
	dropEdge(e *Edge)
}

type base struct {
	handle Handle
	props  property.Container
	labels []*Label
}

func (b *base) Handle() Handle                    { return b.handle }
func (b *base) Properties() *property.Container { return &b.props }

// Labels returns the labels attached to the element.
func (b *base) Labels() []*Label { return b.labels }

type endpoints struct {
	outgoing []*Edge
	incoming []*Edge
}

func (p *endpoints) Outgoing() []*Edge   { return p.outgoing }
func (p *endpoints) Incoming() []*Edge   { return p.incoming }
func (p *endpoints) addOutgoing(e *Edge) { p.outgoing = append(p.outgoing, e) }
func (p *endpoints) addIncoming(e *Edge) { p.incoming = append(p.incoming, e) }
func (p *endpoints) dropEdge(e *Edge) {
	p.outgoing = without(p.outgoing, e)
	p.incoming = without(p.incoming, e)
}

// Node is a graph node. Nodes may contain child nodes, making them
// hierarchical.
type Node struct {
	base
	endpoints
	Name string

	parent   *Node
	children []*Node
	ports    []*Port
	edges    []*Edge
}

func (n *Node) Kind() Kind { return KindNode }

// Node returns n.
func (n *Node) Node() *Node { return n }

// Parent returns the containing node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the nodes contained in n.
func (n *Node) Children() []*Node { return n.children }

// Ports returns n's ports in declaration order.
func (n *Node) Ports() []*Port { return n.ports }

// Edges returns the edges contained in n.
func (n *Node) Edges() []*Edge { return n.edges }

// Hierarchical reports whether n contains child nodes.
func (n *Node) Hierarchical() bool { return len(n.children) > 0 }

// Port is a connection point on the boundary of a node.
type Port struct {
	base
	endpoints
	Name string

	node *Node
}

func (p *Port) Kind() Kind { return KindPort }

// Node returns the node that owns p.
func (p *Port) Node() *Node { return p.node }

// Edge connects a source to a target connectable.
type Edge struct {
	base
	Name string

	container *Node
	source    Connectable
	target    Connectable
}

func (e *Edge) Kind() Kind { return KindEdge }

// Source returns the element the edge leaves from.
func (e *Edge) Source() Connectable { return e.source }

// Target returns the element the edge enters.
func (e *Edge) Target() Connectable { return e.target }

// Container returns the node the edge is contained in.
func (e *Edge) Container() *Node { return e.container }

// Label is a text label attached to a node, port or edge.
type Label struct {
	base
	Text string

	owner Element
}

func (l *Label) Kind() Kind { return KindLabel }

// Owner returns the element the label is attached to.
func (l *Label) Owner() Element { return l.owner }

func without[T comparable](s []T, v T) []T {
	for i, x := range s {
		if x == v {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}
