package model

import (
	"errors"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrForeignElement is returned by [Graph.Remove] when the element belongs
	// to a different graph.
	ErrForeignElement = errors.New("element belongs to another graph")

	// ErrStaleHandle is returned by [Graph.Remove] when the element was
	// already removed.
	ErrStaleHandle = errors.New("stale element handle")

	// ErrRemoveRoot is returned by [Graph.Remove] for the root node.
	ErrRemoveRoot = errors.New("cannot remove the root node")
)

type slot struct {
	gen  uint32
	elem Element
}

// Graph is the arena owning all elements of one graph.
// Graph is not safe for concurrent mutation.
type Graph struct {
	id    uuid.UUID
	slots []slot
	free  []uint32
	live  int
	root  *Node
}

// NewGraph creates a graph with an empty root node.
func NewGraph() *Graph {
	g := &Graph{id: uuid.New()}
	g.root = &Node{Name: "root"}
	g.alloc(g.root, &g.root.base)
	return g
}

// ID returns the graph's identifier, shared by all handles it issues.
func (g *Graph) ID() uuid.UUID { return g.id }

// Root returns the top-level node.
func (g *Graph) Root() *Node { return g.root }

// Len returns the number of live elements, including the root.
func (g *Graph) Len() int { return g.live }

func (g *Graph) alloc(e Element, b *base) {
	var idx uint32
	if n := len(g.free); n > 0 {
		idx = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		idx = uint32(len(g.slots))
		g.slots = append(g.slots, slot{gen: 1})
	}
	g.slots[idx].elem = e
	b.handle = Handle{Graph: g.id, Index: idx, Gen: g.slots[idx].gen}
	g.live++
}

// AddNode adds a node below parent. A nil parent means the root.
func (g *Graph) AddNode(parent *Node, name string) *Node {
	if parent == nil {
		parent = g.root
	}
	n := &Node{Name: name, parent: parent}
	g.alloc(n, &n.base)
	parent.children = append(parent.children, n)
	return n
}

// AddPort appends a port to n. Ports keep their insertion order.
func (g *Graph) AddPort(n *Node, name string) *Port {
	p := &Port{Name: name, node: n}
	g.alloc(p, &p.base)
	n.ports = append(n.ports, p)
	return p
}

// AddEdge connects src to dst. The edge is contained in the parent of the
// source's node, or in the root if the source is the root.
func (g *Graph) AddEdge(name string, src, dst Connectable) *Edge {
	container := src.Node().parent
	if container == nil {
		container = g.root
	}
	e := &Edge{Name: name, container: container, source: src, target: dst}
	g.alloc(e, &e.base)
	container.edges = append(container.edges, e)
	src.addOutgoing(e)
	dst.addIncoming(e)
	return e
}

// AddLabel attaches a label to owner, which must be a node, port or edge.
func (g *Graph) AddLabel(owner Element, text string) *Label {
	l := &Label{Text: text, owner: owner}
	g.alloc(l, &l.base)
	if b := baseOf(owner); b != nil {
		b.labels = append(b.labels, l)
	}
	return l
}

// Lookup resolves a handle to its element. It fails for handles issued by
// another graph or referring to removed elements.
func (g *Graph) Lookup(h Handle) (Element, bool) {
	if h.Graph != g.id || int(h.Index) >= len(g.slots) {
		return nil, false
	}
	s := g.slots[h.Index]
	if s.gen != h.Gen || s.elem == nil {
		return nil, false
	}
	return s.elem, true
}

// Remove deletes e and everything it owns: labels, ports, child nodes,
// contained edges and edges attached to removed nodes or ports.
func (g *Graph) Remove(e Element) error {
	h := e.Handle()
	if h.Graph != g.id {
		return ErrForeignElement
	}
	if _, ok := g.Lookup(h); !ok {
		return ErrStaleHandle
	}
	if e == Element(g.root) {
		return ErrRemoveRoot
	}
	g.detach(e)
	g.release(e)
	return nil
}

// detach unlinks e from its owner.
func (g *Graph) detach(e Element) {
	switch v := e.(type) {
	case *Node:
		v.parent.children = without(v.parent.children, v)
	case *Port:
		v.node.ports = without(v.node.ports, v)
	case *Edge:
		v.container.edges = without(v.container.edges, v)
		v.source.dropEdge(v)
		v.target.dropEdge(v)
	case *Label:
		if b := baseOf(v.owner); b != nil {
			b.labels = without(b.labels, v)
		}
	}
}

// release frees e's slot and recursively everything it owns.
func (g *Graph) release(e Element) {
	h := e.Handle()
	if _, ok := g.Lookup(h); !ok {
		return
	}
	s := &g.slots[h.Index]
	s.elem = nil
	s.gen++
	g.free = append(g.free, h.Index)
	g.live--

	for _, l := range baseOf(e).labels {
		g.release(l)
	}
	switch v := e.(type) {
	case *Node:
		g.releaseEdges(v)
		for _, p := range v.ports {
			g.releaseEdges(p)
			g.release(p)
		}
		for _, c := range v.children {
			g.release(c)
		}
		for _, ce := range v.edges {
			g.release(ce)
		}
	case *Port:
		g.releaseEdges(v)
	}
}

func (g *Graph) releaseEdges(c Connectable) {
	for _, e := range slices.Concat(c.Outgoing(), c.Incoming()) {
		if _, ok := g.Lookup(e.Handle()); !ok {
			continue
		}
		g.detach(e)
		g.release(e)
	}
}

func baseOf(e Element) *base {
	switch v := e.(type) {
	case *Node:
		return &v.base
	case *Port:
		return &v.base
	case *Edge:
		return &v.base
	case *Label:
		return &v.base
	}
	return nil
}
