package order

import (
	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/errors"
)

type nodeSet map[*dag.Node]struct{}

func (s nodeSet) has(n *dag.Node) bool {
	_, ok := s[n]
	return ok
}

func (s nodeSet) add(n *dag.Node) { s[n] = struct{}{} }

func (s nodeSet) addAll(o nodeSet) {
	for n := range o {
		s[n] = struct{}{}
	}
}

// Stats counts the work done by a [NodeComparator].
type Stats struct {
	Comparisons int // calls to Compare with distinct nodes
	CacheHits   int // comparisons answered from recorded relations
	Relations   int // ordered pairs currently known
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Comparisons: s.Comparisons + o.Comparisons,
		CacheHits:   s.CacheHits + o.CacheHits,
		Relations:   s.Relations + o.Relations,
	}
}

// NodeComparator orders the nodes of one layer. It remembers every verdict
// together with its transitive consequences so that a sort never sees
// contradicting answers.
//
// A comparator serves exactly one sort of one layer and must not be shared
// between goroutines. Create a fresh one per layer.
type NodeComparator struct {
	prev     []*dag.Node
	strategy Strategy
	longEdge LongEdgeOrder

	// after[n] holds the nodes known to sort before n,
	// before[n] the nodes known to sort after n.
	after  map[*dag.Node]nodeSet
	before map[*dag.Node]nodeSet

	ports func(*dag.Node) []*dag.Port
	stats Stats
}

// NewNodeComparator returns a comparator for a layer whose preceding layer,
// in its final order, is prev. prev may be empty for the first layer.
func NewNodeComparator(prev []*dag.Node, s Strategy, le LongEdgeOrder) *NodeComparator {
	return &NodeComparator{
		prev:     prev,
		strategy: s,
		longEdge: le,
		after:    make(map[*dag.Node]nodeSet),
		before:   make(map[*dag.Node]nodeSet),
		ports:    (*dag.Node).Ports,
	}
}

// Compare returns a negative number if a sorts before b and a positive one
// if it sorts after. It returns 0 only when a and b are the same node.
//
// Compare panics with an [errors.ErrCodeInvariant] error if a and b are fed
// by the same previous-layer node but neither connecting port is among that
// node's ports.
func (c *NodeComparator) Compare(a, b *dag.Node) int {
	if a == b {
		return 0
	}
	c.stats.Comparisons++
	if r := c.cached(a, b); r != 0 {
		c.stats.CacheHits++
		return r
	}
	if c.decide(a, b) {
		c.record(a, b)
		return 1
	}
	c.record(b, a)
	return -1
}

// cached looks a and b up in the recorded relations, creating empty entries
// on first sight.
func (c *NodeComparator) cached(a, b *dag.Node) int {
	afterA, afterB := c.entry(c.after, a), c.entry(c.after, b)
	beforeA, beforeB := c.entry(c.before, a), c.entry(c.before, b)
	switch {
	case afterA.has(b), beforeB.has(a):
		return 1
	case afterB.has(a), beforeA.has(b):
		return -1
	}
	return 0
}

func (c *NodeComparator) entry(m map[*dag.Node]nodeSet, n *dag.Node) nodeSet {
	s, ok := m[n]
	if !ok {
		s = make(nodeSet)
		m[n] = s
	}
	return s
}

// decide reports whether a sorts after b.
func (c *NodeComparator) decide(a, b *dag.Node) bool {
	moA, okA := a.ModelOrder()
	moB, okB := b.ModelOrder()
	if c.strategy == PreferEdges || !okA || !okB {
		if after, ok := c.byAnchor(a, b); ok {
			return after
		}
		if !okA || !okB {
			return c.edgeKey(a) > c.edgeKey(b)
		}
	}
	// Equal model orders put a first.
	return moA > moB
}

// byAnchor orders a and b by the previous-layer nodes feeding them. ok is
// false if either node has no incoming edge or neither anchor is in the
// previous layer.
func (c *NodeComparator) byAnchor(a, b *dag.Node) (after, ok bool) {
	ea, eb := a.FirstIncoming(), b.FirstIncoming()
	if ea == nil || eb == nil {
		return false, false
	}
	pa, pb := ea.Source, eb.Source
	anchorA, anchorB := pa.Node(), pb.Node()

	if anchorA == anchorB {
		for _, p := range c.ports(anchorA) {
			switch p {
			case pa:
				return false, true
			case pb:
				return true, true
			}
		}
		panic(errors.Invariant("nodes %s and %s share anchor %s but neither connecting port belongs to it",
			a.ID, b.ID, anchorA.ID))
	}

	for _, n := range c.prev {
		switch n {
		case anchorA:
			return false, true
		case anchorB:
			return true, true
		}
	}
	return false, false
}

// edgeKey is the model order of n's first incoming edge, or the long-edge
// sentinel if there is none or it carries no model order.
func (c *NodeComparator) edgeKey(n *dag.Node) int {
	if e := n.FirstIncoming(); e != nil {
		if mo, ok := e.ModelOrder(); ok {
			return mo
		}
	}
	return int(c.longEdge)
}

// record notes that smaller sorts before bigger and propagates the relation:
// everything before smaller is also before bigger and everything after
// bigger is also after smaller.
func (c *NodeComparator) record(bigger, smaller *dag.Node) {
	afterBig, afterSmall := c.after[bigger], c.after[smaller]
	beforeBig, beforeSmall := c.before[bigger], c.before[smaller]

	afterBig.add(smaller)
	beforeSmall.add(bigger)
	for x := range afterSmall {
		afterBig.add(x)
		c.before[x].add(bigger)
		c.before[x].addAll(beforeBig)
	}
	for y := range beforeBig {
		beforeSmall.add(y)
		c.after[y].add(smaller)
		c.after[y].addAll(afterSmall)
	}
}

// Relation reports what the comparator has recorded about a and b: -1 if a
// is known to sort before b, 1 if after, 0 if nothing is known.
func (c *NodeComparator) Relation(a, b *dag.Node) int {
	switch {
	case c.after[a].has(b):
		return 1
	case c.after[b].has(a):
		return -1
	}
	return 0
}

// Stats returns the comparator's counters.
func (c *NodeComparator) Stats() Stats {
	s := c.stats
	for _, set := range c.after {
		s.Relations += len(set)
	}
	return s
}
