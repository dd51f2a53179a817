package model

// Visitor is called once per element during a [Walk].
type Visitor interface {
	Visit(e Element)
}

// VisitorFunc adapts a function to the [Visitor] interface.
type VisitorFunc func(e Element)

// Visit calls f(e).
func (f VisitorFunc) Visit(e Element) { f(e) }

// Walk visits root and every element below it, top-down. Each element is
// handed to all visitors, in order, before the walk moves on. The order is:
// the node, its labels, its ports with their labels, its children
// recursively, then the edges it contains with their labels.
func Walk(root *Node, visitors ...Visitor) {
	if root == nil || len(visitors) == 0 {
		return
	}
	walkNode(root, visitors)
}

func walkNode(n *Node, vs []Visitor) {
	visitAll(n, vs)
	visitLabels(n.labels, vs)
	for _, p := range n.ports {
		visitAll(p, vs)
		visitLabels(p.labels, vs)
	}
	for _, c := range n.children {
		walkNode(c, vs)
	}
	for _, e := range n.edges {
		visitAll(e, vs)
		visitLabels(e.labels, vs)
	}
}

func visitLabels(ls []*Label, vs []Visitor) {
	for _, l := range ls {
		visitAll(l, vs)
	}
}

func visitAll(e Element, vs []Visitor) {
	for _, v := range vs {
		v.Visit(e)
	}
}
