package transform

import (
	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/property"
)

// Reversed marks an edge that [BreakCycles] turned around.
var Reversed = property.NewKey("layered.reversed", false)

// BreakCycles makes g acyclic. Back edges found by a depth-first search that
// starts at the sources (then at any unvisited node, in insertion order) are
// reversed and marked with [Reversed]; self loops are removed. It returns the
// number of edges changed.
func BreakCycles(g *dag.Graph) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[*dag.Node]int)
	var backEdges []*dag.Edge

	var dfs func(n *dag.Node)
	dfs = func(n *dag.Node) {
		color[n] = gray
		for _, e := range n.Outgoing() {
			switch child := e.To(); color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, e)
			}
		}
		color[n] = black
	}

	for _, n := range g.Sources() {
		if color[n] == white {
			dfs(n)
		}
	}
	for _, n := range g.Nodes() {
		if color[n] == white {
			dfs(n)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e)
		if e.From() == e.To() {
			continue
		}
		rev, err := g.Connect(e.Target, e.Source)
		if err != nil {
			panic(err)
		}
		rev.Properties().CopyFrom(e.Properties())
		property.Set(rev.Properties(), Reversed, true)
	}
	return len(backEdges)
}
