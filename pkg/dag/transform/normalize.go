package transform

import "github.com/matzehuels/stacklayout/pkg/dag"

// Stats reports what [Normalize] changed.
type Stats struct {
	ReversedEdges int
	Subdividers   int
}

// Normalize prepares g for ordering: it breaks cycles, assigns layers and
// subdivides long edges, in that order. g is modified in place.
func Normalize(g *dag.Graph) Stats {
	var s Stats
	s.ReversedEdges = BreakCycles(g)
	AssignLayers(g)
	s.Subdividers = Subdivide(g)
	return s
}
