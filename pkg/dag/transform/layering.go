package transform

import "github.com/matzehuels/stacklayout/pkg/dag"

// AssignLayers assigns nodes to layers based on their depth in the graph.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm). Each node is placed one layer below the deepest of its
// parents, so that:
//   - Source nodes (no incoming edges) are in layer 0
//   - All parents are strictly above their children
//
// Existing layer assignments are overwritten. Nodes keep their insertion
// order within a layer.
//
// # Cycles
//
// AssignLayers assumes the graph is acyclic. Nodes on a cycle never reach
// zero in-degree and stay in layer 0. Run [BreakCycles] first.
//
// # Performance
//
// Time complexity is O(V + E).
func AssignLayers(g *dag.Graph) {
	nodes := g.Nodes()
	inDegree := make(map[*dag.Node]int, len(nodes))
	layers := make(map[string]int, len(nodes))
	queue := make([]*dag.Node, 0, len(nodes))

	for _, n := range nodes {
		degree := len(n.Incoming())
		inDegree[n] = degree
		layers[n.ID] = 0
		if degree == 0 {
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, e := range curr.Outgoing() {
			child := e.To()
			if l := layers[curr.ID] + 1; l > layers[child.ID] {
				layers[child.ID] = l
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetLayers(layers)
}
