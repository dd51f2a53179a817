package pipeline

import (
	"fmt"

	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/graph"
)

// LayoutGraph rebuilds the ordered layered graph described by l: nodes,
// ports, edges and properties from l.Nodes and l.Edges, and the order of
// every layer from l.Layers.
func LayoutGraph(l graph.Layout) (*dag.Graph, error) {
	d, err := graph.ToDAG(graph.Graph{Nodes: l.Nodes, Edges: l.Edges})
	if err != nil {
		return nil, err
	}
	for _, ids := range l.Layers {
		if len(ids) == 0 {
			continue
		}
		nodes := make([]*dag.Node, len(ids))
		for i, id := range ids {
			n, ok := d.Node(id)
			if !ok {
				return nil, fmt.Errorf("layout lists unknown node %q", id)
			}
			nodes[i] = n
		}
		if err := d.SetLayerOrder(nodes[0].Layer, nodes); err != nil {
			return nil, fmt.Errorf("layer %d: %w", nodes[0].Layer, err)
		}
	}
	return d, nil
}
