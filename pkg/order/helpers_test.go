package order

import (
	"testing"

	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/property"
)

type builder struct {
	t *testing.T
	g *dag.Graph
}

func newBuilder(t *testing.T) *builder {
	return &builder{t: t, g: dag.New()}
}

// node adds a regular node, with a model order if mo is given.
func (b *builder) node(id string, layer int, mo ...int) *dag.Node {
	b.t.Helper()
	n, err := b.g.AddNode(dag.Node{ID: id, Layer: layer})
	if err != nil {
		b.t.Fatalf("AddNode(%s): %v", id, err)
	}
	if len(mo) > 0 {
		property.Set(n.Properties(), dag.ModelOrder, mo[0])
	}
	return n
}

func (b *builder) dummy(id string, layer int) *dag.Node {
	b.t.Helper()
	n, err := b.g.AddNode(dag.Node{ID: id, Layer: layer, Kind: dag.NodeKindSubdivider})
	if err != nil {
		b.t.Fatalf("AddNode(%s): %v", id, err)
	}
	return n
}

// port returns the port of n named id, creating it if needed.
func (b *builder) port(n *dag.Node, id string) *dag.Port {
	b.t.Helper()
	for _, p := range n.Ports() {
		if p.ID == id {
			return p
		}
	}
	p, err := b.g.AddPort(n, id)
	if err != nil {
		b.t.Fatalf("AddPort(%s, %s): %v", n.ID, id, err)
	}
	return p
}

// edge connects port fromPort of from to a new port of to, with an edge
// model order if mo is given.
func (b *builder) edge(from *dag.Node, fromPort string, to *dag.Node, mo ...int) *dag.Edge {
	b.t.Helper()
	e, err := b.g.Connect(b.port(from, fromPort), b.port(to, ""))
	if err != nil {
		b.t.Fatalf("Connect(%s, %s): %v", from.ID, to.ID, err)
	}
	if len(mo) > 0 {
		property.Set(e.Properties(), dag.ModelOrder, mo[0])
	}
	return e
}

func ids(nodes []*dag.Node) []string { return dag.NodeIDs(nodes) }
