package transform

import (
	"fmt"

	"github.com/matzehuels/stacklayout/pkg/dag"
)

// Subdivide breaks edges that span multiple layers into chains of
// single-layer edges connected by synthetic subdivider nodes:
//
//	Before: app (layer 0) → core (layer 3)
//	After:  app → app_sub_1 → app_sub_2 → core
//
// The first segment leaves from the original source port and the last one
// enters the original target port. Each subdivider gets one input and one
// output port, a MasterID naming the source node, and no model order. Every
// segment carries a copy of the original edge's properties, so a
// subdivider's incoming edge still reports the model order of the edge it
// replaces.
//
// Subdivider IDs have the form "master_sub_layer". On collision a numeric
// suffix is appended ("app_sub_1__2").
//
// It returns the number of subdividers created. Time complexity is O(V·D)
// where D is the number of layers.
func Subdivide(g *dag.Graph) int {
	gen := newIDGen(g.Nodes())
	created := 0
	for _, e := range g.Edges() {
		src, dst := e.From(), e.To()
		if dst.Layer <= src.Layer+1 {
			continue
		}

		g.RemoveEdge(e)
		from := e.Source
		for layer := src.Layer + 1; layer < dst.Layer; layer++ {
			from = addSubdivider(g, gen, from, e, src.EffectiveID(), layer)
			created++
		}
		seg, err := g.Connect(from, e.Target)
		if err != nil {
			panic(err)
		}
		seg.Properties().CopyFrom(e.Properties())
	}
	return created
}

// addSubdivider appends a subdivider in layer, connects from to its input
// port and returns its output port.
func addSubdivider(g *dag.Graph, gen *idGen, from *dag.Port, orig *dag.Edge, master string, layer int) *dag.Port {
	n, err := g.AddNode(dag.Node{
		ID:       gen.next(master, layer),
		Layer:    layer,
		Kind:     dag.NodeKindSubdivider,
		MasterID: master,
	})
	if err != nil {
		panic(err)
	}
	in, err := g.AddPort(n, "in")
	if err != nil {
		panic(err)
	}
	out, err := g.AddPort(n, "out")
	if err != nil {
		panic(err)
	}
	seg, err := g.Connect(from, in)
	if err != nil {
		panic(err)
	}
	seg.Properties().CopyFrom(orig.Properties())
	return out
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, layer int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, layer)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
