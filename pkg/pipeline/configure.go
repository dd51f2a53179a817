package pipeline

import (
	"fmt"

	"github.com/matzehuels/stacklayout/pkg/configurator"
	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/graph"
	"github.com/matzehuels/stacklayout/pkg/model"
)

// RootName addresses the graph itself in the elements list of a
// configurator file. Nodes are addressed by ID, ports as "node.port" and
// edges as "from->to", with "#2", "#3"... appended for parallel edges.
const RootName = "@graph"

// Resolved holds the effective options of one element after configuration.
type Resolved struct {
	Name    string         `json:"name"`
	Kind    string         `json:"kind"`
	Options map[string]any `json:"options,omitempty"`
}

// modelView mirrors a layered graph as an element model so configurators
// can address it. The root stands for the graph; every node is a direct
// child of the root.
type modelView struct {
	g      *model.Graph
	byName map[string]model.Element
	names  map[model.Handle]string
	nodes  map[*dag.Node]*model.Node
	edges  map[*dag.Edge]*model.Edge
}

func newModelView(d *dag.Graph) *modelView {
	mg := model.NewGraph()
	v := &modelView{
		g:      mg,
		byName: make(map[string]model.Element),
		names:  make(map[model.Handle]string),
		nodes:  make(map[*dag.Node]*model.Node),
		edges:  make(map[*dag.Edge]*model.Edge),
	}
	root := mg.Root()
	root.Properties().CopyFrom(d.Properties())
	v.add(RootName, root)

	ports := make(map[*dag.Port]*model.Port)
	for _, n := range d.Nodes() {
		mn := mg.AddNode(root, n.ID)
		mn.Properties().CopyFrom(n.Properties())
		v.add(n.ID, mn)
		v.nodes[n] = mn
		for _, p := range n.Ports() {
			mp := mg.AddPort(mn, p.ID)
			ports[p] = mp
			v.add(n.ID+"."+p.ID, mp)
		}
	}

	seen := make(map[string]int)
	for _, e := range d.Edges() {
		name := e.From().ID + "->" + e.To().ID
		if seen[name]++; seen[name] > 1 {
			name = fmt.Sprintf("%s#%d", name, seen[name])
		}
		me := mg.AddEdge(name, ports[e.Source], ports[e.Target])
		me.Properties().CopyFrom(e.Properties())
		v.add(name, me)
		v.edges[e] = me
	}
	return v
}

// add registers name for e. The first element to claim a name keeps it.
func (v *modelView) add(name string, e model.Element) {
	if _, taken := v.byName[name]; !taken {
		v.byName[name] = e
	}
	v.names[e.Handle()] = name
}

func (v *modelView) resolve(name string) (model.Element, bool) {
	e, ok := v.byName[name]
	return e, ok
}

// writeBack replaces the properties of d's graph, nodes and edges with the
// configured ones. Ports of a layered graph carry no properties.
func (v *modelView) writeBack(d *dag.Graph) {
	d.Properties().Clear()
	d.Properties().CopyFrom(v.g.Root().Properties())
	for n, mn := range v.nodes {
		n.Properties().Clear()
		n.Properties().CopyFrom(mn.Properties())
	}
	for e, me := range v.edges {
		e.Properties().Clear()
		e.Properties().CopyFrom(me.Properties())
	}
}

// resolved lists every element in walk order with its properties.
func (v *modelView) resolved() []Resolved {
	var out []Resolved
	model.Walk(v.g.Root(), model.VisitorFunc(func(e model.Element) {
		r := Resolved{Name: v.names[e.Handle()], Kind: e.Kind().String()}
		if e == model.Element(v.g.Root()) {
			r.Kind = "graph"
		}
		for _, id := range e.Properties().Keys() {
			if r.Options == nil {
				r.Options = make(map[string]any)
			}
			val, _ := e.Properties().Value(id)
			r.Options[string(id)] = val
		}
		out = append(out, r)
	}))
	return out
}

// configure builds cfg against d and applies it in place.
func configure(d *dag.Graph, cfg *configurator.File, reg configurator.OptionLookup) (*modelView, error) {
	v := newModelView(d)
	c, err := cfg.Build(v.resolve, reg)
	if err != nil {
		return nil, err
	}
	configurator.Apply(v.g.Root(), c)
	v.writeBack(d)
	return v, nil
}

// Configure applies cfg to g and reports the resulting options of every
// element. g itself is not modified.
func (r *Runner) Configure(g graph.Graph, cfg *configurator.File) ([]Resolved, error) {
	d, err := graph.ToDAG(g)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &configurator.File{}
	}
	v, err := configure(d, cfg, r.lookup())
	if err != nil {
		return nil, err
	}
	return v.resolved(), nil
}

// lookup returns the registry as an option lookup, or nil if there is none.
func (r *Runner) lookup() configurator.OptionLookup {
	if r.Registry == nil {
		return nil
	}
	return r.Registry
}
